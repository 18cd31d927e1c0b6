// Package core provides the normalization and aggregation pipeline for
// expense rows.
//
// This file contains the amount parser. Amounts arrive as free text typed into
// a spreadsheet, so the same value can show up as "1.234,56", "1,234.56" or
// "$ 1.000". The parser keeps only digits, separators and a leading sign and
// then decides which separator is the decimal one.
//
// The decision is a heuristic, not locale detection:
//   - both '.' and ',' present: the one occurring last is the decimal separator
//     and every occurrence of the other is dropped
//   - only ',' present: it is the decimal separator ("2,5", "12,500" is 12.5)
//   - only '.' present and forming valid thousands grouping ("1.000",
//     "1.234.567"): every '.' is dropped
//   - otherwise a single '.' is the decimal separator ("12.50")
//
// A dotted value with three fractional digits and no other separator ("1.234")
// is read as a thousands-grouped integer. Callers rely on this exact behavior.
package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a raw cell value into a decimal amount.
//
// It never fails loudly: the boolean is false when the value is empty, has no
// digits or cannot be converted after separator normalization.
//
// Examples:
//
//	ParseAmount("1.234,56") -> 1234.56, true
//	ParseAmount("1,234.56") -> 1234.56, true
//	ParseAmount("2,5")      -> 2.5, true
//	ParseAmount("$ 1.000")  -> 1000, true
//	ParseAmount("abc")      -> 0, false
func ParseAmount(raw any) (decimal.Decimal, bool) {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return v, true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(v), true
	case float32:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat32(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt32(v), true
	case int64:
		return decimal.NewFromInt(v), true
	case json.Number:
		// machine formatted, so '.' is always the decimal point
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return d, true
		}
		return parseAmountString(v.String())
	case string:
		return parseAmountString(v)
	case []byte:
		return parseAmountString(string(v))
	default:
		return parseAmountString(fmt.Sprint(v))
	}
}

// AmountOrZero is ParseAmount with the failure absorbed as zero.
func AmountOrZero(raw any) decimal.Decimal {
	if d, ok := ParseAmount(raw); ok {
		return d
	}
	return decimal.Zero
}

func parseAmountString(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	var b strings.Builder
	neg := false
	digits := false
	started := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			digits = true
			started = true
		case r == '.' || r == ',':
			b.WriteRune(r)
			started = true
		case r == '-' && !started:
			neg = true
		}
	}
	if !digits {
		return decimal.Zero, false
	}

	cleaned, ok := normalizeSeparators(b.String())
	if !ok {
		return decimal.Zero, false
	}
	if strings.HasPrefix(cleaned, ".") {
		cleaned = "0" + cleaned
	}
	cleaned = strings.TrimSuffix(cleaned, ".")
	if neg {
		cleaned = "-" + cleaned
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// normalizeSeparators rewrites s so that '.' is the only (optional) decimal
// separator and no thousands separators remain.
func normalizeSeparators(s string) (string, bool) {
	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')

	switch {
	case lastDot < 0 && lastComma < 0:
		return s, true
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.ReplaceAll(s, ",", "."), true
		}
		return strings.ReplaceAll(s, ",", ""), true
	}

	if lastComma >= 0 {
		if strings.Count(s, ",") > 1 {
			return "", false
		}
		return strings.Replace(s, ",", ".", 1), true
	}
	if isThousandsGrouping(s, ".") {
		return strings.ReplaceAll(s, ".", ""), true
	}
	if strings.Count(s, ".") > 1 {
		return "", false
	}
	return s, true
}

// isThousandsGrouping reports whether s splits on sep into a leading group of
// 1-3 digits (not starting with 0) followed by groups of exactly 3 digits.
func isThousandsGrouping(s, sep string) bool {
	groups := strings.Split(s, sep)
	if len(groups) < 2 {
		return false
	}
	first := groups[0]
	if len(first) == 0 || len(first) > 3 || first[0] == '0' {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}

// FormatAmount renders an amount for people, using Spanish grouping and
// decimal separators (e.g. "$12.345,67"). Digits come from the decimal itself,
// so large amounts keep every cent.
func FormatAmount(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")
	return sign + "$" + groupThousands(intPart) + "," + frac
}

// groupThousands inserts '.' every three digits.
func groupThousands(digits string) string {
	var b strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:min(lead, len(digits))])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
