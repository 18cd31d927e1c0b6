package core

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Column is a semantic column of the expense sheet.
type Column string

const (
	ColumnDate        Column = "date"
	ColumnCategory    Column = "category"
	ColumnAmount      Column = "amount"
	ColumnDescription Column = "description"
	ColumnUser        Column = "user"
)

// columnAliases maps each semantic column to the folded header names that
// identify it. Headers are matched exactly first, then by substring, in
// table order.
var columnAliases = []struct {
	Column  Column
	Aliases []string
}{
	{ColumnDate, []string{"fecha", "date", "fecha y hora", "timestamp"}},
	{ColumnCategory, []string{"categoria", "category", "rubro"}},
	{ColumnAmount, []string{"monto", "amount", "importe", "valor", "total"}},
	{ColumnDescription, []string{"descripcion", "description", "detalle", "concepto"}},
	{ColumnUser, []string{"usuario", "user", "persona"}},
}

// ReportColumns are the columns a category report cannot do without.
var ReportColumns = []Column{ColumnCategory, ColumnAmount}

// MonthlyReportColumns are required when a month filter is active.
var MonthlyReportColumns = []Column{ColumnDate, ColumnCategory, ColumnAmount}

// ResolveColumn maps a raw header to its semantic column.
func ResolveColumn(header string) (Column, bool) {
	m, ok := matchHeader(header)
	return m.Column, ok
}

// headerMatch records how a header resolved. Exact matches outrank substring
// matches, then earlier aliases outrank later ones.
type headerMatch struct {
	Column Column
	Exact  bool
	Alias  int // position of the alias within its column's list
}

func (m headerMatch) beats(o headerMatch) bool {
	if m.Exact != o.Exact {
		return m.Exact
	}
	return m.Alias < o.Alias
}

func matchHeader(header string) (headerMatch, bool) {
	key := collapseSpaces(foldText(header))
	if key == "" {
		return headerMatch{}, false
	}
	for _, entry := range columnAliases {
		for i, alias := range entry.Aliases {
			if key == alias {
				return headerMatch{Column: entry.Column, Exact: true, Alias: i}, true
			}
		}
	}
	for _, entry := range columnAliases {
		for i, alias := range entry.Aliases {
			if strings.Contains(key, alias) {
				return headerMatch{Column: entry.Column, Alias: i}, true
			}
		}
	}
	return headerMatch{}, false
}

// BuildRecords normalizes raw rows into expense records.
//
// Malformed rows (nil, or holding a non-scalar value in a semantic column) are
// skipped. When rows is non-empty and no row carries one of the required
// columns, an error wrapping ErrMissingColumn is returned.
func BuildRecords(rows []RawRow, required ...Column) ([]ExpenseRecord, error) {
	if len(rows) == 0 {
		return []ExpenseRecord{}, nil
	}

	seen := map[Column]bool{}
	headers := map[string]headerMatch{}
	for _, row := range rows {
		for header := range row {
			if _, done := headers[header]; done {
				continue
			}
			if m, ok := matchHeader(header); ok {
				headers[header] = m
				seen[m.Column] = true
			}
		}
	}

	var missing []string
	for _, col := range required {
		if !seen[col] {
			missing = append(missing, string(col))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	records := make([]ExpenseRecord, 0, len(rows))
	for _, row := range rows {
		fields, ok := extractFields(row, headers)
		if !ok {
			continue
		}
		records = append(records, buildRecord(fields))
	}
	return records, nil
}

// BuildRecord normalizes a single row whose headers may be in any form.
func BuildRecord(row RawRow) (ExpenseRecord, bool) {
	headers := map[string]headerMatch{}
	for header := range row {
		if m, ok := matchHeader(header); ok {
			headers[header] = m
		}
	}
	fields, ok := extractFields(row, headers)
	if !ok {
		return ExpenseRecord{}, false
	}
	return buildRecord(fields), true
}

// extractFields picks one value per semantic column. When several headers map
// to the same column an exact alias match wins over a substring match, then
// the earlier alias, then the lexicographically smallest header.
func extractFields(row RawRow, headers map[string]headerMatch) (map[Column]any, bool) {
	if row == nil {
		return nil, false
	}
	type pick struct {
		header string
		match  headerMatch
	}
	fields := map[Column]any{}
	chosen := map[Column]pick{}
	for header, value := range row {
		m, ok := headers[header]
		if !ok {
			continue
		}
		if !isScalar(value) {
			return nil, false
		}
		if prev, dup := chosen[m.Column]; dup {
			if prev.match.beats(m) || (!m.beats(prev.match) && prev.header < header) {
				continue
			}
		}
		chosen[m.Column] = pick{header: header, match: m}
		fields[m.Column] = value
	}
	return fields, true
}

func buildRecord(fields map[Column]any) ExpenseRecord {
	dateRaw := cellString(fields[ColumnDate])
	categoryRaw := cellString(fields[ColumnCategory])

	rec := ExpenseRecord{
		DateRaw:     dateRaw,
		CategoryRaw: categoryRaw,
		Category:    NormalizeCategory(categoryRaw),
		AmountRaw:   fields[ColumnAmount],
		Amount:      AmountOrZero(fields[ColumnAmount]),
		Description: cellString(fields[ColumnDescription]),
		User:        cellString(fields[ColumnUser]),
	}
	if t, ok := fields[ColumnDate].(time.Time); ok {
		rec.Date = ParseDayFirst(t)
	} else {
		rec.Date = ParseDayFirst(dateRaw)
	}
	return rec
}

func isScalar(v any) bool {
	if v == nil {
		return true
	}
	switch v.(type) {
	case string, time.Time, []byte:
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan, reflect.Func:
		return false
	}
	return true
}

func cellString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case time.Time:
		return s.Format(RowDateLayout)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
