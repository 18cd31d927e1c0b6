package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type (
	// MonthFilter restricts a report to one calendar month.
	MonthFilter struct {
		Year  int
		Month int // 1-12
	}

	// CategorySummary is the total for one canonical category.
	CategorySummary struct {
		Category string
		Display  string
		Total    decimal.Decimal
	}

	// Report is the result of an aggregation.
	Report struct {
		Filter        *MonthFilter // nil means all time
		FilterIgnored bool         // a filter was supplied but was not valid
		Summaries     []CategorySummary
		Total         decimal.Decimal
		Records       int // records that passed the filter
	}
)

// ParseMonthFilter parses a "YYYY-MM" selector.
func ParseMonthFilter(s string) (*MonthFilter, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMonthFilter, s)
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("%w: year %q", ErrInvalidMonthFilter, parts[0])
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("%w: month %q", ErrInvalidMonthFilter, parts[1])
	}
	f := &MonthFilter{Year: year, Month: month}
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMonthFilter, s)
	}
	return f, nil
}

// Valid reports whether the filter names a real month.
func (f MonthFilter) Valid() bool {
	return f.Year >= 1 && f.Month >= 1 && f.Month <= 12
}

// String formats the filter as "YYYY-MM".
func (f MonthFilter) String() string {
	return fmt.Sprintf("%04d-%02d", f.Year, f.Month)
}

// Aggregate groups records by canonical category and sums their amounts.
//
// With a valid filter only records dated within that month are kept; records
// without a parsed date never pass a filter. An invalid filter is ignored and
// reported through Report.FilterIgnored. Summaries are ordered by canonical
// category. Total is the sum of the summary totals.
func Aggregate(records []ExpenseRecord, filter *MonthFilter) Report {
	rep := Report{Summaries: []CategorySummary{}, Total: decimal.Zero}
	if filter != nil {
		if filter.Valid() {
			f := *filter
			rep.Filter = &f
		} else {
			rep.FilterIgnored = true
		}
	}

	sums := map[string]decimal.Decimal{}
	for _, rec := range records {
		if rep.Filter != nil && !rec.InMonth(rep.Filter.Year, rep.Filter.Month) {
			continue
		}
		rep.Records++
		sums[rec.Category] = sums[rec.Category].Add(rec.Amount)
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		rep.Summaries = append(rep.Summaries, CategorySummary{
			Category: k,
			Display:  DisplayName(k),
			Total:    sums[k],
		})
		rep.Total = rep.Total.Add(sums[k])
	}
	return rep
}
