package services

import (
	"context"
	"fmt"

	"gastos/internal/core"
	applog "gastos/internal/log"
	"gastos/internal/sheets"
)

// ReportService recomputes category reports from a full store snapshot.
type ReportService struct {
	fetcher sheets.RowFetcher
}

func NewReportService(fetcher sheets.RowFetcher) *ReportService {
	return &ReportService{fetcher: fetcher}
}

// MonthlyReport builds the report for a "YYYY-MM" selector. An empty selector
// means all time. A malformed selector is logged and ignored.
func (s *ReportService) MonthlyReport(ctx context.Context, month string) (core.Report, error) {
	if month == "" {
		return s.Report(ctx, nil)
	}
	filter, err := core.ParseMonthFilter(month)
	if err != nil {
		applog.FromContext(ctx).WithComponent(applog.ComponentReport).WarnContext(ctx, "Ignoring malformed month filter",
			applog.FieldMonthFilter, month, applog.FieldError, err)
		rep, rerr := s.Report(ctx, nil)
		rep.FilterIgnored = true
		return rep, rerr
	}
	return s.Report(ctx, filter)
}

// Report builds the report for an optional filter. A filter that is not a
// real month is logged and ignored.
func (s *ReportService) Report(ctx context.Context, filter *core.MonthFilter) (core.Report, error) {
	rows, err := s.fetcher.FetchAllRows(ctx)
	if err != nil {
		return core.Report{}, fmt.Errorf("fetch rows: %w", err)
	}

	required := core.ReportColumns
	if filter != nil && filter.Valid() {
		required = core.MonthlyReportColumns
	}
	records, err := core.BuildRecords(rows, required...)
	if err != nil {
		return core.Report{}, err
	}

	logger := applog.FromContext(ctx).WithComponent(applog.ComponentReport)
	rep := core.Aggregate(records, filter)
	if rep.FilterIgnored {
		logger.WarnContext(ctx, "Ignoring invalid month filter", applog.FieldMonthFilter, filter.String())
	}
	logger.DebugContext(ctx, "Report computed",
		applog.FieldRows, len(rows),
		"records", rep.Records,
		applog.FieldCategories, len(rep.Summaries),
		applog.FieldTotal, rep.Total.String())
	return rep, nil
}
