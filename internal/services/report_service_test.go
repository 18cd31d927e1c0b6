package services

import (
	"context"
	"errors"
	"testing"

	"gastos/internal/core"
	"gastos/internal/sheets/memory"

	"github.com/shopspring/decimal"
)

type fakeFetcher struct {
	rows []core.RawRow
	err  error
}

func (f fakeFetcher) FetchAllRows(context.Context) ([]core.RawRow, error) { return f.rows, f.err }

func seededStore() *memory.Store {
	return memory.NewWithRows(
		[]string{"Fecha", "Categoría", "Monto", "Descripción", "Usuario"},
		[][]any{
			{"10/01/2025 09:00:00", "Comida", "1.234,56", "", "Smith"},
			{"05/03/2025 12:00:00", "Alimentación", "2,5", "", "Smith"},
			{"07/03/2025 18:00:00", "Taxi", "$ 1.000", "", "Smith"},
			{"sin fecha", "Mascotas", "40", "", "Smith"},
		},
	)
}

func TestMonthlyReport(t *testing.T) {
	svc := NewReportService(seededStore())

	rep, err := svc.MonthlyReport(context.Background(), "2025-03")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if rep.Filter == nil || len(rep.Summaries) != 2 || !rep.Total.Equal(decimal.RequireFromString("1002.5")) {
		t.Fatalf("unexpected report: %+v", rep)
	}

	all, err := svc.MonthlyReport(context.Background(), "")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if all.Filter != nil || len(all.Summaries) != 3 || !all.Total.Equal(decimal.RequireFromString("2277.06")) {
		t.Fatalf("unexpected all-time report: %+v", all)
	}
}

func TestMonthlyReportMalformedFilterFallsBack(t *testing.T) {
	svc := NewReportService(seededStore())
	for _, m := range []string{"marzo", "2025-13"} {
		rep, err := svc.MonthlyReport(context.Background(), m)
		if err != nil {
			t.Fatalf("%q: %v", m, err)
		}
		if !rep.FilterIgnored || rep.Filter != nil || !rep.Total.Equal(decimal.RequireFromString("2277.06")) {
			t.Fatalf("%q: expected unfiltered report, got %+v", m, rep)
		}
	}
}

func TestReportMissingColumn(t *testing.T) {
	svc := NewReportService(fakeFetcher{rows: []core.RawRow{{"Categoría": "luz", "Monto": "10"}}})

	if _, err := svc.Report(context.Background(), nil); err != nil {
		t.Fatalf("all-time report needs no date column: %v", err)
	}
	_, err := svc.Report(context.Background(), &core.MonthFilter{Year: 2025, Month: 3})
	if !errors.Is(err, core.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestReportEmptyStore(t *testing.T) {
	svc := NewReportService(memory.New())
	rep, err := svc.MonthlyReport(context.Background(), "2025-03")
	if err != nil {
		t.Fatalf("empty store is not an error: %v", err)
	}
	if len(rep.Summaries) != 0 || !rep.Total.IsZero() {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestReportFetchError(t *testing.T) {
	svc := NewReportService(fakeFetcher{err: errors.New("quota")})
	if _, err := svc.Report(context.Background(), nil); err == nil {
		t.Fatal("expected fetch error")
	}
}
