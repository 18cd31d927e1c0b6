package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gastos/internal/core"

	"github.com/shopspring/decimal"
)

func TestMemoryStoreAppendAndFetch(t *testing.T) {
	s := New()
	rows, err := s.FetchAllRows(context.Background())
	if err != nil || rows == nil || len(rows) != 0 {
		t.Fatalf("empty store: rows=%#v err=%v", rows, err)
	}

	err = s.AppendRow(context.Background(), core.Row{
		Date:        "01/03/2025 10:00:00",
		Category:    "comida",
		Amount:      decimal.RequireFromString("12.5"),
		Description: "t",
		User:        "Smith",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.AppendRow(context.Background(), core.Row{Category: "x"}); err == nil {
		t.Fatal("expected validation error for empty date")
	}

	rows, _ = s.FetchAllRows(context.Background())
	if len(rows) != 1 || s.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	rec, ok := core.BuildRecord(rows[0])
	if !ok || rec.Category != "alimentacion" || !rec.Amount.Equal(decimal.RequireFromString("12.5")) || rec.User != "Smith" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestNewFromFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFromFiles(dir)
	if err != nil || s.Len() != 0 {
		t.Fatalf("missing seed should give empty store: len=%d err=%v", s.Len(), err)
	}

	content := "# exported sheet\nFecha,Categoría,Monto,Descripción,Usuario\n" +
		"05/03/2025 12:00:00,Comida,\"1.234,56\",súper,Smith\n" +
		"06/03/2025 12:00:00,Taxi,$ 1.000,,Smith\n" +
		"07/03/2025 12:00:00,Luz,10,x,Smith,extra\n"
	if err := os.WriteFile(filepath.Join(dir, SeedFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s, err = NewFromFiles(dir)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	rows, _ := s.FetchAllRows(context.Background())
	if len(rows) != 3 || rows[2] != nil {
		t.Fatalf("unexpected rows: %#v", rows)
	}
	recs, err := core.BuildRecords(rows, core.MonthlyReportColumns...)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	rep := core.Aggregate(recs, &core.MonthFilter{Year: 2025, Month: 3})
	if !rep.Total.Equal(decimal.RequireFromString("2234.56")) {
		t.Fatalf("total = %s", rep.Total)
	}
}
