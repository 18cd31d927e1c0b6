package google

import (
	"testing"

	"gastos/internal/core"

	"github.com/shopspring/decimal"
)

func TestRowsFromValues(t *testing.T) {
	values := [][]any{
		{"Fecha", "Categoría", "Monto", "Descripción", "Usuario"},
		{"10/03/2025 09:00:00", "Comida", "1.234,56", "súper", "Smith"},
		{},
		{"", " ", nil},
		{"11/03/2025 10:00:00", "Taxi", 1500.0},
		{"12/03/2025 10:00:00", "Luz", 10, "x", "Smith", "extra"},
	}
	rows := rowsFromValues(values)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d: %#v", len(rows), rows)
	}
	if rows[0]["Categoría"] != "Comida" || rows[0]["Usuario"] != "Smith" {
		t.Fatalf("unexpected first row: %#v", rows[0])
	}
	if _, ok := rows[1]["Descripción"]; ok {
		t.Fatalf("short row should not carry missing cells: %#v", rows[1])
	}
	if rows[2] != nil {
		t.Fatalf("row wider than headers should be nil, got %#v", rows[2])
	}

	recs, err := core.BuildRecords(rows, core.MonthlyReportColumns...)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if !recs[1].Amount.Equal(decimal.NewFromInt(1500)) || recs[1].Category != "transporte" {
		t.Fatalf("unexpected record: %+v", recs[1])
	}
}

func TestRowsFromValuesEmpty(t *testing.T) {
	if rows := rowsFromValues(nil); rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty slice, got %#v", rows)
	}
	if rows := rowsFromValues([][]any{{"Fecha", "Monto"}}); len(rows) != 0 {
		t.Fatalf("header only should give no rows, got %#v", rows)
	}
}

func TestQuoteSheet(t *testing.T) {
	cases := map[string]string{
		"Hoja 1":   "'Hoja 1'",
		"Gastos's": "'Gastos''s'",
	}
	for in, want := range cases {
		if got := quoteSheet(in); got != want {
			t.Fatalf("quoteSheet(%q) = %q, want %q", in, got, want)
		}
	}
}
