package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gastos/internal/core"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func sampleReport() core.Report {
	d := decimal.RequireFromString
	return core.Report{
		Filter: &core.MonthFilter{Year: 2025, Month: 3},
		Summaries: []core.CategorySummary{
			{Category: "comida", Display: "Comida", Total: d("1500")},
			{Category: "transporte", Display: "Transporte", Total: d("500.5")},
		},
		Total:   d("2000.5"),
		Records: 3,
	}
}

func TestPeriodLabel(t *testing.T) {
	if got := PeriodLabel(sampleReport()); got != "2025-03" {
		t.Fatalf("got %q", got)
	}
	if got := PeriodLabel(core.Report{}); got != allTimeLabel {
		t.Fatalf("got %q", got)
	}
}

func TestShare(t *testing.T) {
	rep := sampleReport()
	if got := share(rep, rep.Summaries[0]); got != 75 {
		t.Fatalf("share = %v", got)
	}
	if got := share(core.Report{Total: decimal.Zero}, core.CategorySummary{Total: decimal.NewFromInt(1)}); got != 0 {
		t.Fatalf("share on zero total = %v", got)
	}
}

func TestWorkbook(t *testing.T) {
	var buf bytes.Buffer
	if err := New("").Workbook(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	checks := map[string]string{
		"A1": reportTitle,
		"A2": "2025-03",
		"A4": headerCat,
		"A5": "Comida",
		"A6": "Transporte",
		"A7": totalLabel,
	}
	for cell, want := range checks {
		got, err := f.GetCellValue(sheetName, cell)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
	raw, err := f.GetCellValue(sheetName, "B7", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatal(err)
	}
	if raw != "2000.5" {
		t.Errorf("total raw = %q", raw)
	}
}

func TestWorkbookEmptyReportHasZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	rep := core.Report{Summaries: []core.CategorySummary{}, Total: decimal.Zero, FilterIgnored: true}
	if err := New("").Workbook(&buf, rep); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if got, _ := f.GetCellValue(sheetName, "A5"); got != totalLabel {
		t.Fatalf("A5 = %q", got)
	}
	if got, _ := f.GetCellValue(sheetName, "B2"); got != ignoredNotice {
		t.Fatalf("B2 = %q", got)
	}
}

func TestPDFWithoutFont(t *testing.T) {
	e := &Exporter{fontFile: filepath.Join(t.TempDir(), "missing.ttf")}
	if _, err := e.resolveFont(); err != nil && !errors.Is(err, ErrFontUnavailable) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestPDF(t *testing.T) {
	e := New(os.Getenv("EXPORT_FONT_FILE"))
	if _, err := e.resolveFont(); err != nil {
		t.Skip("no TrueType font on this machine")
	}

	rep := sampleReport()
	// enough rows to force a second page
	for i := 0; i < 60; i++ {
		rep.Summaries = append(rep.Summaries, core.CategorySummary{
			Category: "otros", Display: "Otros", Total: decimal.NewFromInt(int64(i)),
		})
	}

	var buf bytes.Buffer
	if err := e.PDF(&buf, rep); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", buf.Bytes()[:min(8, buf.Len())])
	}
}
