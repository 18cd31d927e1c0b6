// Package export renders category reports as workbook and PDF documents.
package export

import (
	"errors"
	"os"

	"gastos/internal/core"
)

// ErrFontUnavailable is returned by PDF when no TrueType font can be loaded.
var ErrFontUnavailable = errors.New("no TrueType font available for PDF export")

const (
	reportTitle   = "Resumen de gastos por categoría"
	allTimeLabel  = "Todo el período"
	ignoredNotice = "Filtro de mes inválido: se muestran todos los registros"
	headerCat     = "Categoría"
	headerAmount  = "Monto"
	headerShare   = "%"
	totalLabel    = "Total"
)

// fallbackFonts are probed when no font file is configured.
var fallbackFonts = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/Library/Fonts/Arial Unicode.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
}

// Exporter renders reports. The zero value uses only the fallback fonts.
type Exporter struct {
	fontFile string
}

func New(fontFile string) *Exporter {
	return &Exporter{fontFile: fontFile}
}

func (e *Exporter) resolveFont() (string, error) {
	candidates := fallbackFonts
	if e.fontFile != "" {
		candidates = append([]string{e.fontFile}, fallbackFonts...)
	}
	for _, path := range candidates {
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			return path, nil
		}
	}
	return "", ErrFontUnavailable
}

// PeriodLabel names the period a report covers.
func PeriodLabel(rep core.Report) string {
	if rep.Filter != nil {
		return rep.Filter.String()
	}
	return allTimeLabel
}

// share returns the percentage of the report total held by s, rounded to one decimal.
func share(rep core.Report, s core.CategorySummary) float64 {
	if rep.Total.IsZero() {
		return 0
	}
	f, _ := s.Total.Div(rep.Total).Shift(2).Round(1).Float64()
	return f
}
