package export

import (
	"fmt"
	"io"

	"gastos/internal/core"

	"github.com/signintech/gopdf"
)

const (
	fontFamily = "body"
	pageTop    = 50.0
	pageBottom = 790.0
	lineHeight = 20.0
	colCat     = 40.0
	colAmount  = 360.0
	colShare   = 500.0
)

var chartColors = [][3]uint8{
	{255, 99, 132}, {54, 162, 235}, {255, 206, 86}, {75, 192, 192},
	{153, 102, 255}, {255, 159, 64}, {199, 199, 199},
}

type pdfWriter struct {
	pdf *gopdf.GoPdf
	y   float64
}

func (p *pdfWriter) text(x float64, size int, s string) error {
	if err := p.pdf.SetFont(fontFamily, "", size); err != nil {
		return err
	}
	p.pdf.SetX(x)
	p.pdf.SetY(p.y)
	return p.pdf.Cell(nil, s)
}

// newPageIfNeeded starts a page when fewer than need points remain.
func (p *pdfWriter) newPageIfNeeded(need float64) {
	if p.y+need > pageBottom {
		p.pdf.AddPage()
		p.y = pageTop
	}
}

func (p *pdfWriter) header() error {
	p.pdf.SetTextColor(60, 60, 60)
	for _, c := range []struct {
		x float64
		s string
	}{{colCat, headerCat}, {colAmount, headerAmount}, {colShare, headerShare}} {
		if err := p.text(c.x, 12, c.s); err != nil {
			return err
		}
	}
	p.y += lineHeight
	return nil
}

// PDF writes rep as an A4 document, continuing the table across pages.
func (e *Exporter) PDF(w io.Writer, rep core.Report) error {
	fontPath, err := e.resolveFont()
	if err != nil {
		return err
	}

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	if err := pdf.AddTTFFont(fontFamily, fontPath); err != nil {
		return fmt.Errorf("%w: %v", ErrFontUnavailable, err)
	}
	pdf.AddPage()

	p := &pdfWriter{pdf: pdf, y: pageTop}
	pdf.SetTextColor(20, 20, 20)
	if err := p.text(colCat, 18, reportTitle); err != nil {
		return fmt.Errorf("title: %w", err)
	}
	p.y += 28
	if err := p.text(colCat, 12, PeriodLabel(rep)); err != nil {
		return fmt.Errorf("period: %w", err)
	}
	p.y += lineHeight
	if rep.FilterIgnored {
		pdf.SetTextColor(180, 60, 60)
		if err := p.text(colCat, 10, ignoredNotice); err != nil {
			return err
		}
		p.y += lineHeight
	}
	p.y += 10

	if err := p.header(); err != nil {
		return fmt.Errorf("table header: %w", err)
	}

	for i, s := range rep.Summaries {
		if p.y+lineHeight > pageBottom {
			p.newPageIfNeeded(lineHeight)
			if err := p.header(); err != nil {
				return fmt.Errorf("table header: %w", err)
			}
		}
		c := chartColors[i%len(chartColors)]
		pdf.SetFillColor(c[0], c[1], c[2])
		pdf.RectFromUpperLeftWithStyle(colCat-14, p.y+3, 8, 8, "F")
		pdf.SetTextColor(20, 20, 20)
		if err := p.text(colCat, 11, s.Display); err != nil {
			return fmt.Errorf("row %q: %w", s.Category, err)
		}
		if err := p.text(colAmount, 11, core.FormatAmount(s.Total)); err != nil {
			return fmt.Errorf("row %q: %w", s.Category, err)
		}
		if err := p.text(colShare, 11, fmt.Sprintf("%.1f", share(rep, s))); err != nil {
			return fmt.Errorf("row %q: %w", s.Category, err)
		}
		p.y += lineHeight
	}

	p.newPageIfNeeded(lineHeight + 10)
	p.y += 10
	pdf.SetLineWidth(0.5)
	pdf.Line(colCat, p.y-4, colShare+40, p.y-4)
	if err := p.text(colCat, 12, totalLabel); err != nil {
		return fmt.Errorf("total: %w", err)
	}
	if err := p.text(colAmount, 12, core.FormatAmount(rep.Total)); err != nil {
		return fmt.Errorf("total: %w", err)
	}

	if _, err := pdf.WriteTo(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
