package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"fintrack/internal/balance"
	"fintrack/internal/core"
)

// Page geometry in millimetres on A4 portrait.
const (
	pdfMargin     = 10.0
	pdfLineStep   = 10.0
	pdfPageBottom = 287.0
	chartWidth    = 180.0
	chartHeight   = 80.0
	chartGap      = 20.0
)

type rgb struct{ r, g, b int }

var (
	colorIncome  = rgb{0, 128, 0}
	colorExpense = rgb{255, 0, 0}
	colorBalance = rgb{0, 0, 255}
	colorAxis    = rgb{120, 120, 120}
)

// pdfTranslator encodes text for the core fonts, which only cover cp1252.
// fpdf writes '.' for characters outside it; those become '?' here so they do
// not read as punctuation.
func pdfTranslator(pdf *fpdf.Fpdf) func(string) string {
	cp1252 := pdf.UnicodeTranslatorFromDescriptor("")
	return func(s string) string {
		var b strings.Builder
		for _, r := range s {
			if r < 0x80 {
				b.WriteRune(r)
				continue
			}
			if t := cp1252(string(r)); t != "." {
				b.WriteString(t)
			} else {
				b.WriteByte('?')
			}
		}
		return b.String()
	}
}

// WritePDF renders the document as a single PDF: header, transaction listing,
// then the balance chart drawn as vector lines.
func WritePDF(w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreationDate(doc.GeneratedAt)
	pdf.SetAutoPageBreak(false, pdfMargin)
	tr := pdfTranslator(pdf)

	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 18)
	pdf.Text(pdfMargin, 10, tr(doc.Title))
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(pdfMargin, 20, "Generated on: "+doc.GeneratedAt.Format(TimestampLayout))
	pdf.SetFont("Helvetica", "", 14)
	pdf.Text(pdfMargin, 30, "Transactions:")

	pdf.SetFont("Helvetica", "", 12)
	y := 40.0
	if len(doc.Transactions) == 0 {
		pdf.Text(pdfMargin, y, "No transactions available.")
		y += pdfLineStep
	}
	for _, tx := range doc.Transactions {
		if y > pdfPageBottom {
			pdf.AddPage()
			pdf.SetFont("Helvetica", "", 12)
			y = 20
		}
		pdf.Text(pdfMargin, y, tr(strings.Join(Row(tx), "  ")))
		y += pdfLineStep
	}

	pdf.Text(pdfMargin, y, fmt.Sprintf("Current Balance: %s", doc.Balance.Display()))

	top := y + chartGap
	if top+chartHeight > pdfPageBottom {
		pdf.AddPage()
		top = 20
	}
	drawChart(pdf, doc.Series, pdfMargin, top, chartWidth, chartHeight)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// drawChart plots incomes, expenses and running balance inside the box at
// (x, y) with size (w, h). The value axis always includes zero.
func drawChart(pdf *fpdf.Fpdf, s balance.Series, x, y, w, h float64) {
	pdf.SetDrawColor(colorAxis.r, colorAxis.g, colorAxis.b)
	pdf.SetLineWidth(0.2)
	pdf.Rect(x, y, w, h, "D")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(x+w/2-4, y+h+8, "Date")
	pdf.TransformBegin()
	pdf.TransformRotate(90, x-4, y+h/2+10)
	pdf.Text(x-4, y+h/2+10, "Amount ($)")
	pdf.TransformEnd()

	if s.Len() == 0 {
		return
	}

	lo, hi := 0.0, 0.0
	for _, ms := range [][]core.Money{s.Incomes, s.Expenses, s.Balances} {
		for _, m := range ms {
			v := m.Float64()
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	if hi == lo {
		hi = lo + 1
	}

	px := func(i int) float64 {
		if s.Len() == 1 {
			return x + w/2
		}
		return x + w*float64(i)/float64(s.Len()-1)
	}
	py := func(v float64) float64 { return y + h - h*(v-lo)/(hi-lo) }

	if lo < 0 {
		pdf.SetDashPattern([]float64{1, 1}, 0)
		pdf.Line(x, py(0), x+w, py(0))
		pdf.SetDashPattern([]float64{}, 0)
	}
	pdf.Text(x+1, y+3, fmt.Sprintf("%.2f", hi))
	pdf.Text(x+1, y+h-1, fmt.Sprintf("%.2f", lo))

	series := []struct {
		label  string
		color  rgb
		values []core.Money
	}{
		{"Incomes", colorIncome, s.Incomes},
		{"Expenses", colorExpense, s.Expenses},
		{"Current Balance", colorBalance, s.Balances},
	}
	pdf.SetLineWidth(0.5)
	for n, line := range series {
		pdf.SetDrawColor(line.color.r, line.color.g, line.color.b)
		pdf.SetFillColor(line.color.r, line.color.g, line.color.b)
		for i, m := range line.values {
			cx, cy := px(i), py(m.Float64())
			pdf.Circle(cx, cy, 0.6, "F")
			if i > 0 {
				pdf.Line(px(i-1), py(line.values[i-1].Float64()), cx, cy)
			}
		}
		lx := x + float64(n)*45
		pdf.Line(lx, y-4, lx+6, y-4)
		pdf.Text(lx+8, y-3, line.label)
	}

	first, last := s.Labels[0], s.Labels[len(s.Labels)-1]
	pdf.Text(x, y+h+4, first)
	if len(s.Labels) > 1 {
		pdf.Text(x+w-pdf.GetStringWidth(last), y+h+4, last)
	}
}
