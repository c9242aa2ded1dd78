package report

import (
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/ughe/kami/metrics"
)

const (
	fontSize  = 9.0
	rowHeight = 14.0
	margin    = 36.0
	keyWidth  = 150.0
)

// PDF writes one table per entry: a row per measure, a column per board,
// followed by the counters of the transforms.
func PDF(w io.Writer, title string, entries []Entry) error {
	pdf := gofpdf.New("L", "pt", "Letter", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetTitle(title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, _ := pdf.GetPageSize()
	for _, e := range entries {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 20, tr(title+": "+e.Name), "", 1, "L", false, 0, "")
		pdf.Ln(6)

		variants := e.Report.Variants
		colWidth := (pageWidth - 2*margin - keyWidth) / float64(len(variants))

		pdf.SetFont("Courier", "B", fontSize)
		pdf.SetFillColor(220, 220, 220)
		pdf.CellFormat(keyWidth, rowHeight, "", "1", 0, "L", true, 0, "")
		for _, v := range variants {
			pdf.CellFormat(colWidth, rowHeight, tr(v.Name), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Courier", "", fontSize)
		for i, key := range metrics.Keys {
			pdf.CellFormat(keyWidth, rowHeight, key, "1", 0, "L", false, 0, "")
			for _, v := range variants {
				entry := v.Board.Entries()[i]
				pdf.CellFormat(colWidth, rowHeight, tr(format(entry.Value)), "1", 0, "R", false, 0, "")
			}
			pdf.Ln(-1)
		}

		if len(e.Report.Counters) > 0 {
			pdf.Ln(rowHeight)
			for _, c := range e.Report.Counters {
				pdf.CellFormat(2*keyWidth, rowHeight, c.Key, "1", 0, "L", false, 0, "")
				pdf.CellFormat(colWidth, rowHeight, format(c.Value), "1", 1, "R", false, 0, "")
			}
		}
	}
	return pdf.Output(w)
}
