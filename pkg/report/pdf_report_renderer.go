package report

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	log "github.com/sirupsen/logrus"
)

const (
	pdfCategoryWidth = 90.0
	pdfAmountWidth   = 45.0
	pdfPercentWidth  = 45.0
	pdfRowHeight     = 8.0
)

type PdfReportRendererImpl struct {
}

func NewPdfReportRenderer() *PdfReportRendererImpl {
	return &PdfReportRendererImpl{}
}

func (r *PdfReportRendererImpl) ContentType() string {
	return "application/pdf"
}

func (r *PdfReportRendererImpl) FileExtension() string {
	return "pdf"
}

func (r *PdfReportRendererImpl) Render(report MonthlyReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Expense report %s", report.Month), true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(fmt.Sprintf("Expense report %s", report.Month)))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, pdfRowHeight, tr(fmt.Sprintf("Total spent: %s", report.Total.StringFixed(2))))
	pdf.Ln(pdfRowHeight)
	pdf.Cell(0, pdfRowHeight, tr("Expenses: "+strconv.Itoa(report.Count)))
	pdf.Ln(pdfRowHeight + 4)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(pdfCategoryWidth, pdfRowHeight, "Category", "1", 0, "L", true, 0, "")
	pdf.CellFormat(pdfAmountWidth, pdfRowHeight, "Amount", "1", 0, "R", true, 0, "")
	pdf.CellFormat(pdfPercentWidth, pdfRowHeight, "% of top", "1", 0, "R", true, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 11)
	if len(report.Bars) == 0 {
		pdf.CellFormat(pdfCategoryWidth+pdfAmountWidth+pdfPercentWidth, pdfRowHeight, "No expenses recorded", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	for _, bar := range report.Bars {
		pdf.CellFormat(pdfCategoryWidth, pdfRowHeight, tr(bar.Category), "1", 0, "L", false, 0, "")
		pdf.CellFormat(pdfAmountWidth, pdfRowHeight, bar.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(pdfPercentWidth, pdfRowHeight, bar.Percent.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var b bytes.Buffer
	if err := pdf.Output(&b); err != nil {
		log.Errorf("Error rendering pdf: %v", err)
		return nil, err
	}
	return b.Bytes(), nil
}
