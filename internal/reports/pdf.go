package reports

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	pkgerrors "github.com/plantitas-de-la-fe/pos-backend/pkg/errors"
)

// PDFOptions select the page layout for a rendered report.
type PDFOptions struct {
	// Orientation is "landscape" (default) or "portrait".
	Orientation string
	// Size is one of a4, letter, legal, oficio. Defaults to letter.
	Size string
}

// oficio (8.5in x 13in) is not a stock fpdf size.
var oficioSize = fpdf.SizeType{Wd: 215.9, Ht: 330.2}

// RenderPDF draws the table as a zebra-striped grid with the shop's green
// header band.
func RenderPDF(table *Table, generatedAt time.Time, opts PDFOptions) ([]byte, error) {
	if table == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no table to export")
	}

	orientation := "L"
	if opts.Orientation == "portrait" {
		orientation = "P"
	}

	var pdf *fpdf.Fpdf
	switch opts.Size {
	case "oficio":
		pdf = fpdf.NewCustom(&fpdf.InitType{
			OrientationStr: orientation,
			UnitStr:        "mm",
			Size:           oficioSize,
		})
	case "a4":
		pdf = fpdf.New(orientation, "mm", "A4", "")
	case "legal":
		pdf = fpdf.New(orientation, "mm", "Legal", "")
	default:
		pdf = fpdf.New(orientation, "mm", "Letter", "")
	}

	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(46, 125, 50)
	pdf.CellFormat(0, 8, table.Title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 6, "Generado: "+generatedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right
	colWidth := usable
	if len(table.Headers) > 0 {
		colWidth = usable / float64(len(table.Headers))
	}

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(46, 125, 50)
		pdf.SetTextColor(255, 255, 255)
		for _, header := range table.Headers {
			pdf.CellFormat(colWidth, 7, header, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	drawHeader()

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(30, 30, 30)
	_, pageHeight := pdf.GetPageSize()
	for i, row := range table.Rows {
		if pdf.GetY() > pageHeight-20 {
			pdf.AddPage()
			drawHeader()
			pdf.SetFont("Helvetica", "", 8)
			pdf.SetTextColor(30, 30, 30)
		}
		if i%2 == 1 {
			pdf.SetFillColor(245, 247, 242)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		for _, value := range row {
			pdf.CellFormat(colWidth, 6, cellText(value), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func cellText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
