package pdfexport

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"travel-order-backend/lib/export/layout"
	"travel-order-backend/models"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	utf8Family  = "DejaVu"
	regularFont = "DejaVuSans.ttf"
	boldFont    = "DejaVuSans-Bold.ttf"
	coreFamily  = "Helvetica"

	pageMargin    = 10.0
	contentWidth  = 190.0
	cellPadding   = 1.5
	lineHeight    = 5.0
	signatureH    = 12.0
	signatureMaxW = 45.0
)

type Options struct {
	// FontDir holds DejaVuSans.ttf and DejaVuSans-Bold.ttf; empty uses the core Helvetica font.
	FontDir      string
	Uncompressed bool
}

// Render draws the travel order form. Equal input gives equal bytes.
func Render(doc layout.TravelOrder, generatedAt time.Time, opts Options) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("travel order pdf panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", opts.FontDir)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(generatedAt)
	pdf.SetModificationDate(generatedAt)
	pdf.SetCompression(!opts.Uncompressed)
	pdf.SetTitle(layout.Title, true)
	pdf.SetMargins(pageMargin, 8, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)

	w := &writer{
		pdf:    pdf,
		family: coreFamily,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		logger: log.WithField("travel_order_id", doc.OrderID),
	}
	if opts.FontDir != "" {
		pdf.AddUTF8Font(utf8Family, "", regularFont)
		pdf.AddUTF8Font(utf8Family, "B", boldFont)
		if pdf.Err() {
			return nil, &models.ExtensionUnavailableError{
				Capability: "pdf fonts",
				Message:    fmt.Sprintf("cannot load %s and %s from %s: %v", regularFont, boldFont, opts.FontDir, pdf.Error()),
			}
		}
		w.family = utf8Family
		w.utf8 = true
		w.tr = func(s string) string { return s }
	}

	pdf.AddPage()
	w.title(layout.Title, 14)

	wide, narrow := contentWidth*0.66, contentWidth*0.34
	w.row(
		cell{width: wide, label: "Name:", value: doc.Name},
		cell{width: narrow, label: "No: __________________", value: "Date: " + doc.Date},
	)
	w.row(
		cell{width: wide, label: "Position/Designation:", value: doc.Position},
		cell{width: narrow, label: "Official Station:", value: doc.OfficialStation},
	)
	w.row(
		cell{width: wide, label: "Departure Date:", value: doc.DepartureDate},
		cell{width: narrow, label: "Return Date:", value: doc.ReturnDate},
	)
	labelWidth := contentWidth * 0.33
	for _, item := range doc.Rows {
		w.row(
			cell{width: labelWidth, label: item.Label},
			cell{width: contentWidth - labelWidth, value: item.Value},
		)
	}
	w.signatures(
		signatureCell{width: wide, block: doc.Recommending},
		signatureCell{width: narrow, block: doc.Approving},
	)

	if doc.Certification != nil {
		w.certification(*doc.Certification)
	}

	buf := new(bytes.Buffer)
	if err = pdf.Output(buf); err != nil {
		return nil, errors.Wrap(err, "failed to write pdf")
	}
	return buf.Bytes(), nil
}

type cell struct {
	width float64
	label string
	value string
}

type signatureCell struct {
	width float64
	block layout.SignatureBlock
}

type writer struct {
	pdf    *fpdf.Fpdf
	family string
	utf8   bool
	tr     func(string) string
	logger *log.Entry
}

func (w *writer) font(style string, size float64) {
	w.pdf.SetFont(w.family, style, size)
}

func (w *writer) title(text string, size float64) {
	w.font("B", size)
	w.pdf.CellFormat(0, 10, w.tr(text), "", 1, "C", false, 0, "")
}

// split wraps text to the width using the current font.
func (w *writer) split(text string, width float64) []string {
	if !w.utf8 {
		// core fonts only cover latin-1
		text = strings.Map(func(r rune) rune {
			if r > 0xff {
				return '?'
			}
			return r
		}, text)
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		parts := w.pdf.SplitText(paragraph, width)
		if len(parts) == 0 {
			parts = []string{""}
		}
		lines = append(lines, parts...)
	}
	return lines
}

func (w *writer) lines(c cell) (labelLines, valueLines []string) {
	inner := c.width - 2*cellPadding
	if c.label != "" {
		w.font("B", 9)
		labelLines = w.split(c.label, inner)
	}
	if c.value != "" {
		w.font("", 10)
		valueLines = w.split(c.value, inner)
	}
	return labelLines, valueLines
}

func (w *writer) ensureSpace(height float64) {
	_, pageH := w.pdf.GetPageSize()
	if w.pdf.GetY()+height > pageH-pageMargin {
		w.pdf.AddPage()
	}
}

func (w *writer) row(cells ...cell) {
	height := 0.0
	for _, c := range cells {
		labelLines, valueLines := w.lines(c)
		if h := float64(len(labelLines)+len(valueLines))*lineHeight + 2*cellPadding; h > height {
			height = h
		}
	}
	w.ensureSpace(height)
	x, y := pageMargin, w.pdf.GetY()
	for _, c := range cells {
		labelLines, valueLines := w.lines(c)
		w.pdf.Rect(x, y, c.width, height, "D")
		w.pdf.SetXY(x+cellPadding, y+cellPadding)
		w.font("B", 9)
		w.printLines(labelLines, c.width-2*cellPadding, "L")
		w.font("", 10)
		w.printLines(valueLines, c.width-2*cellPadding, "L")
		x += c.width
	}
	w.pdf.SetXY(pageMargin, y+height)
}

func (w *writer) printLines(lines []string, width float64, align string) {
	for _, line := range lines {
		w.pdf.CellFormat(width, lineHeight, w.tr(line), "", 2, align, false, 0, "")
	}
}

func (w *writer) signatures(cells ...signatureCell) {
	height := 2*cellPadding + lineHeight + signatureH + 2 + lineHeight
	w.ensureSpace(height)
	x, y := pageMargin, w.pdf.GetY()
	for _, c := range cells {
		w.pdf.Rect(x, y, c.width, height, "D")
		w.pdf.SetXY(x+cellPadding, y+cellPadding)
		w.font("", 8)
		w.printLines([]string{c.block.Caption}, c.width-2*cellPadding, "L")

		imgTop := y + cellPadding + lineHeight
		lineY := imgTop + signatureH + 1
		if !w.image(c.block, x, imgTop, c.width) {
			w.pdf.Line(x+c.width*0.15, lineY, x+c.width*0.85, lineY)
		}
		w.pdf.SetXY(x+cellPadding, lineY+1)
		w.font("B", 9)
		w.printLines([]string{c.block.DirectorName}, c.width-2*cellPadding, "C")
		x += c.width
	}
	w.pdf.SetXY(pageMargin, y+height)
}

// image places the signature centered in the cell; false means a blank line is drawn instead.
func (w *writer) image(block layout.SignatureBlock, x, y, cellWidth float64) bool {
	if !block.ShowSignature || len(block.Image) == 0 {
		return false
	}
	name := "signature-" + block.Caption
	options := fpdf.ImageOptions{ImageType: "PNG"}
	info := w.pdf.RegisterImageOptionsReader(name, options, bytes.NewReader(block.Image))
	if w.pdf.Err() || info == nil || info.Height() == 0 {
		w.logger.WithError(w.pdf.Error()).Warn("signature image skipped")
		w.pdf.ClearError()
		return false
	}
	width, height := info.Width()*signatureH/info.Height(), signatureH
	if width > signatureMaxW {
		width, height = signatureMaxW, info.Height()*signatureMaxW/info.Width()
	}
	left := x + (cellWidth-width)/2
	top := y + (signatureH - height)
	w.pdf.ImageOptions(name, left, top, width, height, false, options, 0, "")
	return true
}

func (w *writer) certification(ctt layout.Certification) {
	w.pdf.Ln(8)
	w.ensureSpace(60)
	w.title(layout.CertificationTitle, 12)
	w.font("", 10)
	paragraphs := []string{ctt.Text(), "", ctt.Purpose, ""}
	paragraphs = append(paragraphs, layout.CertificationClauses...)
	paragraphs = append(paragraphs, "", "Endorsed by: ________________________________", "", "Certified by: ________________________________")
	for _, paragraph := range paragraphs {
		lines := w.split(paragraph, contentWidth)
		w.ensureSpace(float64(len(lines)) * lineHeight)
		w.pdf.SetX(pageMargin)
		w.printLines(lines, contentWidth, "L")
	}
}
