package main

import (
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin     = 15  // mm
	pdfFontSize   = 9
	pdfLineHeight = 4.5 // mm
	pdfTabWidth   = 4   // spaces per tab
)

// writePDF renders text under a bold title into a portrait A4 document.
// Lines are written one by one so page breaks fall between lines, and tabs
// are expanded because the core fonts have no glyph for them.
func writePDF(path, title, text string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	// The core fonts are cp1252 only; the translator maps what it can and
	// substitutes the rest instead of producing garbage bytes.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", pdfFontSize+3)
	pdf.MultiCell(0, pdfLineHeight+2, tr(title), "", "L", false)
	pdf.Ln(pdfLineHeight)

	pdf.SetFont("Courier", "", pdfFontSize)
	for _, line := range strings.Split(text, "\n") {
		line = strings.ReplaceAll(line, "\t", strings.Repeat(" ", pdfTabWidth))
		pdf.MultiCell(0, pdfLineHeight, tr(line), "", "L", false)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("could not save PDF to %s: %w", path, err)
	}
	statusf("PDF saved to %s\n", path)
	return nil
}
