// Package export turns an in-memory Presentation into downloadable files:
// a paginated PDF (one page per slide, fixed layout) and the raw JSON data.
package export

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/RichardoC/Tutor-i/internal/models"
	"github.com/go-pdf/fpdf"
)

// Page geometry in millimeters, A4 landscape.
const (
	pageWidth  = 297.0
	pageHeight = 210.0

	headerHeight = 20.0
	headerTextY  = 13.0

	titleY    = 40.0
	subtitleY = 50.0

	textLeft       = 15.0
	fullTextWidth  = 260.0
	splitTextWidth = 130.0

	imageX      = 150.0
	imageY      = 60.0
	imageWidth  = 130.0
	imageHeight = 73.0

	bulletStartYWithImage = 60.0
	bulletStartY          = 70.0
	bulletLineHeight      = 7.0
	bulletGap             = 5.0
)

// slideLayout reports the body geometry for a slide. A slide with a
// generated image cedes the right half of the page to it.
func slideLayout(s *models.Slide) (textWidth, startY float64) {
	if s.GeneratedImageBase64 != "" {
		return splitTextWidth, bulletStartYWithImage
	}
	return fullTextWidth, bulletStartY
}

// WritePDF renders the presentation to w, one page per slide in slide order.
// Overflowing body text extends past the canvas rather than spilling onto a
// new page.
func WritePDF(w io.Writer, p *models.Presentation) error {
	return buildDeck(p).Output(w)
}

func buildDeck(p *models.Presentation) *fpdf.Fpdf {
	pdf := fpdf.New("L", "mm", "A4", "")
	// Overflowing body text extends past the canvas; it never spills onto
	// an extra page.
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i := range p.Slides {
		slide := &p.Slides[i]
		pdf.AddPage()

		// Background accent.
		pdf.SetFillColor(248, 250, 252)
		pdf.Rect(0, 0, pageWidth, pageHeight, "F")

		// Header band: topic left, slide counter right.
		pdf.SetFillColor(79, 70, 229)
		pdf.Rect(0, 0, pageWidth, headerHeight, "F")
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "", 12)
		pdf.Text(10, headerTextY, tr(p.Topic))
		counter := fmt.Sprintf("Slide %d/%d", i+1, len(p.Slides))
		pdf.Text(280-pdf.GetStringWidth(counter), headerTextY, counter)

		// Title block.
		pdf.SetTextColor(31, 41, 55)
		pdf.SetFont("Helvetica", "B", 24)
		pdf.Text(textLeft, titleY, tr(slide.Title))
		if slide.Subtitle != "" {
			pdf.SetFont("Helvetica", "", 16)
			pdf.SetTextColor(100, 100, 100)
			pdf.Text(textLeft, subtitleY, tr(slide.Subtitle))
		}

		textWidth, y := slideLayout(slide)
		if slide.GeneratedImageBase64 != "" {
			// A broken payload loses the image but keeps the split layout.
			if err := placeImage(pdf, fmt.Sprintf("slide-%d", i), slide.GeneratedImageBase64); err != nil {
				pdf.ClearError()
			}
		}

		// Bullets, word-wrapped to the column. MultiCell measures the
		// codepage-translated bytes; SplitText rune-indexes the core font
		// width table and cannot handle the translated bullet glyph.
		pdf.SetFont("Helvetica", "", 14)
		pdf.SetTextColor(31, 41, 55)
		for _, point := range slide.Content {
			pdf.SetXY(textLeft, y)
			pdf.MultiCell(textWidth, bulletLineHeight, tr("• "+point), "", "L", false)
			y = pdf.GetY() + bulletGap
		}
	}
	return pdf
}

func placeImage(pdf *fpdf.Fpdf, name, dataURI string) error {
	imgType, data, err := decodeImage(dataURI)
	if err != nil {
		return err
	}
	opts := fpdf.ImageOptions{ImageType: imgType}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if err := pdf.Error(); err != nil {
		return err
	}
	pdf.ImageOptions(name, imageX, imageY, imageWidth, imageHeight, false, opts, 0, "")
	return pdf.Error()
}

// decodeImage extracts the raw bytes and fpdf image type from a data URI.
func decodeImage(dataURI string) (imgType string, data []byte, err error) {
	meta, b64, ok := strings.Cut(dataURI, ",")
	if !ok || !strings.HasPrefix(meta, "data:") {
		return "", nil, fmt.Errorf("not a data URI")
	}
	mimeType := strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
	switch mimeType {
	case "image/png":
		imgType = "PNG"
	case "image/jpeg", "image/jpg":
		imgType = "JPEG"
	case "image/gif":
		imgType = "GIF"
	default:
		return "", nil, fmt.Errorf("unsupported image type %q", mimeType)
	}
	data, err = base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image payload: %w", err)
	}
	return imgType, data, nil
}

// WriteJSON writes the presentation as-is. The output reparses into a value
// equal to the input in every field.
func WriteJSON(w io.Writer, p *models.Presentation) error {
	enc := json.NewEncoder(w)
	return enc.Encode(p)
}

var whitespace = regexp.MustCompile(`\s+`)

// PDFFilename derives the download name for the slide deck PDF.
func PDFFilename(topic string) string {
	return whitespace.ReplaceAllString(topic, "_") + "_presentation.pdf"
}

// JSONFilename derives the download name for the raw data export.
func JSONFilename(topic string) string {
	return whitespace.ReplaceAllString(topic, "_") + "_data.json"
}
