package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/RichardoC/Tutor-i/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// onePixelPNG is a valid 1x1 PNG as the client would hand it over.
const onePixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

func samplePresentation() *models.Presentation {
	return &models.Presentation{
		Topic: "Sistema Solar",
		Slides: []models.Slide{
			{Title: "Sistema Solar", Subtitle: "Uma visão geral", Content: []string{"Oito planetas", "Uma estrela central"}, ImagePrompt: "O sistema solar visto de cima"},
			{Title: "Planetas rochosos", Content: []string{"Mercúrio, Vênus, Terra e Marte"}, ImagePrompt: "Planetas rochosos em fila", GeneratedImageBase64: onePixelPNG},
			{Title: "Conclusão", Content: []string{"Resumo da aula"}, ImagePrompt: "Céu estrelado"},
		},
	}
}

func TestBuildDeckOnePagePerSlide(t *testing.T) {
	for _, n := range []int{1, 3, 7} {
		p := &models.Presentation{Topic: "T"}
		for i := 0; i < n; i++ {
			p.Slides = append(p.Slides, models.Slide{
				Title:       "Slide",
				Content:     []string{"ponto"},
				ImagePrompt: "prompt",
			})
		}
		pdf := buildDeck(p)
		require.NoError(t, pdf.Error())
		assert.Equal(t, n, pdf.PageCount(), "%d slides must emit %d pages", n, n)
	}
}

func TestBuildDeckWrapsLongBullets(t *testing.T) {
	long := strings.Repeat("fotossíntese e respiração celular ", 120)
	p := &models.Presentation{
		Topic: "Biologia",
		Slides: []models.Slide{
			{Title: "Conceitos", Content: []string{long, "ponto curto"}, ImagePrompt: "p"},
		},
	}
	pdf := buildDeck(p)
	require.NoError(t, pdf.Error())
	assert.Equal(t, 1, pdf.PageCount(), "overflowing text extends past the canvas, never onto a new page")
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, samplePresentation()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "output must be a PDF document")
}

func TestWritePDFBrokenImageKeepsLayout(t *testing.T) {
	p := samplePresentation()
	p.Slides[1].GeneratedImageBase64 = "data:image/png;base64,not-base64!!"
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, p), "a broken image payload must not fail the export")

	// The split layout is chosen by payload presence, not decodability.
	w, y := slideLayout(&p.Slides[1])
	assert.Equal(t, splitTextWidth, w)
	assert.Equal(t, bulletStartYWithImage, y)
}

func TestSlideLayout(t *testing.T) {
	withImage := models.Slide{GeneratedImageBase64: onePixelPNG}
	w, y := slideLayout(&withImage)
	assert.Equal(t, 130.0, w)
	assert.Equal(t, 60.0, y)

	withoutImage := models.Slide{}
	w, y = slideLayout(&withoutImage)
	assert.Equal(t, 260.0, w)
	assert.Equal(t, 70.0, y)
}

func TestDecodeImage(t *testing.T) {
	imgType, data, err := decodeImage(onePixelPNG)
	require.NoError(t, err)
	assert.Equal(t, "PNG", imgType)
	assert.NotEmpty(t, data)

	_, _, err = decodeImage("plain text")
	assert.Error(t, err)

	_, _, err = decodeImage("data:image/webp;base64,AAAA")
	assert.Error(t, err, "unsupported image types are rejected")
}

func TestWriteJSONRoundTrip(t *testing.T) {
	p := samplePresentation()
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, p))

	var restored models.Presentation
	require.NoError(t, json.Unmarshal(buf.Bytes(), &restored))
	assert.Equal(t, *p, restored, "export must round-trip losslessly")
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "Sistema_Solar_presentation.pdf", PDFFilename("Sistema Solar"))
	assert.Equal(t, "Sistema_Solar_data.json", JSONFilename("Sistema Solar"))
	assert.Equal(t, "Segunda_Guerra_Mundial_data.json", JSONFilename("Segunda  Guerra\tMundial"))
	assert.Equal(t, "Fotossíntese_presentation.pdf", PDFFilename("Fotossíntese"))
}
