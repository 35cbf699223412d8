package pdfexport

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"
	"travel-order-backend/lib/export/layout"
	"travel-order-backend/models"

	"github.com/stretchr/testify/require"
)

var generatedAt = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

func signaturePNG(t *testing.T, width int) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, width, 40))
	for x := 0; x < width; x++ {
		for y := 0; y < 40; y++ {
			img.Set(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	for x := 10; x < width-10; x++ {
		img.Set(x, 20, color.NRGBA{A: 255})
	}
	buf := new(bytes.Buffer)
	require.Nil(t, png.Encode(buf, img))
	return buf.Bytes()
}

func document() layout.TravelOrder {
	return layout.TravelOrder{
		OrderID:         "to-1",
		Name:            "Juan Dela Cruz",
		Date:            "April 01, 2026",
		Position:        "Engineer II",
		OfficialStation: "N/A",
		DepartureDate:   "March 10, 2026",
		ReturnDate:      "March 12, 2026",
		Rows: []layout.Row{
			{Label: "Destination:", Value: "Pagadian City"},
			{Label: "Purpose:", Value: "Field visit"},
		},
		Recommending: layout.SignatureBlock{Caption: layout.RecommendingLabel, DirectorName: "Ana Reyes"},
		Approving:    layout.SignatureBlock{Caption: layout.ApprovedLabel, DirectorName: "Ben Reyes"},
	}
}

func TestRender(t *testing.T) {
	opts := Options{Uncompressed: true}

	t.Run("blank signature lines", func(t *testing.T) {
		out, err := Render(document(), generatedAt, opts)
		require.Nil(t, err)
		require.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
		require.True(t, bytes.Contains(out, []byte("TRAVEL ORDER")))
		require.True(t, bytes.Contains(out, []byte("Pagadian City")))
		require.False(t, bytes.Contains(out, []byte("/Subtype /Image")))
		require.False(t, bytes.Contains(out, []byte("CERTIFICATION TO TRAVEL")))
	})
	t.Run("output is stable", func(t *testing.T) {
		first, err := Render(document(), generatedAt, Options{})
		require.Nil(t, err)
		second, err := Render(document(), generatedAt, Options{})
		require.Nil(t, err)
		require.Equal(t, first, second)
	})
	t.Run("signatures only when released", func(t *testing.T) {
		doc := document()
		doc.Recommending.Image = signaturePNG(t, 120)
		doc.Approving.Image = signaturePNG(t, 90)
		out, err := Render(doc, generatedAt, opts)
		require.Nil(t, err)
		require.False(t, bytes.Contains(out, []byte("/Subtype /Image")))

		doc.Recommending.ShowSignature = true
		doc.Approving.ShowSignature = true
		out, err = Render(doc, generatedAt, opts)
		require.Nil(t, err)
		require.Equal(t, 2, bytes.Count(out, []byte("/Subtype /Image")))
	})
	t.Run("unreadable signature degrades to a line", func(t *testing.T) {
		doc := document()
		doc.Approving.ShowSignature = true
		doc.Approving.Image = []byte("broken")
		out, err := Render(doc, generatedAt, opts)
		require.Nil(t, err)
		require.False(t, bytes.Contains(out, []byte("/Subtype /Image")))
	})
	t.Run("certification section on request", func(t *testing.T) {
		doc := document()
		doc.Certification = &layout.Certification{
			Name:          doc.Name,
			Position:      doc.Position,
			DepartureDate: doc.DepartureDate,
			ReturnDate:    doc.ReturnDate,
			Purpose:       "Field visit",
		}
		out, err := Render(doc, generatedAt, opts)
		require.Nil(t, err)
		require.True(t, bytes.Contains(out, []byte("CERTIFICATION TO TRAVEL")))
		require.True(t, bytes.Contains(out, []byte("Certified by:")))
	})
	t.Run("missing fonts fail the export", func(t *testing.T) {
		_, err := Render(document(), generatedAt, Options{FontDir: t.TempDir()})
		var extErr *models.ExtensionUnavailableError
		require.ErrorAs(t, err, &extErr)
		require.Equal(t, "pdf fonts", extErr.Capability)
	})
}
