package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/jung-kurt/gofpdf"
)

// Encoder serializes a raster snapshot.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
	// Ext is the file extension including the dot.
	Ext() string
	MIME() string
}

// PNG is the default encoder.
type PNG struct{}

func (PNG) Encode(w io.Writer, img image.Image) error { return png.Encode(w, img) }
func (PNG) Ext() string                               { return ".png" }
func (PNG) MIME() string                              { return "image/png" }

// WebP writes lossless WebP.
type WebP struct{}

func (WebP) Encode(w io.Writer, img image.Image) error { return nativewebp.Encode(w, img, nil) }
func (WebP) Ext() string                               { return ".webp" }
func (WebP) MIME() string                              { return "image/webp" }

// PDF writes a single page sized to the image with the snapshot embedded
// as PNG. DPI sets the physical page size; zero means 96.
type PDF struct {
	DPI float64
}

func (p PDF) Encode(w io.Writer, img image.Image) error {
	var raw bytes.Buffer
	if err := png.Encode(&raw, img); err != nil {
		return err
	}

	dpi := p.DPI
	if dpi <= 0 {
		dpi = 96
	}
	b := img.Bounds()
	wPt := float64(b.Dx()) * 72 / dpi
	hPt := float64(b.Dy()) * 72 / dpi

	doc := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: wPt, Ht: hPt},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("snapshot", opts, &raw)
	doc.ImageOptions("snapshot", 0, 0, wPt, hPt, false, opts, 0, "")
	if err := doc.Error(); err != nil {
		return err
	}
	return doc.Output(w)
}

func (PDF) Ext() string  { return ".pdf" }
func (PDF) MIME() string { return "application/pdf" }

// ParseFormat returns the encoder for "png", "webp" or "pdf".
func ParseFormat(name string) (Encoder, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "", "png":
		return PNG{}, nil
	case "webp":
		return WebP{}, nil
	case "pdf":
		return PDF{}, nil
	}
	return nil, fmt.Errorf("export: unknown format %q", name)
}
