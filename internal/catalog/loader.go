package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"

	"hatdecor/internal/source"
)

// ErrUnsupported is returned for data no decoder recognises.
var ErrUnsupported = errors.New("catalog: unsupported image format")

// MaxFetchBytes bounds a remote image download.
const MaxFetchBytes = 32 << 20

type decoder struct {
	name  string
	magic func([]byte) bool
	fn    func(io.Reader) (image.Image, error)
}

// TGA has no magic number, so it is tried last and only for .tga names
// or data whose header looks like an uncompressed/RLE truecolor image.
var decoders = []decoder{
	{"png", prefix("\x89PNG\r\n\x1a\n"), png.Decode},
	{"jpeg", prefix("\xff\xd8"), jpeg.Decode},
	{"gif", func(b []byte) bool { return prefix("GIF87a")(b) || prefix("GIF89a")(b) }, gif.Decode},
	{"webp", func(b []byte) bool { return len(b) >= 12 && string(b[:4]) == "RIFF" && string(b[8:12]) == "WEBP" }, webp.Decode},
	{"bmp", prefix("BM"), bmp.Decode},
}

func prefix(p string) func([]byte) bool {
	return func(b []byte) bool {
		return len(b) >= len(p) && string(b[:len(p)]) == p
	}
}

func looksLikeTGA(b []byte) bool {
	if len(b) < 18 {
		return false
	}
	// color map type 0/1, image type truecolor/gray, raw or RLE
	switch b[2] {
	case 2, 3, 10, 11:
	default:
		return false
	}
	return b[1] <= 1
}

// Decode decodes image bytes. name is a hint used for TGA detection.
func Decode(name string, data []byte) (*image.NRGBA, error) {
	for _, d := range decoders {
		if !d.magic(data) {
			continue
		}
		img, err := d.fn(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("catalog: decode %s as %s: %w", name, d.name, err)
		}
		return toNRGBA(img), nil
	}

	if strings.EqualFold(filepath.Ext(name), ".tga") || looksLikeTGA(data) {
		img, err := tga.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("catalog: decode %s as tga: %w", name, err)
		}
		return toNRGBA(img), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
}

// Loader fetches and decodes refs: file paths, data URIs and http(s) URLs.
type Loader struct {
	Client *http.Client
}

// Load reads ref and returns it as NRGBA.
func (l *Loader) Load(ctx context.Context, ref string) (*image.NRGBA, error) {
	data, err := l.read(ctx, ref)
	if err != nil {
		return nil, err
	}
	return Decode(refName(ref), data)
}

func (l *Loader) read(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case source.IsDataURI(ref):
		_, data, err := source.ParseDataURI(ref)
		return data, err
	case isRemote(ref):
		return l.fetch(ctx, ref)
	default:
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", ref, err)
		}
		return data, nil
	}
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: fetch %s: status %s", url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxFetchBytes+1))
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch %s: %w", url, err)
	}
	if len(data) > MaxFetchBytes {
		return nil, fmt.Errorf("catalog: fetch %s: body exceeds %d bytes", url, MaxFetchBytes)
	}
	return data, nil
}

// refName returns a short name for logs and decoder hints.
func refName(ref string) string {
	if source.IsDataURI(ref) {
		mime, _, _ := strings.Cut(ref[5:], ";")
		return "data:" + mime
	}
	return filepath.Base(ref)
}

// toNRGBA converts any image to NRGBA with bounds starting at (0,0).
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
