package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"hatdecor/internal/compose"
	"hatdecor/internal/transform"
)

type fakeResolver map[string]*image.NRGBA

func (f fakeResolver) Resolve(_ context.Context, ref string) (*image.NRGBA, error) {
	if img, ok := f[ref]; ok {
		return img, nil
	}
	return nil, fmt.Errorf("missing %s", ref)
}

func solid(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		OutputDir: t.TempDir(),
		Resolver: fakeResolver{
			"a.png":   solid(color.NRGBA{255, 0, 0, 255}),
			"b.jpg":   solid(color.NRGBA{0, 255, 0, 255}),
			"hat.png": solid(color.NRGBA{0, 0, 255, 255}),
		},
		Surface:     compose.Surface{Side: 64, Padding: 4, Background: color.NRGBA{255, 255, 255, 255}},
		Supersample: 2,
		Workers:     3,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Overlay:     "hat.png",
		Transform: transform.State{
			Position: transform.Point{X: 18, Y: 18},
			Size:     transform.Size{Width: 20, Height: 20},
		},
	}
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	photos := []string{"a.png", "missing.png", "b.jpg"}

	results := Run(context.Background(), cfg, photos)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].Success || results[1].Success || !results[2].Success {
		t.Fatalf("unexpected results %+v", results)
	}
	if results[0].Image != "0000-a/christmas-avatar.png" {
		t.Errorf("unexpected image path %q", results[0].Image)
	}

	f, err := os.Open(filepath.Join(cfg.OutputDir, results[2].Image))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 64 {
		t.Errorf("expected 64px output, got %v", img.Bounds())
	}
	// overlay center: container (28,28) plus 4px padding
	if r, g, b, _ := img.At(32, 32).RGBA(); b>>8 < 200 || r>>8 > 50 || g>>8 > 50 {
		t.Errorf("expected overlay at center, got %d %d %d", r>>8, g>>8, b>>8)
	}
	// outside the overlay the photo shows
	if _, g, _, _ := img.At(8, 50).RGBA(); g>>8 < 200 {
		t.Errorf("expected photo green at (8,50), got g=%d", g>>8)
	}
}

func TestRunCancelled(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, r := range Run(ctx, cfg, []string{"a.png", "b.jpg"}) {
		if r.Success {
			t.Errorf("expected %s to be skipped", r.Photo)
		}
	}
}

func TestManifest(t *testing.T) {
	cfg := testConfig(t)
	results := []Result{
		{Photo: "a.png", Image: "0000-a/christmas-avatar.png", Success: true},
		{Photo: "x.png", Error: "missing x.png"},
	}
	path := filepath.Join(t.TempDir(), "manifest.json")
	m := NewManifest(cfg, results)
	if err := WriteManifest(path, m); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got Manifest
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.RunID == "" || got.RunID != m.RunID {
		t.Errorf("unexpected run id %q", got.RunID)
	}
	if got.Overlay != "hat.png" || got.Transform != cfg.Transform {
		t.Errorf("decoration not recorded: %+v", got)
	}
	if len(got.Entries) != 2 || got.Entries[1].Error == "" {
		t.Errorf("unexpected entries %+v", got.Entries)
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		idx   int
		photo string
		want  string
	}{
		{0, "/photos/me.jpg", "0000-me"},
		{12, "https://example.com/pics/cat.png", "0012-cat"},
		{3, "data:image/png;base64,AAAA", "0003-photo"},
	}
	for _, tt := range tests {
		if got := outputName(tt.idx, tt.photo); got != tt.want {
			t.Errorf("outputName(%d, %q) = %q, want %q", tt.idx, tt.photo, got, tt.want)
		}
	}
}
