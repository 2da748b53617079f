package source

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestSubmitURL(t *testing.T) {
	var got []string
	in := Input{OnImage: func(ref string) { got = append(got, ref) }}

	if in.SubmitURL("") {
		t.Error("expected empty submission to be a no-op")
	}
	if in.SubmitURL("   ") {
		t.Error("expected blank submission to be a no-op")
	}
	if !in.SubmitURL(" https://example.com/cat.png ") {
		t.Error("expected URL to be forwarded")
	}
	if len(got) != 1 || got[0] != "https://example.com/cat.png" {
		t.Errorf("unexpected refs %v", got)
	}
}

func TestUploadDeliversDataURI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	if err := os.WriteFile(path, pngBytes(t), 0644); err != nil {
		t.Fatal(err)
	}

	refs := make(chan string, 1)
	in := Input{OnImage: func(ref string) { refs <- ref }}
	<-in.Upload(context.Background(), path)

	select {
	case ref := <-refs:
		if !strings.HasPrefix(ref, "data:image/png;base64,") {
			t.Errorf("unexpected ref prefix: %.40s", ref)
		}
	default:
		t.Fatal("expected upload to deliver a ref")
	}
}

func TestUploadMissingFileIsSilent(t *testing.T) {
	called := false
	in := Input{OnImage: func(string) { called = true }}
	<-in.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	if called {
		t.Error("expected failed read to leave the image untouched")
	}
}

func TestUploadCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	os.WriteFile(path, pngBytes(t), 0644)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	in := Input{OnImage: func(string) { called = true }}
	<-in.Upload(ctx, path)
	if called {
		t.Error("expected cancelled upload to be dropped")
	}
}

func TestDataURIRoundTrip(t *testing.T) {
	data := pngBytes(t)
	uri := EncodeDataURI("image/png", data)

	mime, got, err := ParseDataURI(uri)
	if err != nil {
		t.Fatal(err)
	}
	if mime != "image/png" {
		t.Errorf("expected image/png, got %q", mime)
	}
	if !bytes.Equal(got, data) {
		t.Error("payload mismatch")
	}
}

func TestParseDataURI(t *testing.T) {
	tests := []struct {
		in       string
		wantMIME string
		wantData string
		wantErr  error
	}{
		{"data:,hello%20world", "text/plain;charset=US-ASCII", "hello world", nil},
		{"data:image/svg+xml,%3Csvg%3E", "image/svg+xml", "<svg>", nil},
		{"https://example.com/x.png", "", "", ErrNotDataURI},
	}
	for _, tt := range tests {
		mime, data, err := ParseDataURI(tt.in)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("%q: expected %v, got %v", tt.in, tt.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if mime != tt.wantMIME || string(data) != tt.wantData {
			t.Errorf("%q: got %q %q", tt.in, mime, data)
		}
	}

	if _, _, err := ParseDataURI("data:image/png;base64"); err == nil {
		t.Error("expected error for missing payload")
	}
}

func TestDetectMIME(t *testing.T) {
	tga := []byte{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 0, 2, 0, 32, 0x28}
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"x.bin", pngBytes(t), "image/png"},
		{"hat.tga", tga, "image/x-tga"},
		{"HAT.TGA", tga, "image/x-tga"},
		{"photo.webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "image/webp"},
		{"photo", pngBytes(t), "image/png"},
	}
	for _, tt := range tests {
		if got := DetectMIME(tt.name, tt.data); got != tt.want {
			t.Errorf("DetectMIME(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestReadAllTGA(t *testing.T) {
	tga := []byte{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 1, 0, 32, 0x28, 1, 2, 3, 4}
	ref, err := ReadAll(context.Background(), "me.tga", bytes.NewReader(tga))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(ref, "data:image/x-tga;base64,") {
		t.Errorf("expected tga data URI, got %.30q", ref)
	}
}
