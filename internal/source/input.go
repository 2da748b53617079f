// Package source acquires base photos: a submitted URL, or a local file
// read asynchronously into a data URI.
package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// MaxUploadBytes bounds a single uploaded file.
const MaxUploadBytes = 32 << 20

// Input delivers image refs to OnImage. Empty submissions and failed
// reads never reach it.
type Input struct {
	OnImage func(ref string)
	Logger  *slog.Logger
}

func (in *Input) logger() *slog.Logger {
	if in.Logger != nil {
		return in.Logger
	}
	return slog.Default()
}

// SubmitURL forwards a non-blank URL and reports whether it did.
func (in *Input) SubmitURL(raw string) bool {
	ref := strings.TrimSpace(raw)
	if ref == "" {
		return false
	}
	if in.OnImage != nil {
		in.OnImage(ref)
	}
	return true
}

// Upload reads path in the background and forwards it as a data URI.
// The returned channel is closed once the read has finished, whether or
// not it succeeded.
func (in *Input) Upload(ctx context.Context, path string) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ref, err := ReadFile(ctx, path)
		if err != nil {
			in.logger().Debug("upload ignored", "path", path, "err", err)
			return
		}
		if ctx.Err() != nil {
			return
		}
		if in.OnImage != nil {
			in.OnImage(ref)
		}
	}()
	return done
}

// ReadFile converts a local image file to a data URI.
func ReadFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("source: open %s: %w", path, err)
	}
	defer f.Close()
	return ReadAll(ctx, filepath.Base(path), f)
}

// ReadAll converts an image stream to a data URI. name is only used to
// guess the media type.
func ReadAll(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("source: read %s: %w", name, err)
	}
	if len(data) > MaxUploadBytes {
		return "", fmt.Errorf("source: %s exceeds %d bytes", name, MaxUploadBytes)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("source: %s is empty", name)
	}
	return EncodeDataURI(DetectMIME(name, data), data), nil
}
