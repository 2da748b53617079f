// Package export snapshots the composition root and delivers it as a
// downloadable file.
package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"log/slog"
)

// BaseName is the fixed download name; the encoder supplies the extension.
const BaseName = "christmas-avatar"

// ErrNoRoot is returned when there is nothing to export.
var ErrNoRoot = errors.New("export: no composition root")

// Snapshotter is the composition root: anything that can produce the
// current raster.
type Snapshotter interface {
	Snapshot() (image.Image, error)
}

// Pipeline renders a root and hands the encoded bytes to a Sink.
type Pipeline struct {
	Encoder Encoder
	Sink    Sink
	Logger  *slog.Logger
}

func (p *Pipeline) encoder() Encoder {
	if p.Encoder == nil {
		return PNG{}
	}
	return p.Encoder
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

// FileName returns the download name for the configured encoder.
func (p *Pipeline) FileName() string {
	return BaseName + p.encoder().Ext()
}

// Render snapshots root and encodes it.
func (p *Pipeline) Render(root Snapshotter) ([]byte, error) {
	if root == nil {
		return nil, ErrNoRoot
	}
	img, err := root.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("export: snapshot: %w", err)
	}
	if img == nil {
		return nil, ErrNoRoot
	}

	var buf bytes.Buffer
	if err := p.encoder().Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("export: encode %s: %w", p.encoder().Ext(), err)
	}
	return buf.Bytes(), nil
}

// DataURI renders root as a base64 data URI.
func (p *Pipeline) DataURI(root Snapshotter) (string, error) {
	data, err := p.Render(root)
	if err != nil {
		return "", err
	}
	return "data:" + p.encoder().MIME() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Download renders root and saves it under FileName. Failures are logged
// and returned; nothing is retried and nothing is saved on failure. A nil
// root returns ErrNoRoot without logging or saving.
func (p *Pipeline) Download(root Snapshotter) error {
	if root == nil {
		return ErrNoRoot
	}
	name := p.FileName()
	data, err := p.Render(root)
	if err == nil && p.Sink != nil {
		err = p.Sink.Save(name, data)
	}
	if err != nil {
		p.logger().Error("failed to download image", "file", name, "err", err)
		return err
	}
	p.logger().Info("image downloaded", "file", name, "bytes", len(data))
	return nil
}
