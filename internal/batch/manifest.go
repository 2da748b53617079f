package batch

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"

	"hatdecor/internal/transform"
)

// Manifest describes one batch run.
type Manifest struct {
	RunID     string          `json:"run_id"`
	Created   time.Time       `json:"created"`
	Overlay   string          `json:"overlay,omitempty"`
	Frame     string          `json:"frame,omitempty"`
	Transform transform.State `json:"transform"`
	Entries   []ManifestEntry `json:"entries"`
}

// ManifestEntry represents one photo in the output manifest.
type ManifestEntry struct {
	Photo string `json:"photo"`
	Image string `json:"image,omitempty"`
	Error string `json:"error,omitempty"`
}

// NewManifest builds the manifest for a finished run.
func NewManifest(cfg Config, results []Result) Manifest {
	m := Manifest{
		RunID:     uuid.NewString(),
		Created:   time.Now().UTC(),
		Overlay:   cfg.Overlay,
		Frame:     cfg.Frame,
		Transform: cfg.Transform,
		Entries:   make([]ManifestEntry, len(results)),
	}
	for i, r := range results {
		m.Entries[i] = ManifestEntry{Photo: r.Photo, Image: r.Image, Error: r.Error}
	}
	return m
}

// WriteManifest writes manifest.json to path.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
