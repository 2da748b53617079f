package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"hatdecor/internal/selection"
	"hatdecor/internal/source"
)

// imageExts lists the file extensions picked up when scanning asset dirs.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tga":  true,
}

// Catalog is the ordered list of selectable asset refs per category.
type Catalog struct {
	Hats   []string `json:"hats"`
	Frames []string `json:"frames"`
}

// Refs returns the refs for category c.
func (c *Catalog) Refs(cat selection.Category) []string {
	if cat == selection.Frames {
		return c.Frames
	}
	return c.Hats
}

// Contains reports whether ref is listed under cat.
func (c *Catalog) Contains(cat selection.Category, ref string) bool {
	for _, r := range c.Refs(cat) {
		if r == ref {
			return true
		}
	}
	return false
}

// Lookup resolves a ref or a bare file name against cat. Bare names match
// the base name of a listed ref, case-insensitively.
func (c *Catalog) Lookup(cat selection.Category, name string) (string, bool) {
	if c.Contains(cat, name) {
		return name, true
	}
	want := strings.ToLower(name)
	for _, r := range c.Refs(cat) {
		base := strings.ToLower(filepath.Base(r))
		if base == want || strings.TrimSuffix(base, filepath.Ext(base)) == want {
			return r, true
		}
	}
	return "", false
}

// Len returns the total number of assets.
func (c *Catalog) Len() int {
	return len(c.Hats) + len(c.Frames)
}

// Scan builds a catalog from two directories. Files are listed in
// lexical order so tabs render deterministically. A missing directory
// yields an empty category.
func Scan(hatsDir, framesDir string) (*Catalog, error) {
	hats, err := scanDir(hatsDir)
	if err != nil {
		return nil, err
	}
	frames, err := scanDir(framesDir)
	if err != nil {
		return nil, err
	}
	return &Catalog{Hats: hats, Frames: frames}, nil
}

func scanDir(dir string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: scan %s: %w", dir, err)
	}

	var refs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		refs = append(refs, filepath.Join(dir, e.Name()))
	}
	sort.Strings(refs)
	return refs, nil
}

// LoadManifest reads a JSON catalog ({"hats": [...], "frames": [...]}).
// Relative file refs are resolved against the manifest's directory.
func LoadManifest(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for _, refs := range [][]string{c.Hats, c.Frames} {
		for i, r := range refs {
			refs[i] = resolveRef(base, r)
		}
	}
	return &c, nil
}

func resolveRef(base, ref string) string {
	if source.IsDataURI(ref) || isRemote(ref) || filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(base, ref)
}

func isRemote(ref string) bool {
	l := strings.ToLower(ref)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
