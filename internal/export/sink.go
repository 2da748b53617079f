package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Sink receives a finished file, the headless stand-in for a browser
// download.
type Sink interface {
	Save(name string, data []byte) error
}

// DirSink writes files into Dir. Writes go to a temp file that is renamed
// into place, so a failed save never leaves a partial file.
type DirSink struct {
	Dir string
}

func (s DirSink) Save(name string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("export: mkdir %s: %w", s.Dir, err)
	}
	f, err := os.CreateTemp(s.Dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("export: create %s: %w", name, err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("export: write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("export: close %s: %w", name, err)
	}
	if err := os.Rename(tmp, filepath.Join(s.Dir, name)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("export: rename %s: %w", name, err)
	}
	return nil
}

// MemorySink keeps saved files in memory.
type MemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
	order []string
}

func (s *MemorySink) Save(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.files == nil {
		s.files = make(map[string][]byte)
	}
	s.files[name] = append([]byte(nil), data...)
	s.order = append(s.order, name)
	return nil
}

// File returns the last bytes saved under name.
func (s *MemorySink) File(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[name]
	return b, ok
}

// Saves returns how many times Save was called.
func (s *MemorySink) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}
