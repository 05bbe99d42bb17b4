package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// MemorySurface keeps the last frame in memory. It starts detached unless
// created attached, which makes it handy for headless use and tests.
type MemorySurface struct {
	mu       sync.Mutex
	attached bool
	frame    image.Image
	shows    int
}

func NewMemorySurface(attached bool) *MemorySurface {
	return &MemorySurface{attached: attached}
}

func (s *MemorySurface) Attach() {
	s.mu.Lock()
	s.attached = true
	s.mu.Unlock()
}

func (s *MemorySurface) Detach() {
	s.mu.Lock()
	s.attached = false
	s.mu.Unlock()
}

func (s *MemorySurface) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached
}

func (s *MemorySurface) Show(img image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = img
	s.shows++
	return nil
}

func (s *MemorySurface) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = nil
	return nil
}

// Frame returns the frame on display, nil when blank.
func (s *MemorySurface) Frame() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Shows counts frames received since creation.
func (s *MemorySurface) Shows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shows
}

// FileSurface writes every frame as a PNG file, so any image viewer that
// reloads on change becomes a live preview. It is attached once the target
// directory exists.
type FileSurface struct {
	path string
}

func NewFileSurface(path string) *FileSurface {
	return &FileSurface{path: path}
}

func (s *FileSurface) Attached() bool {
	fi, err := os.Stat(filepath.Dir(s.path))
	return err == nil && fi.IsDir()
}

func (s *FileSurface) Show(img image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".preview-*.png")
	if err != nil {
		return fmt.Errorf("create preview file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode preview: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileSurface) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
