package organizer

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/tonimelisma/phototransfer/internal/exiffixture"
)

// recordingFs wraps a filesystem, remembers which paths were opened and
// refuses to open the paths listed in deny.
type recordingFs struct {
	afero.Fs

	mu     sync.Mutex
	opened []string
	deny   map[string]bool
}

func newRecordingFs(base afero.Fs, deny ...string) *recordingFs {
	f := &recordingFs{Fs: base, deny: make(map[string]bool)}
	for _, p := range deny {
		f.deny[p] = true
	}
	return f
}

func (f *recordingFs) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, name)
	if f.deny[name] {
		return &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return nil
}

func (f *recordingFs) Open(name string) (afero.File, error) {
	if err := f.record(name); err != nil {
		return nil, err
	}
	return f.Fs.Open(name)
}

func (f *recordingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if err := f.record(name); err != nil {
		return nil, err
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func (f *recordingFs) openCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.opened {
		if p == name {
			n++
		}
	}
	return n
}

// writePhoto writes a minimal JPEG carrying EXIF date tags for taken. The
// payload suffix keeps otherwise identical fixtures distinct.
func writePhoto(t *testing.T, path string, taken time.Time, payload string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	data := exiffixture.MinimalJPEG(exiffixture.DateTags(taken))
	data = append(data, payload...)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

// writePlain writes a file without metadata and sets its modification time.
func writePlain(t *testing.T, path string, content string, modTime time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if !modTime.IsZero() {
		if err := os.Chtimes(path, modTime, modTime); err != nil {
			t.Fatal(err)
		}
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// realPath resolves symlinks in path, e.g. a temp dir below /var on macOS.
func realPath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatal(err)
	}
	return resolved
}
