//go:build unix

package shm

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testFrame(w, h int) []byte {
	px := make([]byte, w*h*BytesPerPixel)
	for i := range px {
		px[i] = byte(i * 7)
	}
	return px
}

func TestPublish_SharedMemory(t *testing.T) {
	dir := t.TempDir()
	w := New(SharedMemory, "test")
	w.Dir = dir

	px := testFrame(3, 2)
	name, err := w.Publish(px, 3, 2)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if !strings.HasPrefix(name, "/test-") {
		t.Errorf("name %q, want /test- prefix", name)
	}

	got, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(name, "/")))
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}
	if len(got) != 3*2*4 {
		t.Errorf("size %d, want %d", len(got), 3*2*4)
	}
	if !bytes.Equal(got, px) {
		t.Error("resource content differs from source pixels")
	}

	if err := w.Remove(name); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("resource left behind after Remove: %v", entries)
	}
}

func TestPublish_TempFile(t *testing.T) {
	dir := t.TempDir()
	w := New(TempFile, "")
	w.Dir = dir

	px := testFrame(1, 1)
	name, err := w.Publish(px, 1, 1)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if filepath.Dir(name) != dir {
		t.Errorf("name %q not under %q", name, dir)
	}
	if !strings.Contains(filepath.Base(name), tempFileMarker) {
		t.Errorf("name %q missing %q", name, tempFileMarker)
	}

	info, err := os.Stat(name)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 4 {
		t.Errorf("size %d, want 4", info.Size())
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode %v, want 0600", info.Mode().Perm())
	}
}

func TestPublish_FreshNames(t *testing.T) {
	w := New(SharedMemory, "test")
	w.Dir = t.TempDir()

	seen := make(map[string]bool)
	for i := 0; i < 16; i++ {
		name, err := w.Publish(testFrame(2, 2), 2, 2)
		if err != nil {
			t.Fatalf("Publish %d failed: %v", i, err)
		}
		if seen[name] {
			t.Fatalf("name %q reused", name)
		}
		seen[name] = true
	}
}

func TestPublish_Errors(t *testing.T) {
	dir := t.TempDir()
	w := New(SharedMemory, "test")
	w.Dir = dir

	if _, err := w.Publish(nil, 0, 10); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("zero width: got %v", err)
	}
	if _, err := w.Publish(nil, 10, 0); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("zero height: got %v", err)
	}
	if _, err := w.Publish(make([]byte, 5), 1, 1); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("short buffer: got %v", err)
	}

	// Dimensions whose byte count wraps around must not match a small buffer
	if _, err := w.Publish(make([]byte, 4), math.MaxInt/BytesPerPixel+1, 1); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("overflowing width: got %v", err)
	}
	if _, err := w.Publish(make([]byte, 4), math.MaxInt/8, 3); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("overflowing area: got %v", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("rejected frames left %d files", len(entries))
	}

	w.Dir = filepath.Join(dir, "missing")
	if _, err := w.Publish(testFrame(1, 1), 1, 1); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestPublish_CollisionKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	w := New(SharedMemory, "test")
	w.Dir = dir
	w.newID = func() (string, error) { return "fixed", nil }

	first := testFrame(1, 1)
	name, err := w.Publish(first, 1, 1)
	if err != nil {
		t.Fatalf("first Publish failed: %v", err)
	}
	if _, err := w.Publish(testFrame(2, 1), 2, 1); err == nil {
		t.Fatal("expected collision error")
	}

	got, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(name, "/")))
	if err != nil {
		t.Fatalf("existing frame removed by failed publish: %v", err)
	}
	if !bytes.Equal(got, first) {
		t.Error("existing frame overwritten")
	}
}

func TestParseMedium(t *testing.T) {
	tests := []struct {
		in   string
		want Medium
	}{
		{"shm", SharedMemory},
		{"SHM", SharedMemory},
		{"file", TempFile},
		{"t", TempFile},
	}
	for _, tc := range tests {
		got, err := ParseMedium(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("ParseMedium(%q) = %v, %v", tc.in, got, err)
		}
	}
	if _, err := ParseMedium("pipe"); err == nil {
		t.Error("expected error for unknown medium")
	}
}
