//go:build unix

// Package shm publishes RGBA frames through named OS resources that a
// terminal reads asynchronously: POSIX shared memory or a temporary file.
//
// Every frame gets a fresh name. The terminal unlinks the resource once it has
// consumed the transfer, so Publish never waits for or reuses a previous frame.
package shm

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Medium is the transfer medium flag carried in the graphics escape
type Medium byte

const (
	SharedMemory Medium = 's'
	TempFile     Medium = 't'
)

func (m Medium) String() string {
	switch m {
	case SharedMemory:
		return "shm"
	case TempFile:
		return "file"
	default:
		return "unknown"
	}
}

// ParseMedium resolves a config medium name
func ParseMedium(s string) (Medium, error) {
	switch strings.ToLower(s) {
	case "shm", "s", "shared_memory":
		return SharedMemory, nil
	case "file", "t", "temp_file":
		return TempFile, nil
	}
	return 0, errors.Errorf("unknown graphics medium %q", s)
}

// BytesPerPixel is fixed: 8-bit RGBA
const BytesPerPixel = 4

// tempFileMarker must appear in a temp file path for the terminal to delete it after reading
const tempFileMarker = "tty-graphics-protocol"

// DefaultShmDir is where POSIX shared memory objects live on Linux
const DefaultShmDir = "/dev/shm"

var (
	ErrEmptyFrame   = errors.New("shm: frame has zero width or height")
	ErrSizeMismatch = errors.New("shm: pixel buffer size does not match width*height*4")
)

// Store publishes a frame and returns the name the terminal should open
type Store interface {
	Medium() Medium
	Publish(pixels []byte, width, height int) (string, error)
}

// Writer is the mmap-backed Store
type Writer struct {
	medium Medium
	prefix string

	// Dir overrides the resource directory; empty means the medium default
	Dir string

	newID func() (string, error)
}

// New creates a Writer for the medium; prefix tags resource names
func New(medium Medium, prefix string) *Writer {
	if prefix == "" {
		prefix = "termwire"
	}
	return &Writer{
		medium: medium,
		prefix: prefix,
		newID:  randomID,
	}
}

func randomID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", errors.Wrap(err, "shm: generate name")
	}
	return id.String(), nil
}

// Medium returns the transfer medium
func (w *Writer) Medium() Medium {
	return w.medium
}

// resource returns the filesystem path and the name sent to the terminal
func (w *Writer) resource(id string) (path, name string) {
	switch w.medium {
	case TempFile:
		dir := w.Dir
		if dir == "" {
			dir = os.TempDir()
		}
		path = filepath.Join(dir, tempFileMarker+"-"+w.prefix+"-"+id)
		return path, path
	default:
		dir := w.Dir
		if dir == "" {
			dir = DefaultShmDir
		}
		base := w.prefix + "-" + id
		return filepath.Join(dir, base), "/" + base
	}
}

// Publish copies pixels into a freshly named resource sized exactly width*height*4
// On error nothing is left behind
func (w *Writer) Publish(pixels []byte, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", ErrEmptyFrame
	}
	if width > math.MaxInt/BytesPerPixel/height {
		return "", errors.Wrapf(ErrSizeMismatch, "%dx%d frame is too large", width, height)
	}
	size := width * height * BytesPerPixel
	if len(pixels) != size {
		return "", errors.Wrapf(ErrSizeMismatch, "got %d bytes for %dx%d", len(pixels), width, height)
	}

	id, err := w.newID()
	if err != nil {
		return "", err
	}
	path, name := w.resource(id)

	if err := writeMapped(path, pixels); err != nil {
		return "", err
	}
	return name, nil
}

// writeMapped creates path, sizes it and copies data through a shared mapping
// A path it created is unlinked again on failure
func writeMapped(path string, data []byte) (err error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_EXCL|unix.O_CLOEXEC, 0o600)
	if err != nil {
		return errors.Wrapf(err, "shm: open %s", path)
	}
	defer func() {
		unix.Close(fd)
		if err != nil {
			unix.Unlink(path)
		}
	}()

	if err := unix.Ftruncate(fd, int64(len(data))); err != nil {
		return errors.Wrapf(err, "shm: truncate %s to %d", path, len(data))
	}

	mem, err := unix.Mmap(fd, 0, len(data), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return errors.Wrapf(err, "shm: mmap %s", path)
	}
	copy(mem, data)
	if err := unix.Munmap(mem); err != nil {
		return errors.Wrapf(err, "shm: munmap %s", path)
	}
	return nil
}

// Remove unlinks a published resource by the name Publish returned
// Used when a frame is abandoned before the terminal consumed it
func (w *Writer) Remove(name string) error {
	path := name
	if w.medium == SharedMemory {
		dir := w.Dir
		if dir == "" {
			dir = DefaultShmDir
		}
		path = filepath.Join(dir, strings.TrimPrefix(name, "/"))
	}
	if err := unix.Unlink(path); err != nil && err != unix.ENOENT {
		return errors.Wrapf(err, "shm: unlink %s", path)
	}
	return nil
}
