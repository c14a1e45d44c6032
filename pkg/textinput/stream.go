// Package textinput abstracts line-oriented text sources so the material
// format parser and configuration parser can read from on-disk files or
// in-memory buffers through one interface.
package textinput

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ncrystal-go/ncmat/pkg/ncerr"
)

// Stream produces successive lines (without trailing newline) from an
// underlying source until exhausted.
type Stream interface {
	// MoreLines reports whether GetLine can yield more data.
	MoreLines() bool
	// GetLine returns the next line of text and advances. ok is false if
	// no line was provided because input ran out.
	GetLine() (line string, ok bool)
	// Description identifies the source for diagnostics and error messages.
	Description() string
	// StreamType names the kind of source, e.g. "on-disk file", "memory buffer".
	StreamType() string
	// OnDiskResolvedPath returns the resolved on-disk path, or "" if the
	// content isn't taken directly from an on-disk file.
	OnDiskResolvedPath() string
}

// baseStream implements the common bookkeeping (description + line buffer)
// shared by every concrete Stream.
type baseStream struct {
	descr string
	lines []string
	pos   int
}

func newBaseStream(descr, content string) baseStream {
	// Split without a trailing empty line when content ends in "\n".
	lines := strings.Split(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return baseStream{descr: descr, lines: lines}
}

func (b *baseStream) MoreLines() bool { return b.pos < len(b.lines) }

func (b *baseStream) GetLine() (string, bool) {
	if b.pos >= len(b.lines) {
		return "", false
	}
	line := b.lines[b.pos]
	b.pos++
	return line, true
}

func (b *baseStream) Description() string { return b.descr }

// FileStream is a Stream backed by an on-disk file, read fully into memory
// at construction (material files are small enough that streaming line by
// line buys nothing but complexity).
type FileStream struct {
	baseStream
	resolvedPath string
}

// NewFileStream reads path and wraps its contents as a Stream. path must
// already be resolved (see FindFile); no further search is done here.
func NewFileStream(path string) (*FileStream, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ncerr.NewFileNotFound("file does not exist: %s", path)
		}
		return nil, ncerr.NewFileNotFound("cannot read %s: %v", path, err)
	}
	return &FileStream{
		baseStream:   newBaseStream(path, string(data)),
		resolvedPath: path,
	}, nil
}

func (f *FileStream) StreamType() string         { return "on-disk file" }
func (f *FileStream) OnDiskResolvedPath() string { return f.resolvedPath }

// BufferStream is a Stream backed by an in-memory buffer, keyed by a
// caller-supplied name (e.g. a database key) rather than a filesystem path.
type BufferStream struct {
	baseStream
}

// NewBufferStream wraps buffer's contents as a Stream described by name.
func NewBufferStream(name, buffer string) *BufferStream {
	return &BufferStream{baseStream: newBaseStream(name, buffer)}
}

func (b *BufferStream) StreamType() string         { return "memory buffer" }
func (b *BufferStream) OnDiskResolvedPath() string { return "" }

var (
	_ Stream = (*FileStream)(nil)
	_ Stream = (*BufferStream)(nil)
)

// Manager customizes how source names are turned into Streams, e.g. to
// look sources up in an in-memory database instead of the filesystem.
// Registration is process-wide and must be externally serialized by the
// caller, matching the contract of NCrystal's TextInputManager.
type Manager interface {
	// Create attempts to build a Stream for sourcename. Returning
	// (nil, nil) means "not handled here"; AllowFallback decides whether
	// the default search then runs.
	Create(sourcename string) (Stream, error)
	// AllowFallback reports whether the default file search may run when
	// Create returns (nil, nil).
	AllowFallback() bool
}

var (
	managerMu sync.Mutex
	manager   Manager
)

// RegisterManager installs a process-wide custom Manager. Pass nil to
// clear it. Callers are responsible for external serialization around
// registration versus concurrent Create calls, matching the original
// contract that this registry is not internally synchronized against use.
func RegisterManager(m Manager) {
	managerMu.Lock()
	defer managerMu.Unlock()
	manager = m
}

func currentManager() Manager {
	managerMu.Lock()
	defer managerMu.Unlock()
	return manager
}

// DataDirEnvVar is the environment variable consulted by the default file
// search after the current working directory and before any compile-time
// configured directory.
const DataDirEnvVar = "NCMAT_DATA_DIR"

// compileTimeDataDir is the fallback data directory baked in at build time.
// Left empty; a downstream integrator can set this via a linker flag
// (-X github.com/ncrystal-go/ncmat/pkg/textinput.compileTimeDataDir=...).
var compileTimeDataDir string

// FindFile implements the default search algorithm: absolute path, then
// relative to the current working directory, then relative to
// DataDirEnvVar, then relative to the compile-time data directory. Returns
// "" if no candidate is a readable file.
func FindFile(name string) string {
	if filepath.IsAbs(name) {
		if fileExists(name) {
			return name
		}
		return ""
	}
	if fileExists(name) {
		abs, err := filepath.Abs(name)
		if err == nil {
			return abs
		}
		return name
	}
	if dir := os.Getenv(DataDirEnvVar); dir != "" {
		candidate := filepath.Join(dir, name)
		if fileExists(candidate) {
			return candidate
		}
	}
	if compileTimeDataDir != "" {
		candidate := filepath.Join(compileTimeDataDir, name)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateStream builds a Stream for sourcename: a registered Manager is
// consulted first; if it declines (or none is registered) the default
// search runs, unless the Manager disallows fallback.
func CreateStream(sourcename string) (Stream, error) {
	m := currentManager()
	if m != nil {
		s, err := m.Create(sourcename)
		if err != nil {
			return nil, err
		}
		if s != nil {
			return s, nil
		}
		if !m.AllowFallback() {
			return nil, ncerr.NewFileNotFound("no input manager result for %q and fallback disabled", sourcename)
		}
	}
	resolved := FindFile(sourcename)
	if resolved == "" {
		return nil, ncerr.NewFileNotFound("could not find file %q", sourcename)
	}
	return NewFileStream(resolved)
}

// ReadAll drains a Stream into a slice of lines, primarily useful in tests
// and for embedded-configuration extraction which needs to scan the whole
// input up front.
func ReadAll(s Stream) []string {
	var lines []string
	for s.MoreLines() {
		l, ok := s.GetLine()
		if !ok {
			break
		}
		lines = append(lines, l)
	}
	return lines
}
