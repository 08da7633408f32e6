package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// FileFlags encodes metadata about how the input was obtained and what was
// normalized while reading it.
type FileFlags uint8

const (
	// FileVirtual indicates the content came from memory or a stream, not
	// a seekable file on disk. In-place rewriting is impossible for these.
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM indicates a UTF-8 BOM was stripped from the content.
	FileHadBOM
	// FileNormalizedCRLF indicates CRLF line endings were normalized to LF.
	FileNormalizedCRLF
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// File captures the content of a single spec file input.
type File struct {
	Path    string
	Content []byte
	Flags   FileFlags
}

// Virtual reports whether the input is not backed by a real file.
func (f *File) Virtual() bool {
	return f.Flags&FileVirtual != 0
}

// Lines splits the content into physical lines without terminators. A
// trailing newline does not produce an empty final line.
func (f *File) Lines() []string {
	if len(f.Content) == 0 {
		return nil
	}
	text := string(f.Content)
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// ReadFile loads a spec file from disk.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	f := &File{Path: path}
	f.Content, f.Flags = normalizeContent(data, 0)
	return f, nil
}

// ReadStream loads a spec file from an already-open reader. The resulting
// file is virtual: it cannot be rewritten in place.
func ReadStream(name string, r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read stream %q: %w", name, err)
	}
	f := &File{Path: name}
	f.Content, f.Flags = normalizeContent(data, FileVirtual)
	return f, nil
}

// NewVirtual wraps in-memory content, for tests and stdin.
func NewVirtual(name string, content []byte) *File {
	f := &File{Path: name}
	f.Content, f.Flags = normalizeContent(content, FileVirtual)
	return f
}

func normalizeContent(data []byte, flags FileFlags) ([]byte, FileFlags) {
	if bytes.HasPrefix(data, utf8BOM) {
		data = data[len(utf8BOM):]
		flags |= FileHadBOM
	}
	if bytes.Contains(data, []byte("\r\n")) {
		data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
		flags |= FileNormalizedCRLF
	}
	return data, flags
}
