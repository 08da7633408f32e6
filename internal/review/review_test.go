package review

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestWriteTemp(t *testing.T) {
	content := []byte("Name: foo\n")
	path, cleanup, err := WriteTemp("/some/dir/foo.spec", content)
	if err != nil {
		t.Fatalf("WriteTemp: %v", err)
	}
	defer cleanup()

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if string(got) != string(content) {
		t.Fatalf("temp content: want %q, got %q", content, got)
	}
	if !strings.Contains(path, "foo.spec") {
		t.Fatalf("temp name should carry the original base name, got %q", path)
	}

	cleanup()
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("cleanup left the temp file behind: %v", err)
	}
}

func TestLaunchMissingViewer(t *testing.T) {
	v := Viewer{Prog: "specclean-no-such-viewer"}
	err := v.Launch(context.Background(), "a", "b")
	if err == nil {
		t.Fatal("expected an error for a missing viewer")
	}
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("want ToolError, got %T: %v", err, err)
	}
	if toolErr.Prog != "specclean-no-such-viewer" {
		t.Fatalf("ToolError.Prog: got %q", toolErr.Prog)
	}
}

func TestToolErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &ToolError{Prog: "vimdiff", Err: inner}
	if !errors.Is(err, inner) {
		t.Fatal("ToolError must unwrap to the underlying error")
	}
}
