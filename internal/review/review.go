// Package review routes cleaned output through an external diff viewer so
// a packager can inspect the rewrite before committing to it.
package review

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ErrInvalidTarget is returned when in-place rewriting is requested for an
// input that is not backed by a real file.
var ErrInvalidTarget = errors.New("in-place rewrite requires a file-backed input")

// DefaultProg is the diff viewer used when none is configured.
const DefaultProg = "vimdiff"

// ToolError wraps a failure to launch or run the external viewer. Callers
// treat it as non-fatal and fall back to the direct write path unless the
// review step was mandatory.
type ToolError struct {
	Prog string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("diff viewer %q failed: %v", e.Prog, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Viewer invokes a two-pane diff program on (original, cleaned).
type Viewer struct {
	Prog string
}

// Launch runs the viewer attached to the terminal and waits for it to
// exit. The viewer is a terminal step: it is never retried.
func (v Viewer) Launch(ctx context.Context, origPath, cleanedPath string) error {
	prog := v.Prog
	if prog == "" {
		prog = DefaultProg
	}
	cmd := exec.CommandContext(ctx, prog, origPath, cleanedPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return &ToolError{Prog: prog, Err: err}
	}
	return nil
}

// WriteTemp stores rendered content in a temporary file named after the
// original, returning the path and a cleanup func.
func WriteTemp(origPath string, content []byte) (string, func(), error) {
	base := filepath.Base(origPath)
	if base == "" || base == "." {
		base = "spec"
	}
	f, err := os.CreateTemp("", "specclean-"+base+"-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", nil, fmt.Errorf("failed to close temp file: %w", err)
	}
	cleanup := func() { _ = os.Remove(f.Name()) }
	return f.Name(), cleanup, nil
}
