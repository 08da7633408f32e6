// Package driver orchestrates the cleaning pipeline: input loading,
// classification, assembly, normalization, header stamping, rendering and
// output delivery. One linear pass per file, no shared state across files.
package driver

import (
	"fmt"
	"strconv"

	"specclean/internal/assemble"
	"specclean/internal/cache"
	"specclean/internal/diag"
	"specclean/internal/normalize"
	"specclean/internal/render"
	"specclean/internal/review"
	"specclean/internal/source"
	"specclean/internal/stamp"
)

// Options configures one cleaning run. The zero value cleans in full mode
// and returns output in the results without touching disk.
type Options struct {
	// Minimal applies only the safe subset of normalization rules.
	Minimal bool
	// PadColumn overrides the tag value alignment column (0 = default).
	PadColumn int

	// Output is an explicit destination path; valid for a single input.
	Output string
	// Inline rewrites the input file in place. Requires file-backed input.
	Inline bool
	// Check reports whether files would change without writing anything.
	Check bool
	// Stdout returns cleaned content in the results for the caller to
	// print instead of writing files.
	Stdout bool

	// Diff routes output through the external diff viewer before any
	// write. When the viewer fails the direct path is used and the error
	// is recorded as a warning on the result.
	Diff bool
	// DiffProg names the external viewer (empty = vimdiff).
	DiffProg string

	// Now supplies the clock for the copyright header. nil = wall clock.
	Now stamp.Clock

	// MaxDiagnostics caps collected per-file diagnostics.
	MaxDiagnostics int

	// Jobs bounds parallel file processing (0 = GOMAXPROCS).
	Jobs int

	// Cache, when set, lets Check skip files already known clean.
	Cache *cache.DiskCache

	// Progress receives per-file stage events.
	Progress ProgressSink
}

// fingerprint identifies the option+rule combination for cache keying.
func (o Options) fingerprint() string {
	pad := o.PadColumn
	if pad <= 1 {
		pad = normalize.DefaultPadColumn
	}
	return "minimal=" + strconv.FormatBool(o.Minimal) + ";pad=" + strconv.Itoa(pad)
}

// CleanResult captures the outcome for a single file.
type CleanResult struct {
	Path    string
	Changed bool
	Err     error
	// Warnings holds non-fatal issues (viewer fallback, parse notes).
	Warnings []string
	// Cleaned holds the rendered output when Options.Stdout is set.
	Cleaned []byte
}

// CleanBytes runs the transform pipeline on loaded content and returns the
// rendered output plus the diagnostics gathered along the way. The
// transform never fails: ambiguous content passes through unchanged.
func CleanBytes(sf *source.File, opts Options) ([]byte, *diag.Bag) {
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 256
	}
	bag := diag.NewBag(maxDiag)

	emit(opts.Progress, Event{File: sf.Path, Stage: StageParse, Status: StatusWorking})
	doc := assemble.Build(sf, bag)

	emit(opts.Progress, Event{File: sf.Path, Stage: StageNormalize, Status: StatusWorking})
	normalize.Apply(doc, normalize.Options{
		Minimal:   opts.Minimal,
		PadColumn: opts.PadColumn,
	}, bag)
	stamp.Apply(doc, opts.Now, bag)

	emit(opts.Progress, Event{File: sf.Path, Stage: StageRender, Status: StatusWorking})
	out := render.Document(doc, render.Options{Minimal: opts.Minimal})
	return out, bag
}

// CleanStream cleans an already-open input and returns the rendered text.
// Inline mode is rejected for streams.
func CleanStream(sf *source.File, opts Options) ([]byte, *diag.Bag, error) {
	if opts.Inline && sf.Virtual() {
		return nil, nil, fmt.Errorf("%s: %w", sf.Path, review.ErrInvalidTarget)
	}
	out, bag := CleanBytes(sf, opts)
	return out, bag, nil
}

// Clean verifies round-trip stability of a single document in one call:
// it cleans content and reports whether the result differs from the input.
func Clean(sf *source.File, opts Options) (cleaned []byte, changed bool, bag *diag.Bag) {
	cleaned, bag = CleanBytes(sf, opts)
	return cleaned, !bytesEqual(sf.Content, cleaned), bag
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
