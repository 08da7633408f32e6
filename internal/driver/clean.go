package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"specclean/internal/cache"
	"specclean/internal/diag"
	"specclean/internal/review"
	"specclean/internal/source"
)

// CleanPaths cleans the provided files or directories (recursively
// collecting .spec files). Results come back in sorted path order.
// Environment failures land on the per-file result; only setup problems
// (no inputs, conflicting options) return an error.
func CleanPaths(ctx context.Context, paths []string, opts Options) ([]CleanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := CollectSpecFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("clean: no spec files found")
	}
	if opts.Output != "" && len(files) > 1 {
		return nil, fmt.Errorf("clean: --output accepts a single input, got %d files", len(files))
	}

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Status: StatusQueued})
	}

	results := make([]CleanResult, len(files))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	// The review viewer owns the terminal; never run it concurrently.
	if opts.Diff {
		jobs = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = cleanOne(gctx, path, opts)
			status := StatusDone
			if results[i].Err != nil {
				status = StatusError
			}
			emit(opts.Progress, Event{File: path, Status: status, Err: results[i].Err})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// cleanOne runs the pipeline and the sink for a single file.
func cleanOne(ctx context.Context, path string, opts Options) CleanResult {
	result := CleanResult{Path: path}

	emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusWorking})
	sf, err := source.ReadFile(path)
	if err != nil {
		result.Err = err
		return result
	}

	if opts.Check && opts.Cache != nil {
		key := cache.Key(sf.Content, opts.fingerprint())
		var entry cache.Entry
		if ok, _ := opts.Cache.Get(key, &entry); ok {
			result.Changed = entry.Changed
			return result
		}
	}

	cleaned, changed, bag := Clean(sf, opts)
	result.Changed = changed
	for _, d := range bag.Items() {
		if d.Severity >= diag.SevWarning {
			result.Warnings = append(result.Warnings, d.Message)
		}
	}

	if opts.Check {
		if opts.Cache != nil {
			key := cache.Key(sf.Content, opts.fingerprint())
			_ = opts.Cache.Put(key, &cache.Entry{Changed: changed})
		}
		return result
	}

	emit(opts.Progress, Event{File: path, Stage: StageWrite, Status: StatusWorking})
	if err := deliver(ctx, sf, cleaned, opts, &result); err != nil {
		result.Err = err
	}
	return result
}

// deliver routes rendered output to its destination: explicit file,
// in-place rewrite, the review pipeline, or the result buffer.
func deliver(ctx context.Context, sf *source.File, cleaned []byte, opts Options, result *CleanResult) error {
	if opts.Diff {
		if err := runReview(ctx, sf.Path, cleaned, opts); err != nil {
			var toolErr *review.ToolError
			if errors.As(err, &toolErr) {
				// Reported, not fatal: fall through to the direct path.
				result.Warnings = append(result.Warnings, toolErr.Error())
			} else {
				return err
			}
		} else {
			return nil
		}
	}

	switch {
	case opts.Output != "":
		return writeFileAtomic(opts.Output, cleaned, 0o644)

	case opts.Inline:
		if sf.Virtual() {
			return fmt.Errorf("%s: %w", sf.Path, review.ErrInvalidTarget)
		}
		mode := os.FileMode(0o644)
		if info, statErr := os.Stat(sf.Path); statErr == nil {
			mode = info.Mode().Perm()
		}
		return writeFileAtomic(sf.Path, cleaned, mode)

	default:
		result.Cleaned = cleaned
		return nil
	}
}

func runReview(ctx context.Context, origPath string, cleaned []byte, opts Options) error {
	tmpPath, cleanup, err := review.WriteTemp(origPath, cleaned)
	if err != nil {
		return err
	}
	defer cleanup()
	viewer := review.Viewer{Prog: opts.DiffProg}
	return viewer.Launch(ctx, origPath, tmpPath)
}

// writeFileAtomic writes the full document or nothing: content lands in a
// sibling temp file first and is renamed over the target.
func writeFileAtomic(path string, content []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".specclean-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %q: %w", dir, err)
	}
	tmp := f.Name()
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	if err := os.Chmod(tmp, mode); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to set mode on %q: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %q: %w", path, err)
	}
	return nil
}

// CollectSpecFiles expands paths into a sorted, deduplicated list of spec
// files. Directories are walked recursively for *.spec entries; explicit
// file arguments are taken as-is regardless of extension.
func CollectSpecFiles(ctx context.Context, paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			addFile(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if filepath.Ext(path) == ".spec" {
				addFile(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}
