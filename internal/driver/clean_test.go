package driver

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"specclean/internal/cache"
)

func writeSpec(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCleanPathsInline(t *testing.T) {
	dir := t.TempDir()
	in := readFixture(t, "in", "example.spec")
	want := readFixture(t, "out", "example.spec")
	path := writeSpec(t, dir, "example.spec", in)

	results, err := CleanPaths(context.Background(), []string{path},
		Options{Inline: true, Now: fixtureClock()})
	if err != nil {
		t.Fatalf("CleanPaths: %v", err)
	}
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("unexpected results: %+v", results)
	}
	if !results[0].Changed {
		t.Fatal("dirty file must report changed")
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("inline rewrite mismatch:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestCleanPathsInlinePreservesMode(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "x.spec", readFixture(t, "in", "example.spec"))
	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := CleanPaths(context.Background(), []string{path},
		Options{Inline: true, Now: fixtureClock()}); err != nil {
		t.Fatalf("CleanPaths: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("file mode: want 0600, got %o", info.Mode().Perm())
	}
}

func TestCleanPathsOutput(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "x.spec", readFixture(t, "in", "example.spec"))
	dest := filepath.Join(dir, "cleaned.spec")

	results, err := CleanPaths(context.Background(), []string{path},
		Options{Output: dest, Now: fixtureClock()})
	if err != nil {
		t.Fatalf("CleanPaths: %v", err)
	}
	if results[0].Err != nil {
		t.Fatalf("result error: %v", results[0].Err)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("output file: %v", err)
	}
	if !bytes.Equal(got, readFixture(t, "out", "example.spec")) {
		t.Fatal("output file content mismatch")
	}
}

func TestCleanPathsOutputRejectsMultipleInputs(t *testing.T) {
	dir := t.TempDir()
	a := writeSpec(t, dir, "a.spec", []byte("Name: a\n"))
	b := writeSpec(t, dir, "b.spec", []byte("Name: b\n"))

	_, err := CleanPaths(context.Background(), []string{a, b},
		Options{Output: filepath.Join(dir, "out.spec")})
	if err == nil {
		t.Fatal("expected an error for --output with multiple inputs")
	}
}

func TestCleanPathsStdout(t *testing.T) {
	dir := t.TempDir()
	in := readFixture(t, "in", "example.spec")
	path := writeSpec(t, dir, "x.spec", in)

	results, err := CleanPaths(context.Background(), []string{path},
		Options{Stdout: true, Now: fixtureClock()})
	if err != nil {
		t.Fatalf("CleanPaths: %v", err)
	}
	if !bytes.Equal(results[0].Cleaned, readFixture(t, "out", "example.spec")) {
		t.Fatal("stdout mode must carry the cleaned content in the result")
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, in) {
		t.Fatal("stdout mode must not touch the input file")
	}
}

func TestCleanPathsCheck(t *testing.T) {
	dir := t.TempDir()
	dirty := writeSpec(t, dir, "dirty.spec", readFixture(t, "in", "example.spec"))
	clean := writeSpec(t, dir, "clean.spec", readFixture(t, "out", "example.spec"))

	results, err := CleanPaths(context.Background(), []string{dirty, clean},
		Options{Check: true, Now: fixtureClock()})
	if err != nil {
		t.Fatalf("CleanPaths: %v", err)
	}
	byPath := make(map[string]CleanResult)
	for _, r := range results {
		byPath[filepath.Base(r.Path)] = r
	}
	if !byPath["dirty.spec"].Changed {
		t.Fatal("dirty file must report changed in check mode")
	}
	if byPath["clean.spec"].Changed {
		t.Fatal("clean file must report unchanged in check mode")
	}

	// Check mode never writes.
	got, _ := os.ReadFile(dirty)
	if !bytes.Equal(got, readFixture(t, "in", "example.spec")) {
		t.Fatal("check mode modified the input file")
	}
}

func TestCheckUsesCache(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "x.spec", readFixture(t, "in", "example.spec"))
	c, err := cache.OpenAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Check: true, Cache: c, Now: fixtureClock()}

	results, err := CleanPaths(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if !results[0].Changed {
		t.Fatal("first run must report changed")
	}

	// A seeded cache short-circuits the pipeline; the stored verdict wins
	// even though the file would still change.
	key := cache.Key(readFixture(t, "in", "example.spec"), opts.fingerprint())
	if err := c.Put(key, &cache.Entry{Changed: false}); err != nil {
		t.Fatal(err)
	}
	results, err = CleanPaths(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if results[0].Changed {
		t.Fatal("cached verdict not used")
	}
}

func TestDiffFallbackWarns(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "x.spec", readFixture(t, "in", "example.spec"))

	results, err := CleanPaths(context.Background(), []string{path},
		Options{Diff: true, DiffProg: "specclean-no-such-viewer", Now: fixtureClock()})
	if err != nil {
		t.Fatalf("CleanPaths: %v", err)
	}
	res := results[0]
	if res.Err != nil {
		t.Fatalf("viewer failure must not be fatal: %v", res.Err)
	}
	if len(res.Warnings) == 0 {
		t.Fatal("expected a warning about the failed viewer")
	}
	if res.Cleaned == nil {
		t.Fatal("fallback must deliver the cleaned content")
	}
}

func TestCleanPathsNoInputs(t *testing.T) {
	if _, err := CleanPaths(context.Background(), nil, Options{}); err == nil {
		t.Fatal("expected an error when no spec files are found")
	}
}

func TestCollectSpecFiles(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "b.spec", []byte("Name: b\n"))
	writeSpec(t, dir, "a.spec", []byte("Name: a\n"))
	writeSpec(t, dir, "notes.txt", []byte("not a spec\n"))
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeSpec(t, sub, "c.spec", []byte("Name: c\n"))

	files, err := CollectSpecFiles(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("CollectSpecFiles: %v", err)
	}
	var bases []string
	for _, f := range files {
		bases = append(bases, filepath.Base(f))
	}
	want := "a.spec b.spec c.spec"
	if got := strings.Join(bases, " "); got != want {
		t.Fatalf("collected files: want %q, got %q", want, got)
	}
}

func TestCollectSpecFilesExplicitAndDeduped(t *testing.T) {
	dir := t.TempDir()
	other := writeSpec(t, dir, "notes.txt", []byte("x\n"))

	files, err := CollectSpecFiles(context.Background(), []string{other, other})
	if err != nil {
		t.Fatalf("CollectSpecFiles: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("explicit non-.spec files must pass through once, got %v", files)
	}
}

func TestCleanPathsEmitsEvents(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "x.spec", readFixture(t, "in", "example.spec"))

	ch := make(chan Event, 64)
	_, err := CleanPaths(context.Background(), []string{path},
		Options{Now: fixtureClock(), Progress: ChannelSink{Ch: ch}})
	if err != nil {
		t.Fatalf("CleanPaths: %v", err)
	}
	close(ch)

	var sawQueued, sawDone bool
	stages := make(map[Stage]bool)
	for ev := range ch {
		if ev.Status == StatusQueued {
			sawQueued = true
		}
		if ev.Status == StatusDone {
			sawDone = true
		}
		if ev.Status == StatusWorking {
			stages[ev.Stage] = true
		}
	}
	if !sawQueued || !sawDone {
		t.Fatalf("missing lifecycle events: queued=%v done=%v", sawQueued, sawDone)
	}
	for _, stage := range []Stage{StageRead, StageParse, StageNormalize, StageRender, StageWrite} {
		if !stages[stage] {
			t.Fatalf("stage %q never reported working", stage)
		}
	}
}
