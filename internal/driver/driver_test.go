package driver

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"specclean/internal/review"
	"specclean/internal/source"
	"specclean/internal/stamp"
)

// fixtureClock pins the copyright year the fixtures were generated with.
func fixtureClock() stamp.Clock {
	return func() time.Time {
		return time.Date(2013, time.June, 1, 0, 0, 0, 0, time.UTC)
	}
}

func fixtureNames(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join("testdata", "in"))
	if err != nil {
		t.Fatalf("reading fixtures: %v", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".spec" {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		t.Fatal("no fixtures found")
	}
	return names
}

func readFixture(t *testing.T, parts ...string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(append([]string{"testdata"}, parts...)...))
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	return data
}

func TestFixturesFullMode(t *testing.T) {
	opts := Options{Now: fixtureClock()}
	for _, name := range fixtureNames(t) {
		in := readFixture(t, "in", name)
		want := readFixture(t, "out", name)

		got, _ := CleanBytes(source.NewVirtual(name, in), opts)
		if !bytes.Equal(got, want) {
			t.Fatalf("%s: cleaned output mismatch:\nwant:\n%s\ngot:\n%s", name, want, got)
		}

		// Cleaning the output again must be the identity.
		again, _ := CleanBytes(source.NewVirtual(name, got), opts)
		if !bytes.Equal(again, got) {
			t.Fatalf("%s: second clean changed the output:\nfirst:\n%s\nsecond:\n%s", name, got, again)
		}
	}
}

func TestFixturesMinimalMode(t *testing.T) {
	opts := Options{Minimal: true, Now: fixtureClock()}
	for _, name := range fixtureNames(t) {
		in := readFixture(t, "in", name)
		want := readFixture(t, "out-minimal", name)

		got, _ := CleanBytes(source.NewVirtual(name, in), opts)
		if !bytes.Equal(got, want) {
			t.Fatalf("%s: minimal output mismatch:\nwant:\n%s\ngot:\n%s", name, want, got)
		}

		again, _ := CleanBytes(source.NewVirtual(name, got), opts)
		if !bytes.Equal(again, got) {
			t.Fatalf("%s: second minimal clean changed the output", name)
		}
	}
}

// Minimal mode must only ever apply a subset of the full rewrite: running
// full mode after minimal mode gives the same result as full mode alone.
func TestMinimalIsSubsetOfFull(t *testing.T) {
	for _, name := range fixtureNames(t) {
		in := readFixture(t, "in", name)

		full, _ := CleanBytes(source.NewVirtual(name, in), Options{Now: fixtureClock()})
		minimal, _ := CleanBytes(source.NewVirtual(name, in), Options{Minimal: true, Now: fixtureClock()})
		fullAfterMinimal, _ := CleanBytes(source.NewVirtual(name, minimal), Options{Now: fixtureClock()})

		if !bytes.Equal(full, fullAfterMinimal) {
			t.Fatalf("%s: full(minimal(x)) differs from full(x):\nfull:\n%s\ngot:\n%s", name, full, fullAfterMinimal)
		}
	}
}

func TestCleanReportsChanged(t *testing.T) {
	in := readFixture(t, "in", "example.spec")
	opts := Options{Now: fixtureClock()}

	_, changed, _ := Clean(source.NewVirtual("example.spec", in), opts)
	if !changed {
		t.Fatal("dirty input must report changed")
	}

	out := readFixture(t, "out", "example.spec")
	_, changed, _ = Clean(source.NewVirtual("example.spec", out), opts)
	if changed {
		t.Fatal("clean input must report unchanged")
	}
}

func TestCleanStableAcrossMacroStyles(t *testing.T) {
	in := []byte("Name: pkg\nRequires: %name\nRequires: %{name}\n")
	opts := Options{Now: fixtureClock()}

	first, _ := CleanBytes(source.NewVirtual("pkg.spec", in), opts)
	if got := bytes.Count(first, []byte("Requires:")); got != 1 {
		t.Fatalf("restyled duplicates must collapse on the first run, got %d Requires lines:\n%s", got, first)
	}
	second, _ := CleanBytes(source.NewVirtual("pkg.spec", first), opts)
	if !bytes.Equal(first, second) {
		t.Fatalf("second clean changed the output:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestCleanStreamRejectsInline(t *testing.T) {
	sf := source.NewVirtual("<stdin>", []byte("Name: foo\n"))
	_, _, err := CleanStream(sf, Options{Inline: true})
	if err == nil {
		t.Fatal("expected an error for in-place rewrite of a stream")
	}
	if !errors.Is(err, review.ErrInvalidTarget) {
		t.Fatalf("want ErrInvalidTarget, got %v", err)
	}
}

func TestCleanBytesEmptyInput(t *testing.T) {
	got, _ := CleanBytes(source.NewVirtual("empty.spec", nil), Options{Now: fixtureClock()})
	// Even empty input gains the copyright header.
	if len(got) == 0 {
		t.Fatal("empty input must still receive the header")
	}
	again, _ := CleanBytes(source.NewVirtual("empty.spec", got), Options{Now: fixtureClock()})
	if !bytes.Equal(again, got) {
		t.Fatalf("header-only output not stable:\nfirst:\n%s\nsecond:\n%s", got, again)
	}
}
