package classify

import (
	"testing"

	"specclean/internal/diag"
	"specclean/internal/spec"
)

func scanAll(t *testing.T, lines []string) ([]spec.Line, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(64)
	s := NewScanner(lines, bag)
	var out []spec.Line
	for {
		line, _, ok := s.Next()
		if !ok {
			break
		}
		out = append(out, line)
	}
	return out, bag
}

func TestClassifyKinds(t *testing.T) {
	lines := []string{
		"",
		"   ",
		"# comment",
		"Name: foo",
		"%if 0%{?suse_version}",
		"%endif",
		"%setup -q",
		"random text",
	}
	got, _ := scanAll(t, lines)
	want := []spec.LineKind{
		spec.LineBlank,
		spec.LineBlank,
		spec.LineComment,
		spec.LineTag,
		spec.LineDirective,
		spec.LineDirective,
		spec.LineFreeText,
		spec.LineFreeText,
	}
	if len(got) != len(want) {
		t.Fatalf("line count: want %d, got %d", len(want), len(got))
	}
	for i, k := range want {
		if got[i].Kind != k {
			t.Fatalf("line %d (%q): want %v, got %v", i, lines[i], k, got[i].Kind)
		}
	}
}

func TestClassifyTagValue(t *testing.T) {
	got, _ := scanAll(t, []string{"buildrequires:   gcc  >= 7 "})
	if len(got) != 1 || got[0].Kind != spec.LineTag {
		t.Fatalf("expected one tag line, got %+v", got)
	}
	if got[0].Tag.Name != "BuildRequires" {
		t.Fatalf("tag name: want %q, got %q", "BuildRequires", got[0].Tag.Name)
	}
	if got[0].Tag.Value != "gcc  >= 7" {
		t.Fatalf("tag value: want %q, got %q", "gcc  >= 7", got[0].Tag.Value)
	}
}

func TestUnknownTagDegradesToFreeText(t *testing.T) {
	got, bag := scanAll(t, []string{"Frobnicate: on"})
	if got[0].Kind != spec.LineFreeText {
		t.Fatalf("unknown tag must degrade to free text, got %v", got[0].Kind)
	}
	if got[0].Raw != "Frobnicate: on" {
		t.Fatalf("raw must be preserved, got %q", got[0].Raw)
	}
	if bag.Len() == 0 {
		t.Fatal("expected an informational diagnostic for the unknown tag")
	}
}

func TestConditionalDepth(t *testing.T) {
	lines := []string{
		"Name: foo",
		"%if 0%{?sle}",
		"BuildRequires: libfoo",
		"%else",
		"BuildRequires: libbar",
		"%endif",
		"Requires: baz",
	}
	got, _ := scanAll(t, lines)
	depths := []int{0, 0, 1, 0, 1, 0, 0}
	for i, d := range depths {
		if got[i].CondDepth != d {
			t.Fatalf("line %d (%q) depth: want %d, got %d", i, lines[i], d, got[i].CondDepth)
		}
	}
}

func TestUnbalancedEndif(t *testing.T) {
	got, bag := scanAll(t, []string{"%endif"})
	if got[0].Kind != spec.LineDirective {
		t.Fatalf("want directive, got %v", got[0].Kind)
	}
	if got[0].CondDepth != 0 {
		t.Fatalf("depth must stay at zero, got %d", got[0].CondDepth)
	}
	if !bag.HasWarnings() {
		t.Fatal("expected a warning for an endif without a matching if")
	}
}

func TestContinuationJoin(t *testing.T) {
	lines := []string{
		"BuildRequires: gcc \\",
		"  make \\",
		"  cmake",
		"Requires: foo",
	}
	got, _ := scanAll(t, lines)
	if len(got) != 2 {
		t.Fatalf("continuations must join into one logical line, got %d lines", len(got))
	}
	if got[0].Kind != spec.LineTag {
		t.Fatalf("joined line kind: want tag, got %v", got[0].Kind)
	}
	if got[0].Tag.Value != "gcc make cmake" {
		t.Fatalf("joined value: want %q, got %q", "gcc make cmake", got[0].Tag.Value)
	}
	wantRaw := "BuildRequires: gcc \\\n  make \\\n  cmake"
	if got[0].Raw != wantRaw {
		t.Fatalf("joined raw: want %q, got %q", wantRaw, got[0].Raw)
	}
}

func TestContinuationNotJoinedOutsidePreamble(t *testing.T) {
	bag := diag.NewBag(8)
	s := NewScanner([]string{"make all \\", "  CFLAGS=-O2"}, bag)
	s.SetPreamble(false)
	var out []spec.Line
	for {
		line, _, ok := s.Next()
		if !ok {
			break
		}
		out = append(out, line)
	}
	if len(out) != 2 {
		t.Fatalf("script lines must stay physical, got %d lines", len(out))
	}
}

func TestDanglingContinuation(t *testing.T) {
	_, bag := scanAll(t, []string{"BuildRequires: gcc \\"})
	if !bag.HasWarnings() {
		t.Fatal("expected a warning for a continuation at end of input")
	}
}

func TestMacroColonLineIsFreeText(t *testing.T) {
	got, _ := scanAll(t, []string{"%define version_suffix: 2"})
	if got[0].Kind != spec.LineFreeText {
		t.Fatalf("macro text must not classify as a tag, got %v", got[0].Kind)
	}
}
