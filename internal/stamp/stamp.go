// Package stamp maintains the canonical copyright header at the top of a
// spec document. The header template is fixed and parameterized only by
// the year; unrecognized leading comments are never deleted.
package stamp

import (
	"fmt"
	"regexp"
	"time"

	"specclean/internal/diag"
	"specclean/internal/spec"
)

// Clock supplies the current time. Injected so tests can pin the year.
type Clock func() time.Time

// copyrightRe matches the year-bearing template line.
var copyrightRe = regexp.MustCompile(`^# Copyright \(c\) (\d{4}) SUSE LLC$`)

// The canonical header is templateHead, the year-bearing copyright line,
// then templateTail.
var templateHead = []string{
	"#",
	"# spec file",
	"#",
}

var templateTail = []string{
	"#",
	"# All modifications and additions to the file contributed by third parties",
	"# remain the property of their copyright owners, unless otherwise agreed",
	"# upon. The license for this file, and modifications and additions to the",
	"# file, is the same license as for the pristine package itself (except that",
	"# the license for the pristine package is not obligated to provide this",
	"# notice).",
	"#",
	"# Please submit bugfixes or comments via https://bugs.opensuse.org/",
	"#",
}

func copyrightLine(year int) string {
	return fmt.Sprintf("# Copyright (c) %d SUSE LLC", year)
}

// Template renders the full header block for a year.
func Template(year int) []string {
	out := make([]string, 0, len(templateHead)+1+len(templateTail))
	out = append(out, templateHead...)
	out = append(out, copyrightLine(year))
	out = append(out, templateTail...)
	return out
}

// Apply ensures the document begins with exactly one canonical header. A
// leading comment block matching the template modulo year gets its year
// replaced in place; otherwise a fresh header is inserted before whatever
// leading comments exist.
func Apply(doc *spec.Document, now Clock, bag *diag.Bag) {
	pre := doc.Preamble()
	if pre == nil {
		return
	}
	year := currentYear(now)

	if idx, ok := matchHeader(pre.Lines); ok {
		old := pre.Lines[idx].Raw
		pre.Lines[idx].Raw = copyrightLine(year)
		if old != pre.Lines[idx].Raw {
			bag.Add(diag.New(diag.SevInfo, diag.HdrReplacedYear, 0,
				"updated copyright year"))
		}
		return
	}

	header := Template(year)
	lines := make([]spec.Line, 0, len(header)+1+len(pre.Lines))
	for _, text := range header {
		lines = append(lines, spec.Line{Kind: spec.LineComment, Raw: text})
	}
	lines = append(lines, spec.Line{Kind: spec.LineBlank})
	lines = append(lines, pre.Lines...)
	pre.Lines = lines
	bag.Add(diag.New(diag.SevInfo, diag.HdrInserted, 0, "inserted copyright header"))
}

// matchHeader locates the template in the leading comment block (initial
// blank lines are skipped). On success it returns the index of the
// year-bearing line.
func matchHeader(lines []spec.Line) (int, bool) {
	start := 0
	for start < len(lines) && lines[start].Kind == spec.LineBlank {
		start++
	}
	want := len(templateHead) + 1 + len(templateTail)
	if len(lines)-start < want {
		return 0, false
	}
	for i, text := range templateHead {
		if lines[start+i].Kind != spec.LineComment || lines[start+i].Raw != text {
			return 0, false
		}
	}
	yearIdx := start + len(templateHead)
	if lines[yearIdx].Kind != spec.LineComment || !copyrightRe.MatchString(lines[yearIdx].Raw) {
		return 0, false
	}
	for i, text := range templateTail {
		l := lines[yearIdx+1+i]
		if l.Kind != spec.LineComment || l.Raw != text {
			return 0, false
		}
	}
	return yearIdx, true
}

func currentYear(now Clock) int {
	if now == nil {
		now = time.Now
	}
	return now().Year()
}
