// Package classify turns physical spec-file lines into the tagged line
// model. Recognition is table-driven and biased toward leaving content
// alone: anything it cannot place with confidence degrades to free text.
package classify

import (
	"strings"

	"specclean/internal/diag"
	"specclean/internal/spec"
)

// conditional directives are tracked by prefix so later passes know nesting
// depth; their bodies are never reflowed.
var condOpen = []string{"%if", "%ifarch", "%ifnarch", "%ifos", "%ifnos"}

// Scanner walks physical lines and yields classified logical lines. The
// section assembler drives it and flips the preamble flag on section
// boundaries.
type Scanner struct {
	lines    []string
	pos      int
	preamble bool
	depth    int
	bag      *diag.Bag
}

// NewScanner creates a scanner over physical lines. The document starts in
// preamble context.
func NewScanner(lines []string, bag *diag.Bag) *Scanner {
	return &Scanner{lines: lines, preamble: true, bag: bag}
}

// SetPreamble switches tag recognition on or off for subsequent lines.
func (s *Scanner) SetPreamble(on bool) {
	s.preamble = on
}

// Next returns the next logical line and its 1-based starting line number.
// The third result is false at end of input.
func (s *Scanner) Next() (spec.Line, int, bool) {
	if s.pos >= len(s.lines) {
		return spec.Line{}, 0, false
	}
	lineNo := s.pos + 1
	raw := s.lines[s.pos]
	s.pos++

	pieces := []string{raw}
	if s.preamble && continues(raw) && !isBlank(raw) && !isComment(raw) {
		for s.pos < len(s.lines) {
			next := s.lines[s.pos]
			pieces = append(pieces, next)
			s.pos++
			if !continues(next) {
				break
			}
		}
		if continues(pieces[len(pieces)-1]) {
			s.bag.Add(diag.New(diag.SevWarning, diag.ClsDanglingContinue, lineNo,
				"line continuation at end of input"))
		}
	}

	return s.classify(pieces, lineNo), lineNo, true
}

func (s *Scanner) classify(pieces []string, lineNo int) spec.Line {
	raw := strings.Join(pieces, "\n")
	first := pieces[0]
	trimmed := strings.TrimSpace(first)

	line := spec.Line{Raw: raw, CondDepth: s.depth}

	switch {
	case trimmed == "":
		line.Kind = spec.LineBlank
		return line

	case strings.HasPrefix(trimmed, "#"):
		line.Kind = spec.LineComment
		return line

	case isConditional(trimmed):
		line.Kind = spec.LineDirective
		s.trackDepth(trimmed, &line, lineNo)
		return line
	}

	if s.preamble {
		if name, value, ok := splitTagLine(trimmed, pieces); ok {
			if ref, known := spec.LookupTag(name); known {
				ref.Value = value
				line.Kind = spec.LineTag
				line.Tag = ref
				return line
			}
			s.bag.Add(diag.New(diag.SevInfo, diag.ClsUnknownTag, lineNo,
				"unrecognized tag "+strings.TrimSpace(name)+", passing through"))
		}
	}

	line.Kind = spec.LineFreeText
	return line
}

func (s *Scanner) trackDepth(trimmed string, line *spec.Line, lineNo int) {
	word := trimmed
	if i := strings.IndexAny(word, " \t"); i >= 0 {
		word = word[:i]
	}
	switch word {
	case "%endif":
		if s.depth == 0 {
			s.bag.Add(diag.New(diag.SevWarning, diag.ClsUnbalancedEndif, lineNo,
				"%endif without matching %if"))
		} else {
			s.depth--
		}
		line.CondDepth = s.depth
	case "%else", "%elif":
		if s.depth > 0 {
			line.CondDepth = s.depth - 1
		}
	default:
		line.CondDepth = s.depth
		s.depth++
	}
}

func isConditional(trimmed string) bool {
	word := trimmed
	if i := strings.IndexAny(word, " \t"); i >= 0 {
		word = word[:i]
	}
	if word == "%else" || word == "%elif" || word == "%endif" {
		return true
	}
	for _, p := range condOpen {
		if word == p {
			return true
		}
	}
	return false
}

// splitTagLine splits "Name: value" on the first colon, rejecting shapes
// that cannot be tags (no colon, name not starting with a letter, macro
// text before the colon).
func splitTagLine(trimmed string, pieces []string) (name, value string, ok bool) {
	colon := strings.IndexByte(trimmed, ':')
	if colon <= 0 {
		return "", "", false
	}
	name = strings.TrimSpace(trimmed[:colon])
	if name == "" || !isLetter(name[0]) {
		return "", "", false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !isLetter(c) && !isDigit(c) && c != '_' && c != '(' && c != ')' {
			return "", "", false
		}
	}

	// The value spans every continuation piece with markers stripped.
	parts := make([]string, 0, len(pieces))
	firstValue := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(trimmed[colon+1:]), "\\"))
	if firstValue != "" {
		parts = append(parts, firstValue)
	}
	for _, piece := range pieces[1:] {
		p := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(piece), "\\"))
		if p != "" {
			parts = append(parts, p)
		}
	}
	return name, strings.Join(parts, " "), true
}

func continues(line string) bool {
	return strings.HasSuffix(line, "\\")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
