// Package normalize rewrites the preamble sections of a spec document into
// canonical form: fixed tag ordering, merged and sorted dependency groups,
// deduplicated entries, padded tag names and consistent macro style.
//
// The failure policy is strictly "no-op on doubt": anything the normalizer
// cannot confidently reformat keeps its original text. Tags inside open
// conditionals are never moved.
package normalize

import (
	"specclean/internal/diag"
	"specclean/internal/spec"
)

// DefaultPadColumn is the column tag values start at in full mode.
const DefaultPadColumn = 17

// Options selects which rewrite rules apply.
type Options struct {
	// Minimal applies only the safe subset: dependency dedup in place and
	// trailing whitespace trimming. No reordering, sorting, padding or
	// macro restyling.
	Minimal bool
	// PadColumn is the 1-based column tag values are aligned to.
	PadColumn int
}

func (o Options) withDefaults() Options {
	if o.PadColumn <= 1 {
		o.PadColumn = DefaultPadColumn
	}
	return o
}

// Apply mutates the document in place according to the options.
func Apply(doc *spec.Document, opts Options, bag *diag.Bag) {
	opts = opts.withDefaults()

	for i := range doc.Sections {
		sec := &doc.Sections[i]
		trimTrailing(sec)

		if sec.Kind.Preamble() {
			dedupInPlace(sec, bag)
		}
		if opts.Minimal {
			continue
		}

		if sec.Kind.Preamble() {
			rebuildPreamble(sec, opts)
		}
		collapseBlanks(sec)
	}
}

// trimTrailing removes trailing spaces and tabs from every line segment.
// Segments ending in a continuation backslash are left as they are.
func trimTrailing(sec *spec.Section) {
	for i := range sec.Lines {
		sec.Lines[i].Raw = trimTrailingText(sec.Lines[i].Raw)
	}
	sec.Marker = trimTrailingText(sec.Marker)
}

func trimTrailingText(raw string) string {
	if raw == "" {
		return raw
	}
	segs := splitSegments(raw)
	changed := false
	for i, seg := range segs {
		t := trimRightWS(seg)
		if t != seg {
			segs[i] = t
			changed = true
		}
	}
	if !changed {
		return raw
	}
	return joinSegments(segs)
}

// dedupInPlace drops later dependency lines whose normalized text repeats
// an earlier one in the same section. Only unconditional lines participate;
// duplicates under %if may differ per branch and are left alone.
func dedupInPlace(sec *spec.Section, bag *diag.Bag) {
	seen := make(map[string]bool)
	kept := sec.Lines[:0]
	for _, line := range sec.Lines {
		if line.IsDependency() && line.CondDepth == 0 {
			key := line.Tag.Name + "\x00" + normalizeValue(line.Tag.Value)
			if seen[key] {
				bag.Add(diag.New(diag.SevInfo, diag.NormDroppedDuplicate, 0,
					"dropped duplicate "+line.Tag.Name+": "+line.Tag.Value))
				continue
			}
			seen[key] = true
		}
		kept = append(kept, line)
	}
	sec.Lines = kept
}

// collapseBlanks reduces runs of blank lines to a single blank and strips
// blanks from the section edges; the renderer owns inter-section spacing.
func collapseBlanks(sec *spec.Section) {
	kept := sec.Lines[:0]
	prevBlank := false
	for _, line := range sec.Lines {
		blank := line.Kind == spec.LineBlank
		if blank && (prevBlank || len(kept) == 0) {
			continue
		}
		kept = append(kept, line)
		prevBlank = blank
	}
	for len(kept) > 0 && kept[len(kept)-1].Kind == spec.LineBlank {
		kept = kept[:len(kept)-1]
	}
	sec.Lines = kept
}
