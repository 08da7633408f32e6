package normalize

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"specclean/internal/spec"
)

// depCollator orders dependency values case-insensitively but still
// deterministically for values differing only in case.
var depCollator = collate.New(language.Und, collate.IgnoreCase)

// unit is a movable tag line with the comments that ride along with it.
type unit struct {
	comments []spec.Line
	tag      spec.Line
	index    int // input position, the stable tie-break
}

// rebuildPreamble rewrites one preamble-kind section in full mode.
//
// The section is cut into runs of movable units separated by barriers:
// directives, free text, blanks, tags inside conditionals, and the leading
// comment block (the copyright header zone). Reordering happens only
// within a run, so content never crosses a conditional or macro boundary.
func rebuildPreamble(sec *spec.Section, opts Options) {
	var out []spec.Line
	var run []unit
	var pendingComments []spec.Line

	flush := func() {
		if len(run) > 0 {
			out = append(out, emitRun(run, opts)...)
			run = run[:0]
		}
		if len(pendingComments) > 0 {
			out = append(out, pendingComments...)
			pendingComments = nil
		}
	}

	// The leading block of comments and blanks stays put: it is the header
	// zone the stamper owns.
	i := 0
	for ; i < len(sec.Lines); i++ {
		k := sec.Lines[i].Kind
		if k != spec.LineComment && k != spec.LineBlank {
			break
		}
		out = append(out, sec.Lines[i])
	}

	for ; i < len(sec.Lines); i++ {
		line := sec.Lines[i]
		switch {
		case line.Kind == spec.LineComment:
			pendingComments = append(pendingComments, line)

		case line.Kind == spec.LineTag && line.CondDepth == 0:
			run = append(run, unit{comments: pendingComments, tag: line, index: i})
			pendingComments = nil

		default:
			// Barrier: close the current run, emit any comments that were
			// not followed by a tag, then the barrier line itself.
			flush()
			out = append(out, line)
		}
	}
	flush()

	sec.Lines = out
}

// emitRun reorders one run of movable units into canonical form and
// renders each tag line's text.
func emitRun(run []unit, opts Options) []spec.Line {
	// Dependency units collapse into groups keyed by the canonical tag
	// name; the group sits at the slot of its first-seen member.
	type group struct {
		units []unit
		index int
	}
	groups := make(map[string]*group)

	singles := make([]unit, 0, len(run))
	var groupOrder []*group
	for _, u := range run {
		if !u.tag.IsDependency() {
			singles = append(singles, u)
			continue
		}
		key := u.tag.GroupKey()
		g, ok := groups[key]
		if !ok {
			g = &group{index: u.index}
			groups[key] = g
			groupOrder = append(groupOrder, g)
		}
		g.units = append(g.units, u)
	}

	// Sort dependency values inside each group. Duplicates were already
	// dropped section-wide before reordering.
	for _, g := range groupOrder {
		sort.SliceStable(g.units, func(a, b int) bool {
			va := normalizeValue(g.units[a].tag.Tag.Value)
			vb := normalizeValue(g.units[b].tag.Tag.Value)
			if c := depCollator.CompareString(va, vb); c != 0 {
				return c < 0
			}
			return va < vb
		})
	}

	// Interleave singles and groups by canonical order. Each group is
	// positioned by its first member.
	type slot struct {
		units []spec.Line
		order int
		num   int
		name  string
		index int
	}
	slots := make([]slot, 0, len(singles)+len(groupOrder))
	for _, u := range singles {
		slots = append(slots, slot{
			units: renderUnit(u, opts),
			order: spec.OrderOf(u.tag.Tag),
			num:   u.tag.Tag.Number,
			name:  u.tag.Tag.Name,
			index: u.index,
		})
	}
	for _, g := range groupOrder {
		if len(g.units) == 0 {
			continue
		}
		var lines []spec.Line
		for _, u := range g.units {
			lines = append(lines, renderUnit(u, opts)...)
		}
		first := g.units[0].tag.Tag
		slots = append(slots, slot{
			units: lines,
			order: spec.OrderOf(first),
			num:   first.Number,
			name:  first.Name,
			index: g.index,
		})
	}

	sort.SliceStable(slots, func(a, b int) bool {
		if slots[a].order != slots[b].order {
			return slots[a].order < slots[b].order
		}
		if slots[a].num != slots[b].num {
			return slots[a].num < slots[b].num
		}
		if slots[a].name != slots[b].name {
			return slots[a].name < slots[b].name
		}
		return slots[a].index < slots[b].index
	})

	var out []spec.Line
	for _, s := range slots {
		out = append(out, s.units...)
	}
	return out
}

// renderUnit formats the tag line text and prefixes its comments.
func renderUnit(u unit, opts Options) []spec.Line {
	lines := make([]spec.Line, 0, len(u.comments)+1)
	lines = append(lines, u.comments...)
	tag := u.tag
	tag.Raw = FormatTag(tag.Tag, opts)
	lines = append(lines, tag)
	return lines
}

// FormatTag renders a canonical tag line: name, colon, padding to the
// configured value column, restyled value. Joined continuations come out
// as a single line.
func FormatTag(ref spec.TagRef, opts Options) string {
	opts = opts.withDefaults()
	head := ref.Name + ":"
	pad := opts.PadColumn - 1 - len(head)
	if pad < 1 {
		pad = 1
	}
	value := normalizeValue(ref.Value)
	if value == "" {
		return head
	}
	return head + strings.Repeat(" ", pad) + value
}
