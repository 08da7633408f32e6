package diag

import (
	"fmt"
	"sort"
	"strings"

	"fortio.org/safecast"
)

// Bag collects diagnostics up to a fixed capacity. Cleaning never fails on
// ambiguous content, so the bag is the only channel for reporting what the
// pipeline chose to leave alone.
type Bag struct {
	items []Diagnostic
	max   uint16
}

// NewBag creates a bag holding at most max diagnostics.
func NewBag(max int) *Bag {
	capped, err := safecast.Conv[uint16](max)
	if err != nil || capped == 0 {
		capped = 256
	}
	return &Bag{
		items: make([]Diagnostic, 0, capped),
		max:   capped,
	}
}

// Add appends a diagnostic, honoring the capacity limit. Returns false when
// the diagnostic was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns a read-only view of the collected diagnostics.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// HasWarnings reports whether any diagnostic is at least a warning.
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// Sort orders diagnostics by line, then severity (descending), then code,
// for deterministic output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Format renders the bag into a stable single-line-per-entry string for
// CLI output and golden comparisons. Path prefixes every entry.
func (b *Bag) Format(path string) string {
	if b.Len() == 0 {
		return ""
	}
	b.Sort()
	var sb strings.Builder
	for i, d := range b.items {
		if d.Line > 0 {
			fmt.Fprintf(&sb, "%s %s %s:%d %s", d.Severity, d.Code.ID(), path, d.Line, d.Message)
		} else {
			fmt.Fprintf(&sb, "%s %s %s %s", d.Severity, d.Code.ID(), path, d.Message)
		}
		if i < b.Len()-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
