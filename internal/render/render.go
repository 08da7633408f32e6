// Package render serializes the normalized section sequence back to text.
// Rendering is the identity on line payloads: every decision about content
// was already made upstream, so running the full pipeline on rendered
// output reproduces it byte for byte.
package render

import (
	"specclean/internal/spec"
)

// Options selects the spacing policy.
type Options struct {
	// Minimal preserves the document's own blank lines instead of
	// enforcing one blank line between sections.
	Minimal bool
}

// Document serializes the document. In full mode exactly one blank line
// separates top-level sections and the output ends with a single newline.
func Document(doc *spec.Document, opts Options) []byte {
	w := NewWriter(doc.LineCount() * 32)

	for i := range doc.Sections {
		sec := &doc.Sections[i]
		if sec.Marker != "" {
			if !opts.Minimal {
				w.BlankSeparator()
			}
			w.WriteLine(sec.Marker)
		}
		for _, line := range sec.Lines {
			w.WriteLine(line.Raw)
		}
	}

	if !opts.Minimal {
		w.TrimTrailingBlank()
	}
	return w.Bytes()
}
