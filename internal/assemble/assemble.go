// Package assemble groups classified lines into the ordered section
// sequence. Every input line lands in exactly one section; nothing is
// duplicated or dropped.
package assemble

import (
	"specclean/internal/classify"
	"specclean/internal/diag"
	"specclean/internal/source"
	"specclean/internal/spec"
)

// Build constructs the document model from an input file. Section
// boundaries are the fixed marker directives; everything before the first
// marker is the preamble. Conditional blocks pass through verbatim inside
// whichever section they appear in.
func Build(sf *source.File, bag *diag.Bag) *spec.Document {
	doc := &spec.Document{}
	doc.Sections = append(doc.Sections, spec.Section{Kind: spec.SectionPreamble})
	current := &doc.Sections[len(doc.Sections)-1]

	scanner := classify.NewScanner(sf.Lines(), bag)
	for {
		line, _, ok := scanner.Next()
		if !ok {
			break
		}

		if line.Kind == spec.LineFreeText {
			if kind, isMarker := spec.LookupSectionMarker(line.Raw); isMarker {
				doc.Sections = append(doc.Sections, spec.Section{
					Kind:   kind,
					Marker: line.Raw,
				})
				current = &doc.Sections[len(doc.Sections)-1]
				scanner.SetPreamble(kind.Preamble())
				continue
			}
		}

		current.Lines = append(current.Lines, line)
	}

	return doc
}
