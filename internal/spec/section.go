package spec

import "strings"

// SectionKind names the logical regions of a spec file.
type SectionKind uint8

const (
	SectionPreamble SectionKind = iota
	SectionPackage
	SectionDescription
	SectionPrep
	SectionBuild
	SectionInstall
	SectionCheck
	SectionClean
	SectionFiles
	SectionChangelog
	SectionPre
	SectionPost
	SectionPreun
	SectionPostun
	SectionPretrans
	SectionPosttrans
	SectionVerifyscript
	SectionTrigger
)

func (k SectionKind) String() string {
	switch k {
	case SectionPreamble:
		return "preamble"
	case SectionPackage:
		return "package"
	case SectionDescription:
		return "description"
	case SectionPrep:
		return "prep"
	case SectionBuild:
		return "build"
	case SectionInstall:
		return "install"
	case SectionCheck:
		return "check"
	case SectionClean:
		return "clean"
	case SectionFiles:
		return "files"
	case SectionChangelog:
		return "changelog"
	case SectionPre:
		return "pre"
	case SectionPost:
		return "post"
	case SectionPreun:
		return "preun"
	case SectionPostun:
		return "postun"
	case SectionPretrans:
		return "pretrans"
	case SectionPosttrans:
		return "posttrans"
	case SectionVerifyscript:
		return "verifyscript"
	case SectionTrigger:
		return "trigger"
	}
	return "unknown"
}

// Preamble reports whether the section carries tag metadata the normalizer
// may rewrite. %package blocks are per-subpackage preambles.
func (k SectionKind) Preamble() bool {
	return k == SectionPreamble || k == SectionPackage
}

// sectionMarkers maps the directive word that begins a section to its kind.
// Unrecognized %words are not boundaries: they may be macro invocations and
// stay inside the current section as free text.
var sectionMarkers = map[string]SectionKind{
	"package":      SectionPackage,
	"description":  SectionDescription,
	"prep":         SectionPrep,
	"build":        SectionBuild,
	"install":      SectionInstall,
	"check":        SectionCheck,
	"clean":        SectionClean,
	"files":        SectionFiles,
	"changelog":    SectionChangelog,
	"pre":          SectionPre,
	"post":         SectionPost,
	"preun":        SectionPreun,
	"postun":       SectionPostun,
	"pretrans":     SectionPretrans,
	"posttrans":    SectionPosttrans,
	"verifyscript": SectionVerifyscript,
}

// LookupSectionMarker recognizes a section-opening directive line. The
// second result is false when the line does not begin a section.
func LookupSectionMarker(line string) (SectionKind, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "%") {
		return 0, false
	}
	word := trimmed[1:]
	if i := strings.IndexAny(word, " \t"); i >= 0 {
		word = word[:i]
	}
	if kind, ok := sectionMarkers[word]; ok {
		return kind, true
	}
	if strings.HasPrefix(word, "trigger") {
		return SectionTrigger, true
	}
	return 0, false
}

// Section is a named region owning an ordered run of lines. Marker holds
// the raw section-opening line ("" for the leading preamble).
type Section struct {
	Kind   SectionKind
	Marker string
	Lines  []Line
}

// Document is the root artifact: the ordered section sequence built fresh
// per invocation. The copyright header lives in the leading preamble's
// comment lines.
type Document struct {
	Sections []Section
}

// Preamble returns the leading preamble section, or nil when the document
// is empty.
func (d *Document) Preamble() *Section {
	if len(d.Sections) == 0 || d.Sections[0].Kind != SectionPreamble {
		return nil
	}
	return &d.Sections[0]
}

// LineCount returns the total number of logical lines across all sections.
func (d *Document) LineCount() int {
	n := 0
	for i := range d.Sections {
		n += len(d.Sections[i].Lines)
	}
	return n
}
