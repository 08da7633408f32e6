package spec

// LineKind classifies a single logical line of a spec file.
type LineKind uint8

const (
	// LineBlank is an empty or whitespace-only line.
	LineBlank LineKind = iota
	// LineComment is a line starting with #.
	LineComment
	// LineTag is a recognized "Name: value" metadata line.
	LineTag
	// LineDirective is a conditional directive (%if/%else/%endif family).
	LineDirective
	// LineFreeText is anything else, preserved verbatim (incl. tag-like
	// lines that failed recognition).
	LineFreeText
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineComment:
		return "comment"
	case LineTag:
		return "tag"
	case LineDirective:
		return "directive"
	case LineFreeText:
		return "freetext"
	}
	return "unknown"
}

// TagRef identifies a recognized tag occurrence on a line.
type TagRef struct {
	Kind TagKind
	// Name is the canonical spelling including any numeric suffix or
	// scriptlet qualifier, e.g. "Source0" or "Requires(post)".
	Name string
	// Number is the numeric suffix of Source/Patch tags, -1 when absent.
	Number int
	// Value is the tag value with surrounding whitespace trimmed.
	Value string
}

// Line is the atomic unit of the document model. Raw always holds the exact
// original text so an unmodified line round-trips byte for byte; joined
// continuations keep their embedded "\\\n" in Raw.
type Line struct {
	Kind      LineKind
	Raw       string
	CondDepth int
	Tag       TagRef
}

// IsDependency reports whether the line is a dependency tag subject to
// group merging, sorting and dedup.
func (l Line) IsDependency() bool {
	return l.Kind == LineTag && l.Tag.Kind.Dependency()
}

// GroupKey returns the dependency-group identity for the line. Qualified
// requires (Requires(pre), Requires(post), ...) each form their own group.
func (l Line) GroupKey() string {
	return l.Tag.Name
}
