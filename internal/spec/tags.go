package spec

import (
	"strconv"
	"strings"
)

// TableVersion pins the canonical tag ordering table. Any change to the
// table or to the minimal-mode rule set must bump this, since cached check
// results and test fixtures depend on it.
const TableVersion = 1

// TagKind identifies a recognized preamble tag family.
type TagKind uint8

const (
	TagUnknown TagKind = iota
	TagName
	TagVersion
	TagRelease
	TagEpoch
	TagSummary
	TagLicense
	TagGroup
	TagURL
	TagSource
	TagPatch
	TagBuildRequires
	TagRequires
	TagPreReq
	TagRecommends
	TagSuggests
	TagSupplements
	TagEnhances
	TagConflicts
	TagProvides
	TagObsoletes
	TagBuildArch
	TagBuildRoot
	TagExclusiveArch
	TagExcludeArch
)

// tagInfo is a row of the static tag table.
type tagInfo struct {
	kind       TagKind
	canonical  string
	order      int
	dependency bool
	numbered   bool // Source0, Patch17, ...
	qualified  bool // Requires(pre), Requires(postun), ...
}

// Canonical tag ordering. Order values leave no gaps on purpose: unknown
// tags always sort after every known one (see OrderOf).
var tagTable = []tagInfo{
	{kind: TagName, canonical: "Name", order: 0},
	{kind: TagVersion, canonical: "Version", order: 1},
	{kind: TagRelease, canonical: "Release", order: 2},
	{kind: TagEpoch, canonical: "Epoch", order: 3},
	{kind: TagSummary, canonical: "Summary", order: 4},
	{kind: TagLicense, canonical: "License", order: 5},
	{kind: TagGroup, canonical: "Group", order: 6},
	{kind: TagURL, canonical: "Url", order: 7},
	{kind: TagSource, canonical: "Source", order: 8, numbered: true},
	{kind: TagPatch, canonical: "Patch", order: 9, numbered: true},
	{kind: TagBuildRequires, canonical: "BuildRequires", order: 10, dependency: true},
	{kind: TagRequires, canonical: "Requires", order: 11, dependency: true, qualified: true},
	{kind: TagPreReq, canonical: "PreReq", order: 12, dependency: true},
	{kind: TagRecommends, canonical: "Recommends", order: 13, dependency: true},
	{kind: TagSuggests, canonical: "Suggests", order: 14, dependency: true},
	{kind: TagSupplements, canonical: "Supplements", order: 15, dependency: true},
	{kind: TagEnhances, canonical: "Enhances", order: 16, dependency: true},
	{kind: TagConflicts, canonical: "Conflicts", order: 17, dependency: true},
	{kind: TagProvides, canonical: "Provides", order: 18, dependency: true},
	{kind: TagObsoletes, canonical: "Obsoletes", order: 19, dependency: true},
	{kind: TagBuildArch, canonical: "BuildArch", order: 20},
	{kind: TagBuildRoot, canonical: "BuildRoot", order: 21},
	{kind: TagExclusiveArch, canonical: "ExclusiveArch", order: 22},
	{kind: TagExcludeArch, canonical: "ExcludeArch", order: 23},
}

// orderUnknown sorts after every table entry.
var orderUnknown = len(tagTable) + 1

var tagByName = func() map[string]tagInfo {
	m := make(map[string]tagInfo, len(tagTable))
	for _, ti := range tagTable {
		m[strings.ToLower(ti.canonical)] = ti
	}
	// rpm accepts both spellings; BuildArchitectures folds into BuildArch.
	m["buildarchitectures"] = m["buildarch"]
	return m
}()

// validQualifiers are the scriptlet qualifiers accepted on Requires.
var validQualifiers = map[string]bool{
	"pre": true, "post": true, "preun": true, "postun": true,
	"pretrans": true, "posttrans": true, "verify": true,
}

// Dependency reports whether the kind is a dependency tag family.
func (k TagKind) Dependency() bool {
	for _, ti := range tagTable {
		if ti.kind == k {
			return ti.dependency
		}
	}
	return false
}

// LookupTag resolves a raw tag name (the text before the colon, any casing)
// against the table. It understands numeric suffixes on Source/Patch and
// scriptlet qualifiers on Requires. The second result is false when the
// name is not in the table; callers degrade such lines to free text.
func LookupTag(raw string) (TagRef, bool) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return TagRef{}, false
	}

	qualifier := ""
	if open := strings.IndexByte(name, '('); open > 0 && strings.HasSuffix(name, ")") {
		qualifier = strings.ToLower(name[open+1 : len(name)-1])
		name = name[:open]
	}

	base := strings.ToLower(name)
	number := -1
	if digits := trailingDigits(base); digits != "" {
		n, err := strconv.Atoi(digits)
		if err == nil {
			base = base[:len(base)-len(digits)]
			number = n
		}
	}

	ti, ok := tagByName[base]
	if !ok {
		return TagRef{}, false
	}
	if number >= 0 && !ti.numbered {
		return TagRef{}, false
	}
	if qualifier != "" && (!ti.qualified || !validQualifiers[qualifier]) {
		return TagRef{}, false
	}

	ref := TagRef{Kind: ti.kind, Name: ti.canonical, Number: number}
	if number >= 0 {
		ref.Name += strconv.Itoa(number)
	}
	if qualifier != "" {
		ref.Name += "(" + qualifier + ")"
	}
	return ref, true
}

// OrderOf returns the canonical ordering slot for a tag reference. Unknown
// tags share a slot past the end of the table so they retain input order
// after all known tags.
func OrderOf(ref TagRef) int {
	for _, ti := range tagTable {
		if ti.kind == ref.Kind {
			return ti.order
		}
	}
	return orderUnknown
}

// CanonicalTags returns the table spellings in canonical order, for the
// introspection command and tests.
func CanonicalTags() []string {
	out := make([]string, 0, len(tagTable))
	for _, ti := range tagTable {
		out = append(out, ti.canonical)
	}
	return out
}

func trailingDigits(s string) string {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	// A purely numeric name is not a numbered tag.
	if i == 0 {
		return ""
	}
	return s[i:]
}
