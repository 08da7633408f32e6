package normalize

import "strings"

// RestyleMacros rewrites bare %name macro invocations in a tag value to
// the braced %{name} form. Only decorative formatting changes: the name is
// preserved verbatim, and anything that could be a parameterized macro
// (name followed by whitespace and more text) is left untouched, as are
// %%, %{...}, %(...) and %? forms.
func RestyleMacros(value string) string {
	if !strings.Contains(value, "%") {
		return value
	}

	var b strings.Builder
	b.Grow(len(value) + 8)
	for i := 0; i < len(value); {
		c := value[i]
		if c != '%' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(value) {
			b.WriteByte(c)
			i++
			continue
		}
		next := value[i+1]
		switch {
		case next == '%':
			b.WriteString("%%")
			i += 2
		case next == '{' || next == '(' || next == '?' || next == '!':
			// Already braced, shell expansion, or conditional expansion.
			b.WriteByte('%')
			i++
		case isMacroStart(next):
			j := i + 1
			for j < len(value) && isMacroChar(value[j]) {
				j++
			}
			name := value[i+1 : j]
			if j < len(value) && (value[j] == ' ' || value[j] == '\t') {
				// Possibly parameterized; reformatting could change the
				// argument boundary, so leave it alone.
				b.WriteString(value[i:j])
			} else {
				b.WriteString("%{")
				b.WriteString(name)
				b.WriteByte('}')
			}
			i = j
		default:
			b.WriteByte('%')
			i++
		}
	}
	return b.String()
}

func isMacroStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isMacroChar(c byte) bool {
	return isMacroStart(c) || (c >= '0' && c <= '9')
}

// collapseWS folds internal whitespace runs to single spaces and trims the
// ends.
func collapseWS(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// normalizeValue is the canonical form of a tag value: collapsed whitespace
// and restyled macros. Dedup keys, sort keys and rendered output all use it,
// so values that only differ in macro style compare equal.
func normalizeValue(s string) string {
	return RestyleMacros(collapseWS(s))
}

func splitSegments(raw string) []string {
	return strings.Split(raw, "\n")
}

func joinSegments(segs []string) string {
	return strings.Join(segs, "\n")
}

// trimRightWS trims trailing spaces and tabs, unless the trim would leave
// a trailing backslash: "cmd \ " is an escaped space in shell, and turning
// it into a continuation marker would change meaning.
func trimRightWS(s string) string {
	t := strings.TrimRight(s, " \t")
	if t != s && strings.HasSuffix(t, "\\") {
		return s
	}
	return t
}
