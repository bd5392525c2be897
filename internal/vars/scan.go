package vars

import "strings"

// A template is literal text with $NAME references. NAME is a run of at least
// two ASCII letters, digits and underscores; a dot joins two such runs
// ("$app.id"). Anything else after a '$' is literal, which leaves platform
// placeholders such as $(PRODUCT_NAME), ${applicationId} and $[x] untouched,
// as well as positional format arguments like %1$s and prices like $5.

func isWordByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}

// scanName returns the end index of the name starting at s[start].
func scanName(s string, start int) int {
	j := start
	for j < len(s) {
		switch {
		case isWordByte(s[j]):
			j++
		case s[j] == '.' && j > start && j+1 < len(s) && isWordByte(s[j+1]):
			j++
		default:
			return j
		}
	}
	return j
}

// startsRef reports whether a reference name begins at s[start].
func startsRef(s string, start int) bool {
	return start+1 < len(s) && isWordByte(s[start]) && isWordByte(s[start+1])
}

// isName reports whether name is a complete reference name.
func isName(name string) bool {
	return startsRef(name, 0) && scanName(name, 0) == len(name)
}

// replaceRefs rewrites every $NAME reference in s with the result of fn.
func replaceRefs(s string, fn func(name string) string) string {
	if strings.IndexByte(s, '$') < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '$' || !startsRef(s, i+1) {
			b.WriteByte(s[i])
			i++
			continue
		}
		end := scanName(s, i+1)
		b.WriteString(fn(s[i+1 : end]))
		i = end
	}
	return b.String()
}

// References returns the variable names referenced by s, in order of first
// appearance.
func References(s string) []string {
	var names []string
	seen := make(map[string]bool)
	replaceRefs(s, func(name string) string {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		return ""
	})
	return names
}
