// Package render implements the flat %%name%% placeholder substitution used
// by snippet templates. It is intentionally not a templating language: no
// conditionals, no loops, just field lookup.
package render

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// placeholderPattern matches well-formed %%name%% tokens only. Unterminated
// or malformed %% regions never match and pass through as literal text, and
// matching cannot span across unrelated %% pairs because the name class
// excludes the marker characters.
var placeholderPattern = regexp.MustCompile(`%%([a-zA-Z0-9_]+)%%`)

// Render substitutes every placeholder token in tmpl with the matching
// field value. Lookup prefers a key with the placeholder's exact case and
// falls back to a case-insensitive match; a name with no match under either
// rule becomes the empty string, never the literal token.
//
// Render is a pure function: it never mutates fields and identical inputs
// always produce identical output.
func Render(tmpl string, fields map[string]any) string {
	var folded map[string]any
	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(token string) string {
		name := token[2 : len(token)-2]
		if v, ok := fields[name]; ok {
			return displayText(v)
		}
		if folded == nil {
			folded = foldKeys(fields)
		}
		if v, ok := folded[strings.ToLower(name)]; ok {
			return displayText(v)
		}
		return ""
	})
}

// foldKeys builds the lowercased-key index for case-insensitive fallback.
// Keys are visited in sorted order so a mapping that (unusually) contains
// two keys differing only in case still resolves deterministically.
func foldKeys(fields map[string]any) map[string]any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	folded := make(map[string]any, len(fields))
	for _, k := range keys {
		lk := strings.ToLower(k)
		if _, exists := folded[lk]; !exists {
			folded[lk] = fields[k]
		}
	}
	return folded
}

// displayText converts a field value to its substitution text. Database
// rows carry strings, but callers may also supply numeric values directly
// (prices, ids), which render in their decimal form.
func displayText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}
