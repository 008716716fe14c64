// Package htmlsanitize reduces user-supplied free text to plain text before
// it is stored.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every element and attribute. Safe for concurrent use.
var strict = bluemonday.StrictPolicy()

// PlainText strips all markup from s and trims surrounding space.
// Entities produced by the policy are decoded so "R&D" is stored as typed.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// PlainTextAll applies PlainText to each element and drops elements that
// end up empty. A nil input yields nil.
func PlainTextAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if v := PlainText(s); v != "" {
			out = append(out, v)
		}
	}
	return out
}
