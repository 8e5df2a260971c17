package types

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// CanonicalTag turns a user-supplied category or difficulty into its stored
// form, so "technical", "TECHNICAL" and " Technical " all become "Technical".
func CanonicalTag(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	return titleCaser.String(strings.ToLower(s))
}
