package formkit

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	delimiters    = regexp.MustCompile(`[_\-\s]+`)
)

// Humanize turns a snake_case, kebab-case or camelCase identifier into a
// title-cased label: "first_name", "first-name" and "firstName" all become
// "First Name". Letters after the first of each word keep their case.
func Humanize(s string) string {
	s = camelBoundary.ReplaceAllString(s, "$1 $2")
	s = strings.TrimSpace(delimiters.ReplaceAllString(s, " "))
	if s == "" {
		return ""
	}
	return cases.Title(language.Und, cases.NoLower).String(s)
}
