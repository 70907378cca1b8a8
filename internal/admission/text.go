package admission

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Published program names carry duration and degree boilerplate around the branch name.
var programBoilerplate = regexp.MustCompile(`(?i)\(4 Years\)|Bachelor of Technology`)

// titleCase upper-cases the first letter of every word and lower-cases the rest.
// A Caser is stateful, so one is built per call.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// stripProgramBoilerplate removes the boilerplate and collapses the whitespace left behind.
func stripProgramBoilerplate(s string) string {
	return strings.Join(strings.Fields(programBoilerplate.ReplaceAllString(s, " ")), " ")
}

// programKey is the form program names are compared in.
func programKey(s string) string {
	return strings.ToLower(stripProgramBoilerplate(s))
}
