package validate

import (
	"regexp"
	"strings"
)

var (
	angleBrackets = regexp.MustCompile(`[<>]`)
	quoteChars    = regexp.MustCompile("[\"'`]")
	headingMarker = regexp.MustCompile(`(^|\n)\s*#`)
	listMarker    = regexp.MustCompile(`(^|\n)\s*-`)
	braces        = regexp.MustCompile(`[{}]`)
)

// Sanitize strips markup, quotes, line-leading heading/list markers,
// backslashes and braces, in that order, then trims.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	s = angleBrackets.ReplaceAllString(s, "")
	s = quoteChars.ReplaceAllString(s, "")
	s = headingMarker.ReplaceAllString(s, "$1")
	s = listMarker.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, `\`, "")
	s = braces.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
