package parser

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// jsonSpan isolates the part of text that should hold the JSON array: the
// fenced block when present, then the outermost brackets.
func jsonSpan(text string) string {
	s := strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	start := strings.IndexByte(s, '[')
	end := strings.LastIndexByte(s, ']')
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

func decode(s string) []Candidate {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case []any:
		out := make([]Candidate, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, Candidate(m))
			}
		}
		return out
	case map[string]any:
		return []Candidate{Candidate(t)}
	}
	return nil
}

func parseStrict(text string) []Candidate {
	return decode(jsonSpan(text))
}

func parseCleaned(text string) []Candidate {
	return decode(Repair(jsonSpan(text)))
}

var (
	smartQuotes       = strings.NewReplacer("“", `"`, "”", `"`, "‘", "'", "’", "'")
	backslashSpaceRe  = regexp.MustCompile(`\\\s+`)
	invalidEscapeRe   = regexp.MustCompile(`\\([^"\\/bfnrtu])`)
	trailingCommaRe   = regexp.MustCompile(`,\s*([}\]])`)
	doubleBackslashRe = regexp.MustCompile(`\\\\`)
)

// Repair applies the common fixes for almost-JSON model output, in order.
func Repair(s string) string {
	s = smartQuotes.Replace(s)
	s = backslashSpaceRe.ReplaceAllString(s, " ")
	s = invalidEscapeRe.ReplaceAllString(s, "$1")
	s = escapeControlInStrings(s)
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = doubleBackslashRe.ReplaceAllString(s, `\`)
	return s
}

// escapeControlInStrings escapes raw newlines, tabs and carriage returns that
// appear inside string literals. Whitespace between tokens is left alone.
func escapeControlInStrings(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString, escaped := false, false
	for _, r := range s {
		if !inString {
			if r == '"' {
				inString = true
			}
			b.WriteRune(r)
			continue
		}
		switch {
		case escaped:
			escaped = false
			b.WriteRune(r)
		case r == '\\':
			escaped = true
			b.WriteRune(r)
		case r == '"':
			inString = false
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
