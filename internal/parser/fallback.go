package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// EmergencyTitle names the single draft built from unstructured text.
const EmergencyTitle = "AI 생성 원고"

const (
	minSectionLen   = 50
	maxTitleRunes   = 100
	maxContentRunes = 500
	maxWholeRunes   = 1500
)

var draftMarkerRe = regexp.MustCompile(`(?i)(?:초안|draft)\s*[0-9]+`)

// fallback salvages drafts from prose. Any non-blank text yields at least
// one candidate.
func fallback(text string) []Candidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var sections []string
	for _, s := range draftMarkerRe.Split(text, -1) {
		if runeLen(strings.TrimSpace(s)) > minSectionLen {
			sections = append(sections, s)
		}
	}

	if len(sections) == 0 {
		body := strings.ReplaceAll(truncateRunes(text, maxWholeRunes), "\n", "</p><p>")
		return []Candidate{{"title": EmergencyTitle, "content": "<p>" + body + "</p>"}}
	}

	var out []Candidate
	for _, s := range sections {
		if len(out) == maxCandidates {
			break
		}
		out = append(out, sectionCandidate(s, len(out)+1))
	}
	return out
}

func sectionCandidate(section string, n int) Candidate {
	var lines []string
	for _, l := range strings.Split(section, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}

	title := fmt.Sprintf("초안 %d", n)
	if len(lines) > 0 {
		if t := strings.TrimSpace(truncateRunes(lines[0], maxTitleRunes)); t != "" {
			title = t
		}
	}

	content := truncateRunes(section, maxContentRunes)
	if len(lines) > 1 {
		content = strings.Join(lines[1:], " ")
	}
	return Candidate{"title": title, "content": "<p>" + content + "</p>"}
}

func runeLen(s string) int {
	return len([]rune(s))
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
