package parser

import (
	"regexp"
	"strings"
)

// fieldPattern pairs a title expression with its content counterpart.
type fieldPattern struct {
	title   *regexp.Regexp
	content *regexp.Regexp
}

// Ordered from strict quoted values to loose key:value text.
var fieldPatterns = []fieldPattern{
	{
		title:   regexp.MustCompile(`"title"\s*:\s*"([^"\\]*(?:\\.[^"\\]*)*)"`),
		content: regexp.MustCompile(`"content"\s*:\s*"([^"\\]*(?:\\.[^"\\]*)*)"`),
	},
	{
		title:   regexp.MustCompile(`"title"\s*:\s*"([^"]*?)"`),
		content: regexp.MustCompile(`"content"\s*:\s*"([\s\S]*?)"`),
	},
	{
		title:   regexp.MustCompile(`(?i)title['":\s]*([^'",}\]]+)`),
		content: regexp.MustCompile(`(?i)content['":\s]*((?:[^'"}]|}[^'",}])*)`),
	},
}

const maxCandidates = 3

var unescaper = strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\r`, "\r", `\"`, `"`, `\'`, "'", `\\`, `\`)

func cleanExtracted(s string) string {
	return strings.TrimSpace(unescaper.Replace(s))
}

func extractFields(text string) []Candidate {
	for _, p := range fieldPatterns {
		titles := p.title.FindAllStringSubmatch(text, -1)
		contents := p.content.FindAllStringSubmatch(text, -1)
		n := min(len(titles), len(contents), maxCandidates)

		var out []Candidate
		for i := 0; i < n; i++ {
			title := cleanExtracted(titles[i][1])
			content := cleanExtracted(contents[i][1])
			if title == "" || content == "" {
				continue
			}
			out = append(out, Candidate{"title": title, "content": content})
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

var (
	manualTitleRe   = regexp.MustCompile(`(?i)(?:title['":\s]*|"title"\s*:\s*["])([^"'\n]+)`)
	manualContentRe = regexp.MustCompile(`(?i)(?:content['":\s]*|"content"\s*:\s*["])([^"'\n]*)`)
	edgeQuotesRe    = regexp.MustCompile(`^['"]+|['"]+$`)
	edgeCommasRe    = regexp.MustCompile(`^[,\s]+|[,\s]+$`)
	structuralRe    = regexp.MustCompile(`^[{}\[\],]*$`)
)

type manualDraft struct {
	title   string
	content []string
}

func (d *manualDraft) candidate() Candidate {
	return Candidate{"title": d.title, "content": strings.Join(d.content, " ")}
}

// parseManual walks the text line by line, treating any line that mentions
// title as the start of a draft and collecting content lines after it.
func parseManual(text string) []Candidate {
	var (
		out        []Candidate
		current    *manualDraft
		collecting bool
	)
	flush := func() {
		if current != nil && len(current.content) > 0 {
			out = append(out, current.candidate())
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		if strings.Contains(lower, "title") && strings.ContainsAny(line, ":=") {
			flush()
			current = &manualDraft{}
			if m := manualTitleRe.FindStringSubmatch(line); m != nil {
				current.title = strings.TrimSpace(m[1])
			}
			collecting = false
			continue
		}

		if strings.Contains(lower, "content") && current != nil {
			collecting = true
			if m := manualContentRe.FindStringSubmatch(line); m != nil {
				if c := strings.TrimSpace(m[1]); c != "" {
					current.content = append(current.content, c)
				}
			}
			continue
		}

		if !collecting || current == nil {
			continue
		}
		if strings.ContainsAny(line, "}]") || strings.Contains(lower, "title") {
			collecting = false
			continue
		}
		line = edgeQuotesRe.ReplaceAllString(line, "")
		line = edgeCommasRe.ReplaceAllString(line, "")
		if line != "" && !structuralRe.MatchString(line) {
			current.content = append(current.content, line)
		}
	}
	flush()

	if len(out) > maxCandidates {
		out = out[:maxCandidates]
	}
	return out
}
