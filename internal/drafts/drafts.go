// Package drafts turns parser candidates into the drafts returned to callers.
package drafts

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/af-corp/draftgen/internal/parser"
	"github.com/af-corp/draftgen/internal/types"
)

// ErrEmptyResult is returned when every candidate was discarded.
var ErrEmptyResult = errors.New("no usable drafts after validation")

const (
	maxDrafts     = 3
	maxTitleRunes = 200
)

var (
	titleKeys   = []string{"title", "제목", "name"}
	contentKeys = []string{"content", "내용", "text"}
	tagRe       = regexp.MustCompile(`<[^>]*>`)
)

// RiskScanner tags finished content with a risk level.
type RiskScanner interface {
	Risk(content string) types.RiskLevel
}

// Normalizer validates and cleans parser candidates.
type Normalizer struct {
	scanner  RiskScanner
	renderer *paragraphRenderer
}

func NewNormalizer(scanner RiskScanner) *Normalizer {
	return &Normalizer{scanner: scanner, renderer: newParagraphRenderer()}
}

// Normalize keeps at most three candidates with content, fills in missing
// titles and wraps plain text in paragraph markup.
func (n *Normalizer) Normalize(candidates []parser.Candidate, category string) ([]types.Draft, error) {
	cat := types.CategoryOrDefault(category)

	var out []types.Draft
	for i, c := range candidates {
		if i == maxDrafts {
			break
		}

		content := strings.TrimSpace(field(c, contentKeys))
		if content == "" {
			continue
		}
		title := strings.TrimSpace(truncateRunes(field(c, titleKeys), maxTitleRunes))
		if title == "" {
			title = fmt.Sprintf("초안 %d", i+1)
		}

		if !hasBlockMarkup(content) {
			content = n.renderer.paragraphs(splitParagraphs(content), content)
		}

		d := types.Draft{
			Title:     title,
			Content:   content,
			RiskLevel: n.scanner.Risk(content),
			WordCount: WordCount(content),
			Category:  cat.Name,
		}
		if d.WordCount < cat.MinLength {
			slog.Warn("draft shorter than category minimum",
				"category", cat.Name,
				"draft", i+1,
				"length", d.WordCount,
				"min_length", cat.MinLength,
			)
		}
		out = append(out, d)
	}

	if len(out) == 0 {
		return nil, ErrEmptyResult
	}
	return out, nil
}

// WordCount is the character length of content with markup removed.
func WordCount(content string) int {
	return utf8.RuneCountInString(tagRe.ReplaceAllString(content, ""))
}

func field(c parser.Candidate, keys []string) string {
	for _, k := range keys {
		v, ok := c[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = t
		default:
			s = fmt.Sprint(t)
		}
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func hasBlockMarkup(content string) bool {
	return strings.Contains(content, "<p>") || strings.Contains(content, "<div>")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
