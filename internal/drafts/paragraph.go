package drafts

import (
	"bytes"
	stdhtml "html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
)

const minParagraphRunes = 10

var (
	blankLineRe        = regexp.MustCompile(`\n\s*\n`)
	sentenceBoundaryRe = regexp.MustCompile(`[.!?]\s+[A-Z가-힣]`)
)

// splitParagraphs breaks plain text on blank lines and, within each block,
// at sentence ends followed by a capital letter or a Hangul syllable. Pieces
// of ten characters or fewer are dropped.
func splitParagraphs(text string) []string {
	var pieces []string
	for _, block := range blankLineRe.Split(text, -1) {
		for _, s := range splitSentences(block) {
			s = strings.TrimSpace(s)
			if utf8.RuneCountInString(s) > minParagraphRunes {
				pieces = append(pieces, s)
			}
		}
	}
	return pieces
}

func splitSentences(block string) []string {
	var out []string
	start := 0
	for _, loc := range sentenceBoundaryRe.FindAllStringIndex(block, -1) {
		// loc[0] is the punctuation; the next sentence starts at its first
		// letter, which is the last rune of the match.
		_, size := utf8.DecodeLastRuneInString(block[loc[0]:loc[1]])
		next := loc[1] - size
		out = append(out, block[start:loc[0]+1])
		start = next
	}
	return append(out, block[start:])
}

type paragraphRenderer struct {
	md goldmark.Markdown
}

func newParagraphRenderer() *paragraphRenderer {
	// Raw HTML in plain-text content is omitted by the default renderer.
	return &paragraphRenderer{md: goldmark.New()}
}

// paragraphs wraps each piece in <p>. With one piece or none, the whole text
// becomes a single paragraph.
func (r *paragraphRenderer) paragraphs(pieces []string, whole string) string {
	if len(pieces) <= 1 {
		return r.paragraph(strings.TrimSpace(whole))
	}
	var b strings.Builder
	for _, p := range pieces {
		b.WriteString(r.paragraph(p))
	}
	return b.String()
}

// paragraph renders light markdown inside a single <p>. Anything goldmark
// would turn into another block (headings, lists) falls back to a plain wrap.
func (r *paragraphRenderer) paragraph(text string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err == nil {
		out := strings.TrimSpace(buf.String())
		if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
			return out
		}
	}
	return "<p>" + stdhtml.EscapeString(text) + "</p>"
}
