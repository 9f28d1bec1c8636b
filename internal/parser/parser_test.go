package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/af-corp/draftgen/internal/prompt"
)

func titles(cs []Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i], _ = c["title"].(string)
	}
	return out
}

func TestParse_Exemplar(t *testing.T) {
	res, err := Parse(prompt.Exemplar)
	require.NoError(t, err)
	assert.Equal(t, StrategyStrict, res.Strategy)
	assert.Equal(t, []string{"첫 번째 초안의 제목", "두 번째 초안의 제목", "세 번째 초안의 제목"}, titles(res.Candidates))
}

func TestParse_StrictIgnoresSurroundingProse(t *testing.T) {
	text := "Here are your drafts:\n```json\n[{\"title\":\"A\",\"content\":\"<p>x</p>\"}]\n```\nHope this helps!"
	res, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, StrategyStrict, res.Strategy)
	assert.Equal(t, []string{"A"}, titles(res.Candidates))
}

func TestParse_StrictWrapsObject(t *testing.T) {
	res, err := Parse(`{"title":"single","content":"<p>only</p>"}`)
	require.NoError(t, err)
	assert.Equal(t, StrategyStrict, res.Strategy)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "<p>only</p>", res.Candidates[0]["content"])
}

func TestParse_StrictWinsBeforeLaterStrategies(t *testing.T) {
	var called []string
	record := func(name string, out []Candidate) Strategy {
		return Strategy{Name: name, Fn: func(string) []Candidate {
			called = append(called, name)
			return out
		}}
	}
	strategies := []Strategy{
		{Name: StrategyStrict, Fn: func(text string) []Candidate {
			called = append(called, StrategyStrict)
			return parseStrict(text)
		}},
		record(StrategyCleaned, nil),
		record(StrategyFallback, nil),
	}

	res, err := Run(strategies, prompt.Exemplar)
	require.NoError(t, err)
	assert.Equal(t, StrategyStrict, res.Strategy)
	assert.Equal(t, []string{StrategyStrict}, called)
}

func TestParse_CleanedRepairsCommonDamage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "smart quotes",
			text: `[{“title”: “스마트 따옴표”, “content”: “<p>본문</p>”}]`,
			want: "<p>본문</p>",
		},
		{
			name: "trailing comma",
			text: `[{"title": "쉼표", "content": "<p>본문</p>",},]`,
			want: "<p>본문</p>",
		},
		{
			name: "raw newline in string",
			text: "[{\"title\": \"줄바꿈\", \"content\": \"<p>첫 줄</p>\n<p>둘째 줄</p>\"}]",
			want: "<p>첫 줄</p>\n<p>둘째 줄</p>",
		},
		{
			name: "invalid escape",
			text: `[{"title": "역슬래시", "content": "<p>100\% 확신</p>"}]`,
			want: "<p>100% 확신</p>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, StrategyCleaned, res.Strategy)
			require.Len(t, res.Candidates, 1)
			assert.Equal(t, tt.want, res.Candidates[0]["content"])
		})
	}
}

func TestParse_FieldsFromTruncatedJSON(t *testing.T) {
	text := `[{"title": "첫째", "content": "<p>하나</p>"}, {"title": "둘째", "content": "<p>둘</p>"}, {"title": "셋째", "content": "<p>셋`
	res, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, StrategyFields, res.Strategy)
	assert.Equal(t, []string{"첫째", "둘째"}, titles(res.Candidates))
}

func TestParseManual(t *testing.T) {
	text := strings.Join([]string{
		"title: 주민과 함께한 하루",
		"content:",
		`"오늘은 주민 여러분과 함께했습니다"`,
		"'감사합니다'",
		"",
		"title: 두 번째 이야기",
		"content: 새로운 소식을 전합니다",
		"}",
		"ignored trailing line",
	}, "\n")

	got := parseManual(text)
	require.Len(t, got, 2)
	assert.Equal(t, "주민과 함께한 하루", got[0]["title"])
	assert.Equal(t, "오늘은 주민 여러분과 함께했습니다 감사합니다", got[0]["content"])
	assert.Equal(t, "두 번째 이야기", got[1]["title"])
	assert.Equal(t, "새로운 소식을 전합니다", got[1]["content"])
}

func TestParseManual_SkipsDraftWithoutContent(t *testing.T) {
	got := parseManual("title: 제목만 있음\ntitle: 두 번째\ncontent: 본문")
	require.Len(t, got, 1)
	assert.Equal(t, "두 번째", got[0]["title"])
}

func TestParse_FallbackSections(t *testing.T) {
	text := "초안 1\n지역 도서관이 새롭게 문을 열었습니다\n많은 주민분들이 찾아주셨고 앞으로도 다양한 프로그램을 운영할 예정입니다.\n" +
		"초안 2\n도서관 개관 소식\n우리 지역의 문화 공간이 한층 풍성해졌습니다. 앞으로도 주민 여러분의 의견을 듣겠습니다."
	res, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, StrategyFallback, res.Strategy)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "지역 도서관이 새롭게 문을 열었습니다", res.Candidates[0]["title"])
	assert.True(t, strings.HasPrefix(res.Candidates[0]["content"].(string), "<p>많은 주민분들이"))
	assert.Equal(t, "도서관 개관 소식", res.Candidates[1]["title"])
}

func TestParse_FallbackEmergencyDraft(t *testing.T) {
	res, err := Parse("Sorry, I cannot process this request")
	require.NoError(t, err)
	assert.Equal(t, StrategyFallback, res.Strategy)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, EmergencyTitle, res.Candidates[0]["title"])
	assert.Equal(t, "<p>Sorry, I cannot process this request</p>", res.Candidates[0]["content"])
}

func TestParse_FallbackCapsLongProse(t *testing.T) {
	text := strings.Repeat("가", 2000)
	res, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	// A single long line becomes one section: first line is the title,
	// content is the first 500 runes.
	assert.Equal(t, strings.Repeat("가", 100), res.Candidates[0]["title"])
	assert.Equal(t, "<p>"+strings.Repeat("가", 500)+"</p>", res.Candidates[0]["content"])
}

func TestParse_ProseAlwaysYieldsDraft(t *testing.T) {
	inputs := []string{
		"No.",
		"The assistant was unable to follow the requested format this time, apologies for that.",
		"line one\nline two\nline three",
	}
	for _, in := range inputs {
		res, err := Parse(in)
		require.NoError(t, err, in)
		require.NotEmpty(t, res.Candidates, in)
		for _, c := range res.Candidates {
			assert.NotEmpty(t, c["title"])
			assert.NotEmpty(t, c["content"])
		}
	}
}

func TestParse_EmptyFails(t *testing.T) {
	_, err := Parse("   \n  ")
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestRepair(t *testing.T) {
	in := "[{\"title\": \"a\",\n \"content\": \"x\ny\",}]"
	assert.Equal(t, "[{\"title\": \"a\",\n \"content\": \"x\\ny\"}]", Repair(in))
}
