// Package prompt renders a sanitized request into the instruction text sent
// to the model. Rendering is pure: the same request always yields the same
// bytes, because the writing date comes from the request itself.
package prompt

import (
	"strings"
	"text/template"

	"github.com/af-corp/draftgen/internal/types"
)

// Exemplar is the output shape the model is asked to reproduce exactly.
const Exemplar = `[
  {
    "title": "첫 번째 초안의 제목",
    "content": "<p>첫 번째 문단입니다.</p><p>두 번째 문단입니다.</p>"
  },
  {
    "title": "두 번째 초안의 제목",
    "content": "<p>첫 번째 문단입니다.</p><p>두 번째 문단입니다.</p>"
  },
  {
    "title": "세 번째 초안의 제목",
    "content": "<p>첫 번째 문단입니다.</p><p>두 번째 문단입니다.</p>"
  }
]`

const dateLayout = "2006. 1. 2."

var tmpl = template.Must(template.New("prompt").Parse(`# AI 비서관 역할
당신은 정치인의 전문 비서관입니다.

## 작성자 정보
이름: {{.Name}}
직책: {{.Position}}
지역: {{.Region}}
선거구: {{.District}}
작성일: {{.Date}}

## 중요한 지역 맥락 지침
- 반드시 '{{.Greeting}}'로 시작하세요
- {{.Region}} 외의 다른 지역명은 절대 언급하지 마세요
- {{.Region}} 지역의 구체적인 현안과 특성을 반영하세요
{{if .District}}- {{.District}} 선거구 맥락에 맞는 내용으로 작성하세요
{{else}}- 해당 지역구 맥락에 맞는 내용으로 작성하세요
{{end}}{{if .Local}}- '우리 지역', '우리 {{.Local}}' 등의 표현을 자주 사용하세요
{{else}}- '우리 지역' 등의 표현을 자주 사용하세요
{{end}}
## 작성 요청
주제: {{.Topic}}
키워드: {{.Keywords}}
카테고리: {{.CategoryLabel}}

## 작성 가이드라인 ({{.CategoryLabel}})
- 작성 목표: {{.Brief.Goal}}
- 핵심 내용: {{if .SubCategory}}{{.SubCategory}}에 초점을 맞춰, {{end}}{{.Brief.Content}}
- 톤앤매너: {{.Brief.Tone}}
- 지역 특화: 반드시 {{.Region}} 지역구 맥락을 반영하여 작성하세요

## 작성 요구사항
- 블로그 원고 초안 3개를 작성하세요
- 각 초안은 1500자 이상으로 작성하세요
- 각 문단을 <p> 태그로 감싸서 HTML 형식으로 작성하세요
- 제목은 흥미롭고 클릭하고 싶게 만드세요
- 첫 문장은 반드시 "{{.Greeting}}"로 시작하세요
- {{.Region}} 외의 다른 지역 언급 절대 금지

## 중요한 JSON 형식 지침
- 반드시 아래 정확한 JSON 형식으로만 응답하세요
- 다른 설명이나 텍스트는 절대 포함하지 마세요
- JSON 외부에 어떤 텍스트도 쓰지 마세요
- 백슬래시(\)는 사용하지 마세요
- 따옴표 안에서 따옴표가 필요하면 작은따옴표(')를 사용하세요

## 응답 형식 (정확히 이대로)
{{.Exemplar}}

지금 시작하세요:`))

type data struct {
	Name          string
	Position      string
	Region        string
	District      string
	Local         string
	Date          string
	Greeting      string
	Topic         string
	Keywords      string
	CategoryLabel string
	SubCategory   string
	Brief         types.Brief
	Exemplar      string
}

// Greeting is the sentence every draft must open with.
func Greeting(p types.WriterProfile) string {
	return p.Region() + " 주민 여러분 안녕하세요"
}

// Build renders the prompt for req.
func Build(req *types.SanitizedRequest) string {
	category := types.CategoryOrDefault(req.Category)
	region := req.Profile.Region()

	label := category.Name
	if req.SubCategory != "" {
		label += " > " + req.SubCategory
	}
	keywords := req.Keywords
	if keywords == "" {
		keywords = "없음"
	}

	var b strings.Builder
	// Execution can only fail on writer errors, which strings.Builder never returns.
	_ = tmpl.Execute(&b, data{
		Name:          req.Profile.Name,
		Position:      req.Profile.Position,
		Region:        region,
		District:      req.Profile.ElectoralDistrict,
		Local:         req.Profile.RegionLocal,
		Date:          req.RequestedAt.Format(dateLayout),
		Greeting:      Greeting(req.Profile),
		Topic:         req.Prompt,
		Keywords:      keywords,
		CategoryLabel: label,
		SubCategory:   req.SubCategory,
		Brief:         category.RenderBrief(region),
		Exemplar:      Exemplar,
	})
	return b.String()
}
