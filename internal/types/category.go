package types

import (
	"slices"
	"strings"
)

// DefaultCategory is used when a request names no category.
const DefaultCategory = "일반"

// Brief is the category-specific writing guidance rendered into the prompt.
// "{region}" in any field is replaced by the writer's region.
type Brief struct {
	Goal    string
	Content string
	Tone    string
}

// Category is one entry of the fixed category table.
type Category struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	SubCategories []string `json:"subCategories"`
	MinLength     int      `json:"minLength"`
	Brief         Brief    `json:"-"`
}

// HasSubCategory reports whether sub is allowed for the category.
func (c Category) HasSubCategory(sub string) bool {
	return slices.Contains(c.SubCategories, sub)
}

// RenderBrief returns the brief with the region substituted.
func (c Category) RenderBrief(region string) Brief {
	r := strings.NewReplacer("{region}", region)
	return Brief{
		Goal:    r.Replace(c.Brief.Goal),
		Content: r.Replace(c.Brief.Content),
		Tone:    r.Replace(c.Brief.Tone),
	}
}

var categories = []Category{
	{
		Name:          "의정활동",
		Description:   "국회 내 공식 활동을 전문적으로 전달하는 글",
		SubCategories: []string{"국정감사", "법안발의", "질의응답", "위원회활동", "예산심사", "정책토론"},
		MinLength:     1000,
		Brief: Brief{
			Goal:    "국회 내에서의 공식적인 활동을 전문적이고 신뢰도 높게 전달합니다.",
			Content: "활동의 구체적인 내용, 법적 근거, 그리고 {region} 주민들에게 미치는 긍정적인 영향을 명확히 서술해야 합니다.",
			Tone:    "객관적이고 논리적인 어조를 유지하며, 전문 용어는 쉽게 풀어서 설명해주세요.",
		},
	},
	{
		Name:          "지역활동",
		Description:   "지역구 주민과의 소통을 위한 따뜻한 글",
		SubCategories: []string{"현장방문", "주민간담회", "지역현안", "봉사활동", "상권점검", "민원해결"},
		MinLength:     800,
		Brief: Brief{
			Goal:    "{region} 주민들과의 유대감을 강화하고, 지역 현안 해결을 위한 노력을 진정성 있게 보여줍니다.",
			Content: "{region} 주민들의 목소리를 직접 반영하고, 구체적인 활동 내용과 향후 계획을 공유하여 신뢰를 얻어야 합니다.",
			Tone:    "따뜻하고 친근한 어조를 사용하되, 문제 해결에 대한 의지를 단호하게 보여주세요.",
		},
	},
	{
		Name:          "정책/비전",
		Description:   "정책적 전문성과 비전을 보여주는 깊이 있는 글",
		SubCategories: []string{"경제정책", "사회복지", "교육정책", "환경정책", "디지털정책", "청년정책"},
		MinLength:     1200,
		Brief: Brief{
			Goal:    "의원의 정책적 전문성과 {region} 지역 발전에 대한 깊은 고민을 보여주며, 정책 리더로서의 이미지를 구축합니다.",
			Content: "{region} 지역의 사회 문제에 대한 날카로운 분석과 함께, 실현 가능한 대안과 장기적인 비전을 제시해야 합니다.",
			Tone:    "예리하고 통찰력 있는 어조를 사용하며, 데이터나 근거를 바탕으로 주장을 뒷받침해주세요.",
		},
	},
	{
		Name:          "보도자료",
		Description:   "언론 배포를 위한 간결하고 명확한 공식 문서",
		SubCategories: []string{"성명서", "논평", "제안서", "건의문", "발표문", "입장문"},
		MinLength:     600,
		Brief: Brief{
			Goal:    "언론을 통해 {region} 지역구 의원의 공식 입장을 명확하고 간결하게 전달합니다.",
			Content: "육하원칙에 따라 사실 관계를 정확히 전달해야 하며, 제목은 핵심 내용을 함축적으로 보여줘야 합니다.",
			Tone:    "간결하고 명료한 문체를 사용하여, 오해의 소지가 없도록 작성해야 합니다.",
		},
	},
	{
		Name:          "일반",
		Description:   "일상적인 소통과 인사를 위한 친근한 글",
		SubCategories: []string{"일상소통", "감사인사", "축하메시지", "격려글", "교육컨텐츠"},
		MinLength:     600,
		Brief: Brief{
			Goal:    "{region} 주민들이 흥미를 느끼고 쉽게 이해할 수 있는 블로그 게시물을 작성합니다.",
			Content: "서론, 본론, 결론의 구조를 갖추고, 논리적인 흐름에 따라 내용을 전개해주세요.",
			Tone:    "대중 친화적이고 설득력 있는 어조를 사용해주세요.",
		},
	},
}

// Categories returns the category table in display order.
func Categories() []Category {
	return slices.Clone(categories)
}

// CategoryNames returns the valid category names in display order.
func CategoryNames() []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names
}

// LookupCategory finds a category by name.
func LookupCategory(name string) (Category, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryOrDefault returns the named category, falling back to DefaultCategory.
func CategoryOrDefault(name string) Category {
	if c, ok := LookupCategory(name); ok {
		return c
	}
	c, _ := LookupCategory(DefaultCategory)
	return c
}
