package types

import "testing"

func TestLookupCategory(t *testing.T) {
	for _, name := range []string{"의정활동", "지역활동", "정책/비전", "보도자료", "일반"} {
		if _, ok := LookupCategory(name); !ok {
			t.Errorf("expected category %q to exist", name)
		}
	}
	if _, ok := LookupCategory("스포츠"); ok {
		t.Error("expected unknown category to be rejected")
	}
}

func TestCategory_HasSubCategory(t *testing.T) {
	c, _ := LookupCategory("지역활동")
	if !c.HasSubCategory("현장방문") {
		t.Error("expected 현장방문 to belong to 지역활동")
	}
	if c.HasSubCategory("국정감사") {
		t.Error("expected 국정감사 not to belong to 지역활동")
	}
}

func TestCategory_RenderBrief(t *testing.T) {
	c, _ := LookupCategory("지역활동")
	b := c.RenderBrief("부산시 해운대구")
	want := "부산시 해운대구 주민들과의 유대감을 강화하고, 지역 현안 해결을 위한 노력을 진정성 있게 보여줍니다."
	if b.Goal != want {
		t.Errorf("Goal = %q, want %q", b.Goal, want)
	}
}

func TestCategoryOrDefault(t *testing.T) {
	if got := CategoryOrDefault("").Name; got != DefaultCategory {
		t.Errorf("expected default category, got %q", got)
	}
	if got := CategoryOrDefault("보도자료").MinLength; got != 600 {
		t.Errorf("expected 보도자료 min length 600, got %d", got)
	}
}

func TestCategories_IsCopy(t *testing.T) {
	cs := Categories()
	cs[0].Name = "changed"
	if CategoryNames()[0] != "의정활동" {
		t.Error("mutating Categories() result must not affect the table")
	}
}

func TestWriterProfile_Region(t *testing.T) {
	p := WriterProfile{RegionMetro: "서울시", RegionLocal: "강남구", ElectoralDistrict: "강남갑"}
	if got := p.Region(); got != "서울시 강남구" {
		t.Errorf("Region() = %q", got)
	}
	if got := p.FullRegion(); got != "서울시 강남구 강남갑" {
		t.Errorf("FullRegion() = %q", got)
	}

	p = WriterProfile{RegionMetro: "세종시"}
	if got := p.FullRegion(); got != "세종시" {
		t.Errorf("FullRegion() without local/district = %q", got)
	}
}
