// Package validate checks inbound generation requests and strips their
// free-text fields of characters that could corrupt the prompt.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/af-corp/draftgen/internal/types"
	"github.com/go-playground/validator/v10"
)

// ValidationError lists every constraint a request violated.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "입력 검증 실패: " + strings.Join(e.Violations, " ")
}

var instance = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, ok := types.LookupCategory(fl.Field().String())
		return ok
	})
	v.RegisterStructValidation(subCategoryRule, types.GenerationRequest{})
	return v
})

// subCategoryRule checks the subcategory against the effective category.
// An invalid category is reported by its own tag, so it is skipped here.
func subCategoryRule(sl validator.StructLevel) {
	req := sl.Current().Interface().(types.GenerationRequest)
	if req.SubCategory == "" {
		return
	}
	name := req.Category
	if name == "" {
		name = types.DefaultCategory
	}
	c, ok := types.LookupCategory(name)
	if !ok {
		return
	}
	if !c.HasSubCategory(req.SubCategory) {
		sl.ReportError(req.SubCategory, "SubCategory", "subCategory", "subcategory", name)
	}
}

// Validate checks req and returns its sanitized form. The input is not modified.
func Validate(req types.GenerationRequest) (*types.SanitizedRequest, error) {
	if err := instance().Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("validate request: %w", err)
		}
		return nil, &ValidationError{Violations: violations(fieldErrs)}
	}

	category := req.Category
	if category == "" {
		category = types.DefaultCategory
	}

	return &types.SanitizedRequest{
		RequestID: req.RequestID,
		CallerID:  req.CallerID,
		Profile: types.WriterProfile{
			Name:              Sanitize(req.Profile.Name),
			Position:          Sanitize(req.Profile.Position),
			RegionMetro:       Sanitize(req.Profile.RegionMetro),
			RegionLocal:       Sanitize(req.Profile.RegionLocal),
			ElectoralDistrict: Sanitize(req.Profile.ElectoralDistrict),
		},
		Prompt:      Sanitize(req.Prompt),
		Keywords:    Sanitize(req.Keywords),
		Category:    Sanitize(category),
		SubCategory: Sanitize(req.SubCategory),
		RiskLevel:   types.RiskLow,
		RequestedAt: time.Now(),
	}, nil
}

// violations turns field errors into caller-facing messages, one per field.
func violations(errs validator.ValidationErrors) []string {
	seen := make(map[string]bool)
	var out []string
	for _, fe := range errs {
		field := strings.TrimPrefix(fe.StructNamespace(), "GenerationRequest.")
		if seen[field] {
			continue
		}
		seen[field] = true
		out = append(out, message(field, fe))
	}
	return out
}

func message(field string, fe validator.FieldError) string {
	switch field {
	case "Profile.Name":
		return "이름은 필수이며 50자를 초과할 수 없습니다."
	case "Profile.Position":
		return "직책은 필수이며 100자를 초과할 수 없습니다."
	case "Profile.RegionMetro":
		return "광역시/도는 필수이며 50자를 초과할 수 없습니다."
	case "Profile.RegionLocal":
		return "시/군/구는 50자를 초과할 수 없습니다."
	case "Profile.ElectoralDistrict":
		return "선거구는 100자를 초과할 수 없습니다."
	case "Prompt":
		if fe.Tag() == "required" {
			return "주제는 필수입니다."
		}
		return "주제는 5자 이상 500자 이하여야 합니다."
	case "Keywords":
		return "키워드는 200자를 초과할 수 없습니다."
	case "Category":
		return "유효하지 않은 카테고리입니다. 허용된 카테고리: " + strings.Join(types.CategoryNames(), ", ")
	case "SubCategory":
		return fmt.Sprintf("'%s' 카테고리에서 유효하지 않은 세부 카테고리입니다.", fe.Param())
	default:
		return fmt.Sprintf("%s 값이 올바르지 않습니다.", field)
	}
}
