package injection

import "regexp"

// Rule defines a prompt injection detection pattern.
type Rule struct {
	Name     string
	Regex    *regexp.Regexp
	Severity float64 // 0.0 to 1.0
	Category string  // "instruction_bypass", "role_override", "encoding_trick", "output_steering"
}

// DefaultRules returns the built-in injection detection rules.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "ignore_previous",
			Regex:    regexp.MustCompile(`(?i)ignore\s+(all\s+)?previous\s+instructions`),
			Severity: 0.95,
			Category: "instruction_bypass",
		},
		{
			Name:     "ignore_previous_ko",
			Regex:    regexp.MustCompile(`(이전|위의|앞의)\s*(의\s*)?(모든\s*)?(지시|지침|명령)(사항)?\s*(을|를)?\s*(모두\s*)?무시`),
			Severity: 0.95,
			Category: "instruction_bypass",
		},
		{
			Name:     "disregard_prior",
			Regex:    regexp.MustCompile(`(?i)disregard\s+(all\s+)?prior\s+(instructions|context|rules)`),
			Severity: 0.95,
			Category: "instruction_bypass",
		},
		{
			Name:     "jailbreak",
			Regex:    regexp.MustCompile(`(\bDAN\s+(mode|prompt)\b|(?i:do\s+anything\s+now|jailbreak\s+(mode|prompt)|unrestricted\s+mode)|탈옥\s*(모드|프롬프트))`),
			Severity: 0.9,
			Category: "role_override",
		},
		{
			Name:     "system_prefix",
			Regex:    regexp.MustCompile(`(?i)^\s*system\s*:\s*`),
			Severity: 0.85,
			Category: "role_override",
		},
		{
			Name:     "reveal_system_prompt",
			Regex:    regexp.MustCompile(`(?i)(system\s+prompt|시스템\s*프롬프트)`),
			Severity: 0.85,
			Category: "instruction_bypass",
		},
		{
			Name:     "developer_mode",
			Regex:    regexp.MustCompile(`(?i)(developer|debug|admin|root)\s+mode\s+(enabled|activated|on)`),
			Severity: 0.85,
			Category: "role_override",
		},
		{
			Name:     "base64_instruction",
			Regex:    regexp.MustCompile(`(?i)(decode|execute|follow)\s+(the\s+)?base64`),
			Severity: 0.85,
			Category: "encoding_trick",
		},
		{
			Name:     "new_instructions",
			Regex:    regexp.MustCompile(`(?i)(new|updated|revised)\s+instructions?\s*:`),
			Severity: 0.8,
			Category: "instruction_bypass",
		},
		{
			Name:     "format_override",
			Regex:    regexp.MustCompile(`(?i)(json\s*형식|응답\s*형식|출력\s*형식)\s*(을|를)?\s*(사용하지\s*마|바꿔)`),
			Severity: 0.75,
			Category: "output_steering",
		},
		{
			Name:     "draft_count_override",
			Regex:    regexp.MustCompile(`(초안|원고)\s*(을|를)?\s*\d+\s*(개|편)\s*(이상|넘게)`),
			Severity: 0.7,
			Category: "output_steering",
		},
		{
			Name:     "you_are_now",
			Regex:    regexp.MustCompile(`(?i)(you\s+are\s+now\s+(a|an|the)\s+|(너는|당신은)\s*이제(부터)?\s)`),
			Severity: 0.7,
			Category: "role_override",
		},
	}
}
