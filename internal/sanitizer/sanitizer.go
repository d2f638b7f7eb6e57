package sanitizer

import (
	"regexp"
	"strings"
)

// DataSanitizer вычищает персональные данные и секреты из отчетов
// перед сохранением и отправкой в LLM.
type DataSanitizer struct {
	rules []SanitizerRule
}

type SanitizerRule interface {
	Sanitize(text string) string
}

func New() *DataSanitizer {
	return &DataSanitizer{
		rules: []SanitizerRule{
			filledSecretRule,
			passwordRule,
			tokenRule,
			cookieRule,
			cardRule,
			apiKeyRule,
			emailRule,
			phoneRule,
			addressRule,
		},
	}
}

// With добавляет правила после стандартных.
func (s *DataSanitizer) With(rules ...SanitizerRule) *DataSanitizer {
	out := &DataSanitizer{rules: make([]SanitizerRule, 0, len(s.rules)+len(rules))}
	out.rules = append(out.rules, s.rules...)
	out.rules = append(out.rules, rules...)
	return out
}

func (s *DataSanitizer) Sanitize(text string) string {
	if text == "" {
		return text
	}

	result := text
	for _, rule := range s.rules {
		result = rule.Sanitize(result)
	}

	return result
}

func (s *DataSanitizer) SanitizeValue(value string) string {
	if value == "" {
		return value
	}

	if len(value) > 50 {
		return s.Sanitize(value)
	}

	if looksLikeSensitiveData(value) {
		return "[FILTERED]"
	}

	return s.Sanitize(value)
}

// SanitizeValues возвращает копию значений формы, пригодную для логов.
// Значение под ключом вроде "password" скрывается целиком.
func (s *DataSanitizer) SanitizeValues(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if looksLikeSensitiveData(k) {
			out[k] = "[FILTERED]"
			continue
		}
		out[k] = s.SanitizeValue(v)
	}
	return out
}

var opaqueTokenRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func looksLikeSensitiveData(value string) bool {
	lower := strings.ToLower(value)

	sensitivePatterns := []string{
		"password", "пароль", "token", "api", "secret",
		"card", "cvv", "cvc", "expir", "session",
	}

	for _, pattern := range sensitivePatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}

	return len(value) > 20 && opaqueTokenRe.MatchString(value)
}
