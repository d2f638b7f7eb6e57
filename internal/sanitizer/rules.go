package sanitizer

import "regexp"

// regexRule заменяет все совпадения каждого шаблона на replacement.
type regexRule struct {
	name        string
	patterns    []*regexp.Regexp
	replacement string
}

func (r *regexRule) Name() string { return r.name }

func (r *regexRule) Sanitize(text string) string {
	for _, p := range r.patterns {
		text = p.ReplaceAllString(text, r.replacement)
	}
	return text
}

func rule(name, replacement string, patterns ...string) *regexRule {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return &regexRule{name: name, patterns: compiled, replacement: replacement}
}

// Значения, которые движок вписал в поля пароля, видны в журнале как есть.
var filledSecretRule = rule("filled-secret", `${1}[FILTERED]${2}`,
	`(?i)(Filled input \((?:password|hidden)\) with ')[^']*(')`,
)

var passwordRule = rule("password", `${1}: [FILTERED]`,
	`(?i)(password|пароль)\s*[:=]\s*["']?([^"'\s]{3,})["']?`,
	`(?i)(passwd|pwd)\s*[:=]\s*["']?([^"'\s]{3,})["']?`,
	`(?i)<input[^>]*type=["']password["'][^>]*value=["']([^"']+)["']`,
)

var tokenRule = rule("token", `${1}[FILTERED]`,
	`(?i)(token|токен)\s*[:=]\s*["']?([a-zA-Z0-9_-]{20,})["']?`,
	`(?i)(api[_-]?key|api[_-]?token)\s*[:=]\s*["']?([a-zA-Z0-9_-]{20,})["']?`,
	`(?i)(bearer\s+)([a-zA-Z0-9_-]{20,})`,
	`(?i)(authorization\s*[:=]\s*["']?bearer\s+)([a-zA-Z0-9_-]{20,})["']?`,
	`(?i)(csrf[_-]?token|authenticity_token)["']?\s*(?:[:=]|value=)\s*["']?[a-zA-Z0-9_+/=-]{16,}["']?`,
	`sk-[a-zA-Z0-9]{32,}`,
	`pk_[a-zA-Z0-9]{32,}`,
)

var cookieRule = rule("cookie", `${1}[FILTERED]`,
	`(?i)(cookie|куки)\s*[:=]\s*["']?([^"'\n]{10,})["']?`,
	`(?i)(session[_-]?id|session[_-]?token)\s*[:=]\s*["']?([a-zA-Z0-9_-]{10,})["']?`,
	`(?i)(set-cookie\s*[:=]\s*["']?)([^"'\n]{10,})["']?`,
)

var cardRule = rule("card", `[FILTERED]`,
	`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`,
	`(?i)(card[_-]?number|номер[_-]?карты)\s*[:=]\s*["']?(\d{13,19})["']?`,
	`(?i)(cvv2?|cvc2?)\s*[:=]\s*["']?(\d{3,4})["']?`,
	`(?i)(expir|срок)\s*[:=]\s*["']?(\d{2}[/-]\d{2,4})["']?`,
)

var apiKeyRule = rule("api-key", `${1}: [FILTERED]`,
	`(?i)(api[_-]?key|api[_-]?secret)\s*[:=]\s*["']?([a-zA-Z0-9_-]{20,})["']?`,
	`(?i)(secret[_-]?key|secret[_-]?token)\s*[:=]\s*["']?([a-zA-Z0-9_-]{20,})["']?`,
	`(?i)(access[_-]?token|access[_-]?key)\s*[:=]\s*["']?([a-zA-Z0-9_-]{20,})["']?`,
)

var emailRule = rule("email", `[FILTERED_EMAIL]`,
	`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`,
)

// Телефон: российские форматы и международный с явным "+" или разделителями.
var phoneRule = rule("phone", `[FILTERED_PHONE]`,
	`\+7\s?\(?\d{3}\)?\s?\d{3}[-.\s]?\d{2}[-.\s]?\d{2}`,
	`\b8\s?\(\d{3}\)\s?\d{3}[-.\s]?\d{2}[-.\s]?\d{2}`,
	`\+\d{1,3}[-.\s]?\(?\d{1,4}\)?[-.\s]?\d{1,4}[-.\s]?\d{1,4}[-.\s]?\d{0,9}`,
	`\(\d{3}\)\s?\d{3}[-.\s]\d{4}`,
	`\b\d{3}[-.]\d{3}[-.]\d{4}\b`,
	`(?i)(phone|телефон|тел\.?)\s*[:=]\s*["']?([+\d\s\-\(\)]{7,})["']?`,
)

var addressRule = rule("address", `[FILTERED_ADDRESS]`,
	`(?i)(улица|ул\.?|проспект|пр\.?|проезд|пер\.?|переулок|бульвар|б-р|шоссе|ш\.?)\s+[А-Яа-яЁё\w\s]+(?:,\s*(?:д\.?|дом|стр\.?|строение|корп\.?|корпус|кв\.?|квартира)\s*\d+)?`,
	`(?i)(address|адрес|адр\.?)\s*[:=]\s*["']?([^"'\n]{10,})["']?`,
	`[А-Яа-яЁё]+,\s*(?:ул\.?|пр\.?|б-р|ш\.?)\s+[А-Яа-яЁё\s]+,\s*(?:д\.?|дом)\s*\d+`,
	`\b\d{1,5}\s+(?:[A-Z][a-z]+\s+){1,3}(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Way|Place|Pl|Square|Sq)\b[^'\n]*`,
)
