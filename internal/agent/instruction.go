package agent

import (
	"regexp"
	"strings"

	"formAgent/internal/formfill"
)

const defaultCountry = "Brazil"

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	urlRe   = regexp.MustCompile(`https?://[^\s]+`)
	pairRe  = regexp.MustCompile(`\b([A-Za-z_][\w-]*)\s*[:=]\s*("[^"]*"|'[^']*'|[^\s,;]+)`)
	eccnRe  = regexp.MustCompile(`\b\d[A-Z]\d{3}[A-Z]\b`)
)

// Порядок важен: более длинные коды проверяются раньше своих префиксов.
var hsCodeRes = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{4}\.\d{2}\.\d{4}\b`),
	regexp.MustCompile(`\b\d{4}\.\d{2}\.\d{2}\b`),
	regexp.MustCompile(`\b\d{4}\.\d{2}\b`),
	regexp.MustCompile(`\b\d{10}\b`),
	regexp.MustCompile(`\b\d{4}\b`),
}

var countries = []struct {
	name string
	re   *regexp.Regexp
}{
	{"Brazil", regexp.MustCompile(`\b(brazil|bra)\b`)},
	{"China", regexp.MustCompile(`\b(china|chn)\b`)},
	{"United States", regexp.MustCompile(`\b(united states|usa)\b|\bu\.s\.`)},
	{"India", regexp.MustCompile(`\bindia\b`)},
	{"Japan", regexp.MustCompile(`\b(japan|jpn)\b`)},
	{"Mexico", regexp.MustCompile(`\b(mexico|mex)\b`)},
}

// Ключи, под которыми код ТН ВЭД попадает в значения формы.
var hsCodeKeys = []string{"hscode", "hs_code", "hs code"}

// Instruction - разобранная инструкция пользователя.
type Instruction struct {
	URL     string
	Email   string
	HSCode  string
	ECCN    string
	Country string
	Fields  formfill.Values
	Source  string
}

// ParseInstruction вытаскивает из текста адрес, email, явные пары ключ=значение
// и коды товаров. Используется без LLM или когда LLM не ответил.
func ParseInstruction(text string) *Instruction {
	in := &Instruction{Fields: formfill.Values{}, Source: "rules"}

	if m := urlRe.FindString(text); m != "" {
		in.URL = strings.TrimRight(m, `.,;:!?)"'`)
	}
	rest := urlRe.ReplaceAllString(text, " ")

	if m := emailRe.FindString(rest); m != "" {
		in.Email = strings.TrimRight(m, ".-")
	}

	for _, m := range pairRe.FindAllStringSubmatch(rest, -1) {
		key := strings.ToLower(m[1])
		in.Fields[key] = strings.TrimRight(strings.Trim(m[2], `"'`), ".!?)")
	}
	rest = pairRe.ReplaceAllString(rest, " ")

	if in.Email != "" {
		if _, ok := in.Fields["email"]; !ok {
			in.Fields["email"] = in.Email
		}
	}
	codes := emailRe.ReplaceAllString(rest, " ")

	for _, re := range hsCodeRes {
		if m := re.FindString(codes); m != "" {
			in.HSCode = m
			break
		}
	}
	in.ECCN = eccnRe.FindString(codes)

	lower := strings.ToLower(rest)
	for _, c := range countries {
		if c.re.MatchString(lower) {
			in.Country = c.name
			break
		}
	}
	explicitCountry := in.Country != ""
	if !explicitCountry {
		in.Country = defaultCountry
	}

	if in.HSCode != "" {
		for _, k := range hsCodeKeys {
			if _, ok := in.Fields[k]; !ok {
				in.Fields[k] = in.HSCode
			}
		}
	}
	if in.ECCN != "" {
		if _, ok := in.Fields["eccn"]; !ok {
			in.Fields["eccn"] = in.ECCN
		}
	}
	if _, ok := in.Fields["country"]; !ok && (explicitCountry || in.HSCode != "") {
		in.Fields["country"] = in.Country
	}

	return in
}
