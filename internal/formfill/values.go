package formfill

import (
	"sort"
	"strings"
)

// Values - значения, которые вызывающий хочет видеть в полях: ключ - смысл поля
// в свободной форме ("email", "name"), значение - литерал.
type Values map[string]string

// LooksLikeEmail - минимальная проверка формы адреса: "@" и точка после него.
func LooksLikeEmail(s string) bool {
	at := strings.Index(s, "@")
	return at >= 0 && strings.Contains(s[at+1:], ".")
}

// Keys возвращает ключи в стабильном порядке.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Email возвращает первое значение, похожее на адрес.
func (v Values) Email() (string, bool) {
	for _, k := range v.Keys() {
		if LooksLikeEmail(v[k]) {
			return v[k], true
		}
	}
	return "", false
}

// Match ищет ключ, входящий в identity поля. Выигрывает самый длинный ключ.
func (v Values) Match(identity string) (string, bool) {
	best := ""
	found := false
	for _, k := range v.Keys() {
		lk := strings.ToLower(strings.TrimSpace(k))
		if lk == "" || !strings.Contains(identity, lk) {
			continue
		}
		if !found || len(lk) > len(strings.ToLower(best)) {
			best = k
			found = true
		}
	}
	if !found {
		return "", false
	}
	return v[best], true
}

// userValue - значение для поля логина: что-то с "@" или ключ с "user".
func (v Values) userValue() (string, bool) {
	for _, k := range v.Keys() {
		if strings.Contains(v[k], "@") || strings.Contains(strings.ToLower(k), "user") {
			return v[k], true
		}
	}
	return "", false
}
