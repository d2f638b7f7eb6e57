package browser

import (
	"fmt"
	"strings"
)

const (
	upperLatin = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerLatin = "abcdefghijklmnopqrstuvwxyz"
)

// ContainsFold строит XPath 1.0 условие регистронезависимого вхождения.
// В XPath 1.0 нет lower-case(), поэтому используется translate().
func ContainsFold(target, needle string) string {
	return fmt.Sprintf("contains(translate(%s, '%s', '%s'), %s)",
		target, upperLatin, lowerLatin, Literal(strings.ToLower(needle)))
}

// AnyContainsFold объединяет ContainsFold через "or".
func AnyContainsFold(target string, needles ...string) string {
	parts := make([]string, 0, len(needles))
	for _, n := range needles {
		parts = append(parts, ContainsFold(target, n))
	}
	return strings.Join(parts, " or ")
}

// Literal экранирует строку как XPath-литерал.
func Literal(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	return "concat('" + strings.Join(parts, `', "'", '`) + "')"
}

// xpathSelector превращает XPath в селектор playwright.
func xpathSelector(expr string) (string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", fmt.Errorf("пустой xpath")
	}
	// Защита от URL вместо селектора
	if strings.HasPrefix(expr, "http://") || strings.HasPrefix(expr, "https://") {
		return "", fmt.Errorf("селектор не может быть URL: %s", expr)
	}
	return "xpath=" + expr, nil
}
