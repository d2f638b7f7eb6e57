package formfill

import (
	"strings"

	"formAgent/internal/browser"
)

// Field - атрибуты поля ввода, прочитанные один раз.
type Field struct {
	Tag         string
	Type        string
	Name        string
	ID          string
	Placeholder string
	Pattern     string
}

func Describe(el browser.Element) Field {
	attr := func(name string) string {
		v, _ := el.Attr(name)
		return v
	}
	return Field{
		Tag:         strings.ToLower(el.Tag()),
		Type:        strings.ToLower(strings.TrimSpace(attr("type"))),
		Name:        attr("name"),
		ID:          attr("id"),
		Placeholder: attr("placeholder"),
		Pattern:     attr("pattern"),
	}
}

// Identity - name, id и placeholder в нижнем регистре, склеенные подряд.
func (f Field) Identity() string {
	return strings.TrimSpace(strings.ToLower(f.Name + f.ID + f.Placeholder))
}

// Kind - тип для сообщений: type, а если его нет - тег.
func (f Field) Kind() string {
	if f.Type != "" {
		return f.Type
	}
	return f.Tag
}
