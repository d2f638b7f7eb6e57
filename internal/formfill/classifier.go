package formfill

import (
	"strings"

	"formAgent/internal/browser"
)

// Короткая форма - почти наверняка логин.
const shortFormLimit = 3

var loginHints = []string{"user", "email", "login", "account"}

// Classifier решает, какое значение положить в поле. Всегда что-то возвращает.
type Classifier struct {
	page  browser.Page
	synth *Synth
}

func NewClassifier(page browser.Page, synth *Synth) *Classifier {
	return &Classifier{page: page, synth: synth}
}

func (c *Classifier) Classify(el browser.Element, values Values) string {
	return c.classify(Describe(el), values)
}

func (c *Classifier) classify(f Field, values Values) string {
	identity := f.Identity()

	if len(values) > 0 {
		// адрес из значений важнее любого синтетического: поле "user_email" не должно получить имя
		if strings.Contains(identity, "email") || f.Type == "email" {
			if email, ok := values.Email(); ok {
				return email
			}
		}

		if v, ok := c.shortForm(values); ok {
			return v
		}

		if v, ok := values.Match(identity); ok {
			return v
		}
	}

	if f.Pattern != "" {
		if strings.Contains(f.Pattern, "10") {
			return c.synth.Digits(10)
		}
		if alphabeticPattern(f.Pattern) {
			return c.synth.Word()
		}
	}

	switch {
	case strings.Contains(identity, "email"):
		return c.synth.Email()
	case strings.Contains(identity, "phone") || strings.Contains(f.Type, "tel"):
		return c.synth.Phone()
	case f.Type == "password":
		return c.synth.Password()
	case f.Type == "date":
		return c.synth.Date()
	case containsAny(identity, "name", "user"):
		return c.synth.Name()
	case containsAny(identity, "message", "comment", "description"):
		return c.synth.Paragraph()
	case strings.Contains(identity, "address"):
		return c.synth.Address()
	}

	switch f.Type {
	case "number":
		return c.synth.Digits(6)
	case "url":
		return c.synth.URL()
	case "email":
		return c.synth.Email()
	}

	return c.synth.ShortText()
}

// shortForm: на странице не больше трех видимых полей ввода.
func (c *Classifier) shortForm(values Values) (string, bool) {
	inputs := c.visibleInputs()
	if len(inputs) > shortFormLimit {
		return "", false
	}
	if email, ok := values.Email(); ok {
		return email, true
	}
	for _, in := range inputs {
		if containsAny(Describe(in).Identity(), loginHints...) {
			if v, ok := values.userValue(); ok {
				return v, true
			}
		}
	}
	return "", false
}

func (c *Classifier) visibleInputs() []browser.Element {
	found, err := c.page.FindAll("//input")
	if err != nil {
		return nil
	}
	out := make([]browser.Element, 0, len(found))
	for _, in := range found {
		switch Describe(in).Type {
		case "hidden", "submit", "button":
			continue
		}
		if browser.Interactable(in) {
			out = append(out, in)
		}
	}
	return out
}

func alphabeticPattern(p string) bool {
	return containsAny(p, "[a-zA-Z]", "[A-Za-z]", "[a-z]", "[A-Z]")
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
