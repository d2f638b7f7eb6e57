package formfill

import (
	"strings"

	"formAgent/internal/browser"
)

const buttonLike = "*[self::button or self::input or self::div or self::span or self::a]"

var submitWords = []string{"submit", "send", "save", "confirm", "message"}

var clickableTags = map[string]bool{"button": true, "div": true, "a": true, "span": true, "input": true}

// Candidates перечисляет элементы, которые могут отправить container, в порядке документа.
// Если внутри контейнера ничего нет, тот же фильтр применяется ко всей странице.
func Candidates(page browser.Page, container browser.Element) []browser.Element {
	siblings, _ := container.QueryAll("following-sibling::* | preceding-sibling::*")

	if scoped, err := container.QueryAll(".//" + buttonLike); err == nil {
		if out := filterCandidates(page, container, siblings, scoped); len(out) > 0 {
			return out
		}
	}

	all, err := page.FindAll("//" + buttonLike)
	if err != nil {
		return nil
	}
	return filterCandidates(page, container, siblings, all)
}

func filterCandidates(page browser.Page, container browser.Element, siblings, els []browser.Element) []browser.Element {
	var out []browser.Element
	for _, el := range els {
		if !browser.Interactable(el) {
			continue
		}
		if isSubmitCandidate(page, el, container, siblings) {
			out = append(out, el)
		}
	}
	return out
}

func isSubmitCandidate(page browser.Page, el, container browser.Element, siblings []browser.Element) bool {
	tag := strings.ToLower(el.Tag())
	if !containsAny(strings.ToLower(el.Text()), submitWords...) && tag != "button" && tag != "input" {
		return false
	}

	if forms, err := el.QueryAll("ancestor::form[1]"); err == nil && len(forms) > 0 {
		if page.Same(forms[0], container) {
			return true
		}
	}
	for _, s := range siblings {
		if page.Same(s, el) {
			return true
		}
	}
	return false
}

// clickableParent поднимается не выше трех уровней к элементу, по которому имеет смысл кликать.
func clickableParent(el browser.Element) browser.Element {
	current := el
	for i := 0; i < 3; i++ {
		if clickableTags[strings.ToLower(current.Tag())] && browser.Interactable(current) {
			return current
		}
		parents, err := current.QueryAll("..")
		if err != nil || len(parents) == 0 {
			break
		}
		current = parents[0]
	}
	return el
}
