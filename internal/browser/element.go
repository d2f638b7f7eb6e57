package browser

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// pwElement реализует Element поверх playwright.ElementHandle.
// Ошибки чтения тега, атрибутов и текста превращаются в пустые значения.
type pwElement struct {
	handle playwright.ElementHandle
}

func wrapHandles(handles []playwright.ElementHandle) []Element {
	out := make([]Element, 0, len(handles))
	for _, h := range handles {
		if h != nil {
			out = append(out, &pwElement{handle: h})
		}
	}
	return out
}

func (e *pwElement) Tag() string {
	tag, err := e.handle.Evaluate("el => el.tagName.toLowerCase()")
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%v", tag)
}

func (e *pwElement) Attr(name string) (string, bool) {
	v, err := e.handle.Evaluate("(el, name) => el.getAttribute(name)", name)
	if err != nil || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (e *pwElement) Text() string {
	text, err := e.handle.InnerText()
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(text), " ")
}

func (e *pwElement) Visible() (bool, error) {
	return e.handle.IsVisible()
}

// Enabled читает DOM-свойство disabled: для div/span/a оно отсутствует.
func (e *pwElement) Enabled() (bool, error) {
	return e.evalBool("el => !el.disabled")
}

func (e *pwElement) Checked() (bool, error) {
	return e.evalBool("el => !!el.checked")
}

func (e *pwElement) QueryAll(xpath string) ([]Element, error) {
	selector, err := xpathSelector(xpath)
	if err != nil {
		return nil, err
	}
	handles, err := e.handle.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	return wrapHandles(handles), nil
}

func (e *pwElement) evalBool(script string, arg ...interface{}) (bool, error) {
	v, err := e.handle.Evaluate(script, arg...)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("неожиданный результат %T", v)
	}
	return b, nil
}

func asHandle(el Element) (playwright.ElementHandle, error) {
	pe, ok := el.(*pwElement)
	if !ok || pe.handle == nil {
		return nil, fmt.Errorf("элемент другого браузера: %T", el)
	}
	return pe.handle, nil
}
