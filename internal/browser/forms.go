package browser

import (
	"fmt"
	"strings"
)

// Скрипты выполняются прямо в DOM: так клики и ввод работают
// для элементов вне вьюпорта и временно скрытых полей.
const (
	clickScript = `el => el.click()`

	forceVisibleScript = `el => { el.style.display = 'block'; }`

	setValueScript = `(el, value) => {
		if (el.tagName.toLowerCase() === 'select') {
			const wanted = String(value).toLowerCase();
			let chosen = Array.from(el.options).find(o =>
				o.value.toLowerCase() === wanted || o.text.trim().toLowerCase() === wanted);
			if (!chosen) {
				chosen = Array.from(el.options).find(o => o.value !== '');
			}
			if (chosen) {
				el.value = chosen.value;
			}
		} else {
			el.value = value;
		}
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
	}`

	submitFormScript = `form => {
		if (!form || form.tagName.toLowerCase() !== 'form') {
			throw new Error('not a form');
		}
		if (typeof form.submit === 'function') {
			const event = new Event('submit', { bubbles: true, cancelable: true });
			form.dispatchEvent(event);
			form.submit();
		} else if (form.requestSubmit) {
			form.requestSubmit();
		}
	}`
)

func (b *PlaywrightBrowser) Click(el Element) error {
	return b.evalOn(el, clickScript)
}

// ForceVisible не должна ломать вызывающего: ошибку только возвращаем.
func (b *PlaywrightBrowser) ForceVisible(el Element) error {
	return b.evalOn(el, forceVisibleScript)
}

func (b *PlaywrightBrowser) SetValue(el Element, value string) error {
	return b.evalOn(el, setValueScript, value)
}

func (b *PlaywrightBrowser) PressEnter(el Element) error {
	if b.getPage() == nil {
		return ErrNotLaunched
	}
	handle, err := asHandle(el)
	if err != nil {
		return err
	}
	return handle.Press("Enter")
}

func (b *PlaywrightBrowser) SubmitForm(form Element) error {
	if form.Tag() != "form" {
		return ErrNotAForm
	}
	err := b.evalOn(form, submitFormScript)
	if err != nil && strings.Contains(err.Error(), "not a form") {
		return ErrNotAForm
	}
	return err
}

func (b *PlaywrightBrowser) evalOn(el Element, script string, arg ...interface{}) error {
	if b.getPage() == nil {
		return ErrNotLaunched
	}
	handle, err := asHandle(el)
	if err != nil {
		return err
	}
	if _, err := handle.Evaluate(script, arg...); err != nil {
		return fmt.Errorf("скрипт на элементе: %w", err)
	}
	return nil
}
