package formfill

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"formAgent/internal/browser"
)

const fieldsXPath = ".//input | .//textarea | .//select"

// emailLocators ищут поле адреса по разметке вокруг него. Результат потом
// ограничивается текстовыми полями текущего контейнера.
var emailLocators = []string{
	"//td[" + browser.ContainsFold("text()", "email") + "]/following-sibling::td/input",
	"//label[" + browser.ContainsFold("text()", "email") + "]/following-sibling::input | //label[" + browser.ContainsFold("text()", "email") + "]/input",
	"//*[contains(text(), 'Email')]/following::input[position() < 3]",
}

// fillEmailFields заполняет поля адреса до общего прохода и возвращает их,
// чтобы общий проход их пропустил. Без адреса в значениях ничего не делает.
func (r *fillRun) fillEmailFields(ctx context.Context, bc browsingContext, form browser.Element) []browser.Element {
	email, ok := r.values.Email()
	if !ok {
		return nil
	}

	fields := r.emailFields(form)
	for _, field := range fields {
		if !browser.Interactable(field) {
			continue
		}
		_ = r.page.ScrollIntoView(field)
		if err := r.page.SetValue(field, email); err != nil {
			r.actions.Add(bc.name, "Error filling email field: %v", err)
			continue
		}
		sleep(ctx, r.opts.FillPause)
		r.actions.Add(bc.name, "Filled email field with '%s'.", email)
	}
	return fields
}

func (r *fillRun) emailFields(form browser.Element) []browser.Element {
	textInputs, err := form.QueryAll(".//input")
	if err != nil {
		return nil
	}

	var matches []browser.Element
	if all, err := form.QueryAll(fieldsXPath); err == nil {
		for _, in := range all {
			if emailByAttributes(in) {
				matches = append(matches, in)
			}
		}
	}
	for _, xpath := range emailLocators {
		found, err := r.page.FindAll(xpath)
		if err != nil {
			r.log.Debug("поиск поля email", zap.String("xpath", xpath), zap.Error(err))
			continue
		}
		matches = append(matches, found...)
	}

	// Проход по полям контейнера сохраняет порядок документа и убирает дубли.
	var out []browser.Element
	for _, in := range textInputs {
		switch Describe(in).Type {
		case "", "text", "email":
		default:
			continue
		}
		for _, m := range matches {
			if r.page.Same(in, m) {
				out = append(out, in)
				break
			}
		}
	}
	return out
}

func emailByAttributes(el browser.Element) bool {
	f := Describe(el)
	if f.Type == "email" {
		return true
	}
	if containsAny(strings.ToLower(f.Name), "email", "user") || containsAny(strings.ToLower(f.ID), "email", "user") {
		return true
	}
	aria, _ := el.Attr("aria-label")
	return containsAny(strings.ToLower(aria), "email") || containsAny(strings.ToLower(f.Placeholder), "email")
}

// fillFields - общий проход по полям формы. visitedRadios принадлежит одной форме:
// каждая группа radio выбирается не больше одного раза.
func (r *fillRun) fillFields(ctx context.Context, bc browsingContext, form browser.Element, prefilled []browser.Element, visitedRadios map[string]struct{}) {
	inputs, err := form.QueryAll(fieldsXPath)
	if err != nil {
		r.actions.Add(bc.name, "Error collecting fields: %v", err)
		return
	}

	for _, in := range inputs {
		if ctx.Err() != nil {
			return
		}
		f := Describe(in)
		if f.Type == "hidden" {
			continue
		}
		if err := r.fillField(in, f, bc, prefilled, visitedRadios); err != nil {
			r.actions.Add(bc.name, "Error filling input (%s): %v", f.Kind(), err)
		}
	}
}

func (r *fillRun) fillField(in browser.Element, f Field, bc browsingContext, prefilled []browser.Element, visitedRadios map[string]struct{}) error {
	enabled, err := in.Enabled()
	if err != nil {
		return err
	}
	if !enabled {
		return nil
	}

	visible, err := in.Visible()
	if err != nil {
		return err
	}
	if !visible {
		if err := r.page.ForceVisible(in); err != nil {
			r.log.Debug("не удалось показать поле", zap.String("kind", f.Kind()), zap.Error(err))
		}
		r.actions.Add(bc.name, "Forced visibility of %s input.", f.Kind())
	}

	for _, p := range prefilled {
		if r.page.Same(p, in) {
			return nil
		}
	}

	switch f.Type {
	case "checkbox":
		checked, err := in.Checked()
		if err != nil {
			return err
		}
		if !checked {
			if err := r.page.Click(in); err != nil {
				return err
			}
		}
		r.actions.Add(bc.name, "Checked a checkbox.")
	case "radio":
		if f.Name == "" {
			return nil
		}
		if _, seen := visitedRadios[f.Name]; seen {
			return nil
		}
		checked, err := in.Checked()
		if err != nil {
			return err
		}
		if !checked {
			if err := r.page.Click(in); err != nil {
				return err
			}
		}
		visitedRadios[f.Name] = struct{}{}
		r.actions.Add(bc.name, "Selected radio button '%s'.", f.Name)
	case "button", "submit", "reset", "file", "image":
		return nil
	default:
		value := r.classifier.classify(f, r.values)
		if err := r.page.SetValue(in, value); err != nil {
			return err
		}
		r.actions.Add(bc.name, "Filled input (%s) with '%s'.", f.Kind(), value)
	}
	return nil
}
