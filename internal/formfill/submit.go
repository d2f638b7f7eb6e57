package formfill

import (
	"context"

	"formAgent/internal/browser"
)

const enterTargetXPath = ".//input[not(@type) or translate(@type, 'TEXMAIL', 'texmail')='text' or translate(@type, 'TEXMAIL', 'texmail')='email'] | .//textarea"

// attempt - одна форма (или body), которую пытаемся отправить.
type attempt struct {
	scope string
	form  browser.Element
	// index - позиция формы среди //form, чтобы найти ее заново после перерисовки.
	index int
}

// submitStrategy пробует отправить форму и возвращает true, если оракул увидел смену.
type submitStrategy func(ctx context.Context, a *attempt) bool

// strategies - каскад отправки в фиксированном порядке.
func (r *fillRun) strategies() []submitStrategy {
	return []submitStrategy{
		r.clickCandidates,
		r.pressEnter,
		r.scriptSubmit,
		r.lastResortClick,
	}
}

func (r *fillRun) clickCandidates(ctx context.Context, a *attempt) bool {
	for _, c := range Candidates(r.page, a.form) {
		if ctx.Err() != nil {
			return false
		}
		label := c.Text()
		target := clickableParent(c)
		tag := target.Tag()

		_ = r.page.ScrollIntoView(target)
		if err := r.page.Click(target); err != nil {
			r.actions.Add(a.scope, "Error clicking candidate '%s': %v", label, err)
			continue
		}
		r.actions.Add(a.scope, "Attempted submission by clicking candidate: '%s' (tag: %s)", label, tag)
		if r.oracle.AttemptSucceeded(ctx) {
			r.actions.Add(a.scope, "Submission detected after clicking '%s'.", label)
			return true
		}
		sleep(ctx, r.opts.ClickPause)
	}
	return false
}

func (r *fillRun) pressEnter(ctx context.Context, a *attempt) bool {
	targets, err := a.form.QueryAll(enterTargetXPath)
	if err != nil || len(targets) == 0 {
		return false
	}

	if err := r.page.PressEnter(targets[0]); err != nil {
		r.actions.Add(a.scope, "Error sending Enter: %v", err)
		return false
	}
	r.actions.Add(a.scope, "Submitted form by sending Enter key.")
	if r.oracle.AttemptSucceeded(ctx) {
		r.actions.Add(a.scope, "Submission detected after sending Enter key.")
		return true
	}
	sleep(ctx, r.opts.ClickPause)
	return false
}

// scriptSubmit повторяет попытку только если сам скрипт упал.
func (r *fillRun) scriptSubmit(ctx context.Context, a *attempt) bool {
	for i := 1; i <= r.opts.ScriptRetries; i++ {
		if ctx.Err() != nil {
			return false
		}
		if err := r.page.SubmitForm(r.currentForm(a)); err != nil {
			r.actions.Add(a.scope, "JavaScript submission attempt %d failed: %v", i, err)
			sleep(ctx, r.opts.FillPause)
			continue
		}
		r.actions.Add(a.scope, "Submitted form using enhanced JavaScript.")
		if r.oracle.AttemptSucceeded(ctx) {
			r.actions.Add(a.scope, "Submission detected after script submission.")
			return true
		}
		return false
	}
	return false
}

// currentForm находит форму заново по индексу, если прежняя ссылка устарела.
func (r *fillRun) currentForm(a *attempt) browser.Element {
	if _, err := a.form.Visible(); err == nil {
		return a.form
	}
	forms, err := r.page.FindAll("//form")
	if err != nil || a.index >= len(forms) {
		return a.form
	}
	a.form = forms[a.index]
	return a.form
}

func (r *fillRun) lastResortClick(ctx context.Context, a *attempt) bool {
	all, err := r.page.FindAll("//" + buttonLike)
	if err != nil {
		r.actions.Add(a.scope, "Last resort click failed: %v", err)
		return false
	}

	for _, el := range all {
		if ctx.Err() != nil {
			return false
		}
		if !browser.Interactable(el) {
			continue
		}
		label := el.Text()
		target := clickableParent(el)
		tag := target.Tag()

		_ = r.page.ScrollIntoView(target)
		if err := r.page.Click(target); err != nil {
			r.actions.Add(a.scope, "Last resort click failed: %v", err)
			continue
		}
		r.actions.Add(a.scope, "Last resort click on '%s' (tag: %s)", label, tag)
		if r.oracle.AttemptSucceeded(ctx) {
			r.actions.Add(a.scope, "Submission detected after last resort click.")
			return true
		}
		sleep(ctx, r.opts.ClickPause)
	}
	return false
}
