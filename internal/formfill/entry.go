package formfill

import (
	"context"

	"formAgent/internal/browser"
)

var (
	loginLinkXPath   = "//*[" + browser.AnyContainsFold("text()", "login", "sign in") + "]"
	contactLinkXPath = "//*[" + browser.ContainsFold("text()", "contact") + "]"
)

// locateEntryPoint пытается перейти к форме логина или контактов с главной страницы.
// Любая неудача только пишется в журнал.
func (r *fillRun) locateEntryPoint(ctx context.Context) {
	if r.visibleLoginField() {
		return
	}

	clicked, err := r.clickFirst(loginLinkXPath, "Clicked potential 'login/sign in' link to access form.")
	if err != nil {
		r.actions.Add(mainContext, "Error navigating to form: %v", err)
		return
	}
	if clicked {
		r.awaitEntry(ctx, loginFieldXPath)
		return
	}

	if forms, err := r.page.FindAll("//form"); err != nil || len(forms) > 0 {
		return
	}

	clicked, err = r.clickFirst(contactLinkXPath, "Clicked potential 'contact' link to access form.")
	if err != nil {
		r.actions.Add(mainContext, "Error navigating to form: %v", err)
		return
	}
	if clicked {
		r.awaitEntry(ctx, "//form")
	}
}

func (r *fillRun) visibleLoginField() bool {
	fields, err := r.page.FindAll(loginFieldXPath)
	if err != nil {
		return false
	}
	for _, f := range fields {
		if visible, err := f.Visible(); err == nil && visible {
			return true
		}
	}
	return false
}

// clickFirst кликает первый доступный элемент по xpath.
func (r *fillRun) clickFirst(xpath, line string) (bool, error) {
	links, err := r.page.FindAll(xpath)
	if err != nil {
		return false, err
	}
	for _, link := range links {
		if !browser.Interactable(link) {
			continue
		}
		_ = r.page.ScrollIntoView(link)
		if err := r.page.Click(link); err != nil {
			return false, err
		}
		r.actions.Add(mainContext, "%s", line)
		return true, nil
	}
	return false, nil
}

func (r *fillRun) awaitEntry(ctx context.Context, xpath string) {
	if _, err := r.page.WaitFor(ctx, xpath, r.opts.EntryTimeout); err != nil {
		r.actions.Add(mainContext, "Error navigating to form: %v", err)
		return
	}
	sleep(ctx, r.opts.ClickPause)
}
