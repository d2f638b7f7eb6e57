package formfill

import (
	"context"
	"fmt"
	"strings"
	"time"

	"formAgent/internal/browser"
)

const loginFieldXPath = "//input[contains(@type, 'email') or contains(@name, 'email') or contains(@id, 'email') or contains(@id, 'username') or contains(@name, 'username')]"

var successIndicators = []string{
	"thank you", "submitted", "success", "message sent", "your submission",
	"welcome", "dashboard", "account", "profile",
}

// confirmationPhrases - узкий набор для "страница благодарности уже открыта".
var confirmationPhrases = []string{"thank you", "your submission"}

type pageState struct {
	url         string
	markup      string
	forms       int
	loginFields int
}

// Oracle сравнивает состояние страницы до и после паузы.
// Сравнение разметки грубое: любая разница плюс фраза успеха считаются сменой.
type Oracle struct {
	page    browser.Page
	actions *ActionLog
	settle  time.Duration
}

func NewOracle(page browser.Page, actions *ActionLog, settle time.Duration) *Oracle {
	return &Oracle{page: page, actions: actions, settle: settle}
}

// AttemptSucceeded вызывается сразу после действия. Ошибки превращаются в false.
func (o *Oracle) AttemptSucceeded(ctx context.Context) bool {
	before, err := o.snapshot()
	if err != nil {
		o.actions.Add("", "Error in detect_submission_change: %v", err)
		return false
	}

	if !sleep(ctx, o.settle) {
		return false
	}

	after, err := o.snapshot()
	if err != nil {
		o.actions.Add("", "Error in detect_submission_change: %v", err)
		return false
	}

	var reasons []string
	if after.url != before.url {
		reasons = append(reasons, fmt.Sprintf("URL changed from %s to %s", before.url, after.url))
	}
	if after.forms != before.forms {
		reasons = append(reasons, fmt.Sprintf("Form count changed from %d to %d", before.forms, after.forms))
	}
	if after.markup != before.markup && containsAny(strings.ToLower(after.markup), successIndicators...) {
		reasons = append(reasons, "Success indicator found in page source")
	}
	if before.loginFields > 0 && after.loginFields < before.loginFields {
		reasons = append(reasons, fmt.Sprintf("Login fields reduced from %d to %d", before.loginFields, after.loginFields))
	}

	if len(reasons) == 0 {
		return false
	}
	o.actions.Add("", "Submission change detected: %s", strings.Join(reasons, ", "))
	return true
}

func (o *Oracle) snapshot() (pageState, error) {
	var s pageState
	s.url = o.page.URL()

	markup, err := o.page.Markup()
	if err != nil {
		return s, err
	}
	s.markup = markup

	forms, err := o.page.FindAll("//form")
	if err != nil {
		return s, err
	}
	s.forms = len(forms)

	fields, err := o.page.FindAll(loginFieldXPath)
	if err != nil {
		return s, err
	}
	for _, f := range fields {
		if visible, err := f.Visible(); err == nil && visible {
			s.loginFields++
		}
	}
	return s, nil
}

// sleep ждет d или отмены контекста. false - контекст отменен.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
