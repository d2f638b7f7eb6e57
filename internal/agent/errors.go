package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"formAgent/internal/browser"
)

type ErrorType int

const (
	ErrorTypeTemporary ErrorType = iota
	ErrorTypeCritical
	ErrorTypeRetryable
)

func (e ErrorType) String() string {
	switch e {
	case ErrorTypeTemporary:
		return "temporary"
	case ErrorTypeCritical:
		return "critical"
	case ErrorTypeRetryable:
		return "retryable"
	default:
		return "unknown"
	}
}

var (
	ErrNoURL          = errors.New("в инструкции нет адреса страницы")
	ErrBlockedURL     = errors.New("адрес заблокирован")
	ErrCriticalDomain = errors.New("домен требует ручной работы")
	ErrCircuitOpen    = errors.New("сайт временно отключен после серии ошибок")
)

type ActionError struct {
	Type    ErrorType
	Action  string
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Action, e.Message)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

func classifyError(action string, err error) *ActionError {
	if err == nil {
		return nil
	}

	wrap := func(t ErrorType) *ActionError {
		return &ActionError{Type: t, Action: action, Message: err.Error(), Err: err}
	}

	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, browser.ErrNotLaunched),
		errors.Is(err, browser.ErrRouteNotFound),
		errors.Is(err, ErrBlockedURL),
		errors.Is(err, ErrCriticalDomain),
		errors.Is(err, ErrCircuitOpen):
		return wrap(ErrorTypeCritical)
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, browser.ErrWaitTimeout):
		return wrap(ErrorTypeRetryable)
	case errors.Is(err, browser.ErrStaleElement),
		errors.Is(err, browser.ErrFrameUnavailable):
		return wrap(ErrorTypeTemporary)
	}

	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "network") ||
		strings.Contains(msg, "connection") ||
		strings.Contains(msg, "econnrefused") ||
		strings.Contains(msg, "etimedout") ||
		strings.Contains(msg, "ns_error_net") {
		return wrap(ErrorTypeRetryable)
	}

	if strings.Contains(msg, "not found") ||
		strings.Contains(msg, "selector") ||
		strings.Contains(msg, "element") {
		return wrap(ErrorTypeTemporary)
	}

	return wrap(ErrorTypeCritical)
}

// retryAction повторяет fn, пока ошибка не критична и попытки не кончились.
func retryAction(ctx context.Context, maxRetries int, delay time.Duration, fn func() error) error {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if isCriticalError(err) {
			return err
		}
	}

	return fmt.Errorf("после %d попыток: %w", maxRetries, lastErr)
}

func isCriticalError(err error) bool {
	return classifyError("", err).Type == ErrorTypeCritical
}
