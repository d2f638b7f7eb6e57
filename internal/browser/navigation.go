package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

const readyStateComplete = `() => document.readyState === "complete"`

// WaitForReadyState ждет, пока документ основного фрейма полностью загрузится.
func (b *PlaywrightBrowser) WaitForReadyState(ctx context.Context, options ...WaitNavigationOption) error {
	page := b.getPage()
	if page == nil {
		return ErrNotLaunched
	}

	opts := WaitNavigationOptions{
		Timeout: b.cfg.Timeout,
		Polling: 100 * time.Millisecond,
	}
	for _, opt := range options {
		opt(&opts)
	}

	waitCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		_, err := page.WaitForFunction(readyStateComplete, nil, playwright.PageWaitForFunctionOptions{
			Timeout: playwright.Float(float64(opts.Timeout.Milliseconds())),
			Polling: playwright.Float(float64(opts.Polling.Milliseconds())),
		})
		errChan <- err
	}()

	select {
	case <-waitCtx.Done():
		return fmt.Errorf("readyState не стал complete за %v", opts.Timeout)
	case err := <-errChan:
		return err
	}
}

type WaitNavigationOptions struct {
	Timeout time.Duration
	Polling time.Duration
}

type WaitNavigationOption func(*WaitNavigationOptions)

func WithNavigationTimeout(timeout time.Duration) WaitNavigationOption {
	return func(opts *WaitNavigationOptions) {
		opts.Timeout = timeout
	}
}
