package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// WaitFor ждет появления элемента в активном контексте не дольше timeout.
func (b *PlaywrightBrowser) WaitFor(ctx context.Context, xpath string, timeout time.Duration) (Element, error) {
	frame, err := b.activeFrame()
	if err != nil {
		return nil, err
	}

	selector, err := xpathSelector(xpath)
	if err != nil {
		return nil, fmt.Errorf("невалидный селектор: %w", err)
	}

	if timeout <= 0 {
		timeout = b.cfg.Timeout
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		handle playwright.ElementHandle
		err    error
	}
	resChan := make(chan result, 1)
	go func() {
		h, err := frame.WaitForSelector(selector, playwright.FrameWaitForSelectorOptions{
			State:   playwright.WaitForSelectorStateAttached,
			Timeout: playwright.Float(float64(timeout.Milliseconds())),
		})
		resChan <- result{handle: h, err: err}
	}()

	select {
	case <-waitCtx.Done():
		return nil, fmt.Errorf("%w: %s", ErrWaitTimeout, xpath)
	case res := <-resChan:
		if res.err != nil {
			if strings.Contains(strings.ToLower(res.err.Error()), "timeout") {
				return nil, fmt.Errorf("%w: %s", ErrWaitTimeout, xpath)
			}
			return nil, res.err
		}
		if res.handle == nil {
			return nil, fmt.Errorf("%w: %s", ErrWaitTimeout, xpath)
		}
		return &pwElement{handle: res.handle}, nil
	}
}

func (b *PlaywrightBrowser) WaitForLoadState(ctx context.Context, state string) error {
	page := b.getPage()
	if page == nil {
		return ErrNotLaunched
	}

	var loadState *playwright.LoadState
	switch strings.ToLower(state) {
	case "load":
		loadState = playwright.LoadStateLoad
	case "domcontentloaded":
		loadState = playwright.LoadStateDomcontentloaded
	case "networkidle":
		loadState = playwright.LoadStateNetworkidle
	default:
		loadState = playwright.LoadStateLoad
	}

	opts := playwright.PageWaitForLoadStateOptions{
		State:   loadState,
		Timeout: playwright.Float(b.cfg.Timeout.Seconds() * 1000),
	}

	return page.WaitForLoadState(opts)
}

func (b *PlaywrightBrowser) ClosePopups(ctx context.Context) error {
	page := b.getPage()
	if page == nil {
		return ErrNotLaunched
	}

	if b.popupDetector == nil {
		return b.closePopupsLegacy(page)
	}

	snapshot, err := b.GetPageSnapshot(ctx)
	if err != nil {
		return b.closePopupsLegacy(page)
	}

	popupInfo, err := b.popupDetector.DetectPopup(ctx, snapshot)
	if err != nil {
		return b.closePopupsLegacy(page)
	}

	if !popupInfo.HasPopup || popupInfo.CloseSelector == "" {
		return nil
	}

	element, err := page.QuerySelector(popupInfo.CloseSelector)
	if err != nil || element == nil {
		return nil
	}

	isVisible, err := element.IsVisible()
	if err != nil || !isVisible {
		return nil
	}

	if err := element.Click(); err == nil {
		time.Sleep(500 * time.Millisecond)
	}

	return nil
}

func (b *PlaywrightBrowser) closePopupsLegacy(page playwright.Page) error {
	popupSelectors := []string{
		"[role='dialog'] button[aria-label*='close' i]",
		".modal button.close",
		".popup button.close",
		"[data-dismiss='modal']",
		".close-button",
		"button:has-text('×')",
		"button:has-text('✕')",
		"[aria-label='Close']",
		"#onetrust-accept-btn-handler",
		"button:has-text('Accept all')",
	}

	for _, selector := range popupSelectors {
		elements, err := page.QuerySelectorAll(selector)
		if err != nil {
			continue
		}

		for _, element := range elements {
			isVisible, err := element.IsVisible()
			if err != nil || !isVisible {
				continue
			}

			if err := element.Click(); err == nil {
				time.Sleep(500 * time.Millisecond)
			}
		}
	}

	overlaySelectors := []string{
		"[role='dialog']",
		".modal",
		".popup",
		".overlay",
		"[class*='modal']",
		"[class*='popup']",
	}

	for _, selector := range overlaySelectors {
		elements, err := page.QuerySelectorAll(selector)
		if err != nil {
			continue
		}

		for _, element := range elements {
			isVisible, err := element.IsVisible()
			if err != nil || !isVisible {
				continue
			}

			closeButton, err := element.QuerySelector("button[aria-label*='close' i], .close, [data-dismiss]")
			if err == nil && closeButton != nil {
				if err := closeButton.Click(); err == nil {
					time.Sleep(500 * time.Millisecond)
				}
			}
		}
	}

	return nil
}
