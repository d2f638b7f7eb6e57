package browser

import (
	"fmt"
)

func (b *PlaywrightBrowser) FindAll(xpath string) ([]Element, error) {
	frame, err := b.activeFrame()
	if err != nil {
		return nil, err
	}
	selector, err := xpathSelector(xpath)
	if err != nil {
		return nil, err
	}
	handles, err := frame.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	return wrapHandles(handles), nil
}

// URL - адрес верхнего документа, даже если активен iframe.
func (b *PlaywrightBrowser) URL() string {
	page := b.getPage()
	if page == nil {
		return ""
	}
	return page.URL()
}

// Markup сериализует документ активного контекста.
func (b *PlaywrightBrowser) Markup() (string, error) {
	frame, err := b.activeFrame()
	if err != nil {
		return "", err
	}
	return frame.Content()
}

func (b *PlaywrightBrowser) Same(x, y Element) bool {
	hx, err := asHandle(x)
	if err != nil {
		return false
	}
	hy, err := asHandle(y)
	if err != nil {
		return false
	}
	same, err := hx.Evaluate("(a, b) => a === b", hy)
	if err != nil {
		return false
	}
	v, ok := same.(bool)
	return ok && v
}

// Frames перечисляет iframe основного документа.
func (b *PlaywrightBrowser) Frames() ([]FrameRef, error) {
	page := b.getPage()
	if page == nil {
		return nil, ErrNotLaunched
	}
	iframes, err := page.MainFrame().QuerySelectorAll("iframe")
	if err != nil {
		return nil, err
	}
	refs := make([]FrameRef, 0, len(iframes))
	for i, iframe := range iframes {
		id, _ := iframe.GetAttribute("id")
		refs = append(refs, FrameRef{ID: id, Index: i})
	}
	return refs, nil
}

func (b *PlaywrightBrowser) EnterFrame(f FrameRef) error {
	page := b.getPage()
	if page == nil {
		return ErrNotLaunched
	}
	iframes, err := page.MainFrame().QuerySelectorAll("iframe")
	if err != nil {
		return err
	}
	if f.Index < 0 || f.Index >= len(iframes) {
		return fmt.Errorf("%w: %s", ErrFrameUnavailable, f.Name())
	}
	frame, err := iframes[f.Index].ContentFrame()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFrameUnavailable, err)
	}
	if frame == nil {
		return fmt.Errorf("%w: %s", ErrFrameUnavailable, f.Name())
	}

	b.mu.Lock()
	b.frame = frame
	b.mu.Unlock()
	return nil
}

func (b *PlaywrightBrowser) ExitFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.page == nil {
		return ErrNotLaunched
	}
	b.frame = nil
	return nil
}
