package browser

import (
	"context"
	"fmt"
)

const snapshotLimit = 60

// Кандидаты для поиска попапов: кнопки, ссылки и диалоги.
const snapshotXPath = `//button | //a | //*[@role='dialog'] | //*[@role='button'] | //*[@aria-label]`

const cssSelectorScript = `el => {
	if (el.id) return '#' + CSS.escape(el.id);
	const tag = el.tagName.toLowerCase();
	const aria = el.getAttribute('aria-label');
	if (aria) return tag + '[aria-label="' + aria.replace(/"/g, '\\"') + '"]';
	const cls = typeof el.className === 'string' ? el.className.trim().split(/\s+/)[0] : '';
	return cls ? tag + '.' + CSS.escape(cls) : tag;
}`

func (b *PlaywrightBrowser) GetPageSnapshot(ctx context.Context) (*PageSnapshot, error) {
	page := b.getPage()
	if page == nil {
		return nil, ErrNotLaunched
	}

	if err := b.WaitForLoadState(ctx, "domcontentloaded"); err != nil {
		return nil, fmt.Errorf("ошибка ожидания загрузки страницы: %w", err)
	}

	found, err := b.FindAll(snapshotXPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка извлечения snapshot: %w", err)
	}

	elements := make([]ElementInfo, 0, snapshotLimit)
	for _, el := range found {
		if len(elements) >= snapshotLimit {
			break
		}
		if visible, err := el.Visible(); err != nil || !visible {
			continue
		}
		info := ElementInfo{
			Tag:  el.Tag(),
			Text: truncate(el.Text(), 80),
		}
		info.Role, _ = el.Attr("role")
		info.Label, _ = el.Attr("aria-label")
		if handle, err := asHandle(el); err == nil {
			if sel, err := handle.Evaluate(cssSelectorScript); err == nil {
				info.Selector = fmt.Sprintf("%v", sel)
			}
		}
		elements = append(elements, info)
	}

	title, _ := page.Title()
	return &PageSnapshot{
		URL:      page.URL(),
		Title:    title,
		Elements: elements,
	}, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
