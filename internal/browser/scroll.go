package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

func (b *PlaywrightBrowser) ScrollIntoView(el Element) error {
	if b.getPage() == nil {
		return ErrNotLaunched
	}
	element, err := asHandle(el)
	if err != nil {
		return err
	}

	// Проверяем, виден ли элемент (IsVisible проверяет и видимость, и наличие в DOM)
	isVisible, err := element.IsVisible()
	if err != nil {
		isVisible = false
	}

	if isVisible {
		inView, err := isElementInViewport(element)
		if err == nil && inView {
			return nil
		}
	}

	err = element.ScrollIntoViewIfNeeded(playwright.ElementHandleScrollIntoViewIfNeededOptions{
		Timeout: playwright.Float(5000),
	})
	if err != nil {
		// Скрытые элементы Playwright не прокручивает, делаем это через DOM
		_, err = element.Evaluate(`el => {
			el.scrollIntoView({
				behavior: 'auto',
				block: 'center',
				inline: 'center'
			});
		}`)
		if err != nil {
			return fmt.Errorf("ошибка прокрутки к элементу: %w", err)
		}
		time.Sleep(200 * time.Millisecond)
	}

	return nil
}

func isElementInViewport(element playwright.ElementHandle) (bool, error) {
	if element == nil {
		return false, fmt.Errorf("element is nil")
	}

	result, err := element.Evaluate(`el => {
		if (!el) return false;

		const rect = el.getBoundingClientRect();
		const windowHeight = window.innerHeight || document.documentElement.clientHeight;
		const windowWidth = window.innerWidth || document.documentElement.clientWidth;

		const vertInView = (rect.top <= windowHeight) && ((rect.top + rect.height) >= 0);
		const horInView = (rect.left <= windowWidth) && ((rect.left + rect.width) >= 0);

		return vertInView && horInView;
	}`)

	if err != nil {
		return false, err
	}

	if inView, ok := result.(bool); ok {
		return inView, nil
	}

	return false, nil
}
