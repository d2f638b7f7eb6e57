package commands

import (
	"context"
	"fmt"
	"io"

	"formAgent/internal/cli/ui"
)

const sourcePreview = 2000

// BrowserHandler - команды прямой работы со страницей.
type BrowserHandler struct {
	agent Agent
	out   io.Writer
}

func NewBrowserHandler(ag Agent, out io.Writer) *BrowserHandler {
	return &BrowserHandler{agent: ag, out: out}
}

// Open открывает страницу в общем браузере агента
func (h *BrowserHandler) Open(ctx context.Context, url string) {
	fmt.Fprintln(h.out, ui.Paint(ui.ColorCyan, ui.IconGlobe+" Открываю "+url))
	if err := h.agent.Open(ctx, url); err != nil {
		ui.Error(h.out, "Ошибка: %v", err)
		return
	}
	ui.Success(h.out, "Страница открыта")
}

// Source печатает начало разметки текущей страницы
func (h *BrowserHandler) Source(ctx context.Context) {
	markup, err := h.agent.Source(ctx)
	if err != nil {
		ui.Error(h.out, "Ошибка: %v", err)
		return
	}
	fmt.Fprintln(h.out, ui.Truncate(markup, sourcePreview))
	fmt.Fprintln(h.out, ui.Paint(ui.ColorGray, fmt.Sprintf("(%d байт)", len(markup))))
}

func (h *BrowserHandler) Close() {
	h.agent.Shutdown()
	ui.Success(h.out, "Браузер закрыт")
}
