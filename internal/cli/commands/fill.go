package commands

import (
	"context"
	"fmt"
	"io"
	"sort"

	"formAgent/internal/cli/ui"
)

// FillHandler - разовое заполнение без сохранения задачи.
type FillHandler struct {
	agent Agent
	out   io.Writer
}

func NewFillHandler(ag Agent, out io.Writer) *FillHandler {
	return &FillHandler{agent: ag, out: out}
}

// Fill разбирает инструкцию и заполняет формы по найденному адресу
func (h *FillHandler) Fill(ctx context.Context, instruction string) {
	fmt.Fprintln(h.out, ui.Paint(ui.ColorCyan, ui.IconPlay+" Выполняю: "+instruction))
	out, err := h.agent.Run(ctx, instruction, nil)
	if err != nil {
		ui.Error(h.out, "Ошибка: %v", err)
		return
	}
	printOutcome(h.out, out)
}

// Plan показывает разбор инструкции, ничего не открывая
func (h *FillHandler) Plan(ctx context.Context, instruction string) {
	in := h.agent.Plan(ctx, instruction, nil)

	fmt.Fprintln(h.out, ui.Paint(ui.ColorBold, ui.IconRobot+" Разбор ("+in.Source+"):"))
	url := in.URL
	if url == "" {
		url = ui.Paint(ui.ColorRed, "не найден")
	}
	fmt.Fprintf(h.out, "  %s URL: %s\n", ui.IconArrow, url)

	keys := make([]string, 0, len(in.Fields))
	for k := range in.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(h.out, "  %s%s%s = %s\n", ui.ColorYellow, k, ui.ColorReset, in.Fields[k])
	}
	if len(keys) == 0 {
		fmt.Fprintln(h.out, ui.Paint(ui.ColorGray, "  поля не найдены, значения будут сгенерированы"))
	}
}
