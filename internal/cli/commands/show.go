package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"formAgent/internal/cli/ui"
	"formAgent/internal/extractor"
	"formAgent/internal/logger"
)

const logsLimit = 100

// ShowHandler - детали задачи, ее прогоны и LLM логи
type ShowHandler struct {
	store Store
	log   *logger.Zap
	out   io.Writer
}

func NewShowHandler(store Store, log *logger.Zap, out io.Writer) *ShowHandler {
	return &ShowHandler{store: store, log: log, out: out}
}

// Show выводит задачу и все ее прогоны
func (h *ShowHandler) Show(idStr string) {
	task, ok := lookupTask(h.out, h.store, idStr)
	if !ok {
		return
	}
	_, _, statusText := ui.FormatStatus(task.Status)

	fmt.Fprintln(h.out, "\n"+ui.Paint(ui.ColorBold, fmt.Sprintf("=== Задача #%d ===", task.ID)))
	fmt.Fprintf(h.out, "%s %s\n", ui.Paint(ui.ColorCyan, ui.IconDocument+" Описание:"), task.UserInput)
	fmt.Fprintf(h.out, "%s %s\n", ui.Paint(ui.ColorCyan, ui.IconChart+" Статус:"), statusText)
	fmt.Fprintf(h.out, "%s %s\n", ui.Paint(ui.ColorCyan, ui.IconTime+" Создана:"), task.CreatedAt.Format("2006-01-02 15:04:05"))
	if task.ResultSummary != "" {
		fmt.Fprintf(h.out, "%s %s\n", ui.Paint(ui.ColorCyan, ui.IconChat+" Результат:"), task.ResultSummary)
	}

	runs, err := h.store.GetRunsByTaskID(task.ID)
	if err != nil {
		h.log.Error("Ошибка получения прогонов", zap.Error(err))
		ui.Error(h.out, "Ошибка получения прогонов")
		return
	}
	if len(runs) == 0 {
		fmt.Fprintln(h.out, ui.Paint(ui.ColorGray, "Прогонов не было"))
		return
	}

	for _, run := range runs {
		fmt.Fprintf(h.out, "\n%s %s %s\n",
			ui.Paint(ui.ColorGray, "["+run.CreatedAt.Format("15:04:05")+"]"),
			ui.Paint(ui.ColorYellow, run.URL),
			ui.Paint(ui.ColorGray, run.RunID))
		for _, line := range strings.Split(run.Report, "\n") {
			if line != "" {
				fmt.Fprintln(h.out, "  "+ui.ReportLine(line))
			}
		}
		if run.Rates == "" {
			continue
		}
		var rates extractor.Rates
		if err := json.Unmarshal([]byte(run.Rates), &rates); err != nil {
			h.log.Warn("Не удалось разобрать ставки", zap.String("run_id", run.RunID), zap.Error(err))
			continue
		}
		if rates.Found() {
			fmt.Fprintf(h.out, "  %s %s\n", ui.IconChart, rates.Summary())
		}
	}
	fmt.Fprintln(h.out)
}

// Logs выводит LLM запросы задачи
func (h *ShowHandler) Logs(idStr string) {
	task, ok := lookupTask(h.out, h.store, idStr)
	if !ok {
		return
	}
	logs, err := h.store.GetLLMLogs(&task.ID, logsLimit)
	if err != nil {
		h.log.Error("Ошибка получения логов", zap.Error(err))
		ui.Error(h.out, "Ошибка получения логов")
		return
	}

	fmt.Fprintln(h.out, "\n"+ui.Paint(ui.ColorBold, fmt.Sprintf("=== %s Логи задачи #%d ===", ui.IconList, task.ID)))
	if len(logs) == 0 {
		fmt.Fprintln(h.out, ui.Paint(ui.ColorGray, "Запросов к LLM не было"))
		return
	}
	for _, l := range logs {
		role := ui.Paint(ui.ColorCyan, l.Role)
		if l.Role == "error" {
			role = ui.Paint(ui.ColorRed, "[ОШИБКА]")
		}
		fmt.Fprintf(h.out, "%s %s %s %s\n",
			ui.Paint(ui.ColorGray, "["+l.CreatedAt.Format("15:04:05")+"]"),
			role,
			ui.Paint(ui.ColorGray, l.Model),
			ui.Paint(ui.ColorGray, fmt.Sprintf("%d tok", l.TokensUsed)))
		if l.ResponseText != "" {
			fmt.Fprintln(h.out, "  "+ui.Truncate(l.ResponseText, 200))
		}
	}
	fmt.Fprintln(h.out)
}
