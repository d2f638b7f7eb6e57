package commands

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"formAgent/internal/cli/ui"
	"formAgent/internal/database"
	"formAgent/internal/logger"
)

const listLimit = 50

// TaskHandler обрабатывает команды связанные с задачами
type TaskHandler struct {
	store Store
	agent Agent
	log   *logger.Zap
	out   io.Writer
}

func NewTaskHandler(store Store, ag Agent, log *logger.Zap, out io.Writer) *TaskHandler {
	return &TaskHandler{store: store, agent: ag, log: log, out: out}
}

// Create создает новую задачу
func (h *TaskHandler) Create(userInput string) {
	if h.store == nil {
		ui.Error(h.out, "База данных не подключена")
		return
	}
	task := database.Task{UserInput: userInput, Status: database.StatusPending}
	if err := h.store.CreateTask(&task); err != nil {
		h.log.Error("Ошибка создания задачи", zap.Error(err))
		ui.Error(h.out, "Ошибка: %v", err)
		return
	}
	ui.Success(h.out, "Создана задача #%d", task.ID)
}

// List выводит последние задачи
func (h *TaskHandler) List() {
	if h.store == nil {
		ui.Error(h.out, "База данных не подключена")
		return
	}
	tasks, err := h.store.ListTasks(listLimit, 0)
	if err != nil {
		h.log.Error("Ошибка чтения задач", zap.Error(err))
		ui.Error(h.out, "Ошибка чтения задач")
		return
	}
	if len(tasks) == 0 {
		fmt.Fprintln(h.out, ui.Paint(ui.ColorGray, "Задач пока нет"))
		return
	}
	fmt.Fprintln(h.out, "\n"+ui.Paint(ui.ColorBold, ui.IconList+" Список задач:"))
	for _, t := range tasks {
		icon, color, text := ui.FormatStatus(t.Status)
		fmt.Fprintf(h.out, "  %s %s\n", ui.Paint(ui.ColorBold, fmt.Sprintf("#%d", t.ID)), ui.Paint(color, icon+" "+text))
		fmt.Fprintf(h.out, "  %s %s\n", ui.Paint(ui.ColorGray, "└─"), t.UserInput)
	}
	fmt.Fprintln(h.out)
}

// Status показывает статус задачи
func (h *TaskHandler) Status(idStr string) {
	task, ok := lookupTask(h.out, h.store, idStr)
	if !ok {
		return
	}
	icon, color, text := ui.FormatStatus(task.Status)
	fmt.Fprintf(h.out, "%s %s\n", ui.Paint(ui.ColorBold, fmt.Sprintf("Задача #%d", task.ID)), ui.Paint(color, icon+" "+text))
	fmt.Fprintf(h.out, "  %s %s\n", ui.IconDocument, task.UserInput)
	fmt.Fprintf(h.out, "  %s %s\n", ui.IconTime, task.CreatedAt.Format("2006-01-02 15:04:05"))
}

// Run выполняет сохраненную задачу
func (h *TaskHandler) Run(ctx context.Context, idStr string) {
	task, ok := lookupTask(h.out, h.store, idStr)
	if !ok {
		return
	}
	fmt.Fprintln(h.out, ui.Paint(ui.ColorCyan, fmt.Sprintf("%s Запуск задачи #%d: %s", ui.IconPlay, task.ID, task.UserInput)))

	out, err := h.agent.ExecuteTask(ctx, task)
	if err != nil {
		ui.Error(h.out, "Ошибка: %v", err)
		return
	}
	printOutcome(h.out, out)
}
