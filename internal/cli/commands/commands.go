// Package commands - обработчики команд интерактивного режима.
package commands

import (
	"context"
	"io"
	"strconv"
	"strings"

	"formAgent/internal/agent"
	"formAgent/internal/cli/ui"
	"formAgent/internal/database"
)

// Agent - то, что команды вызывают у агента.
type Agent interface {
	Plan(ctx context.Context, instruction string, taskID *uint) *agent.Instruction
	Run(ctx context.Context, instruction string, taskID *uint) (*agent.Outcome, error)
	ExecuteTask(ctx context.Context, task *database.Task) (*agent.Outcome, error)
	Open(ctx context.Context, rawURL string) error
	Source(ctx context.Context) (string, error)
	Shutdown()
}

// Store - чтение и запись задач. Может отсутствовать, если БД не настроена.
type Store interface {
	CreateTask(t *database.Task) error
	GetTaskByID(id uint) (*database.Task, error)
	ListTasks(limit, offset int) ([]database.Task, error)
	GetRunsByTaskID(taskID uint) ([]database.FillRun, error)
	GetLLMLogs(taskID *uint, limit int) ([]database.LlmLog, error)
}

func parseID(w io.Writer, s string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		ui.Error(w, "Неверный ID задачи")
		return 0, false
	}
	return uint(id), true
}

func lookupTask(w io.Writer, store Store, idStr string) (*database.Task, bool) {
	if store == nil {
		ui.Error(w, "База данных не подключена")
		return nil, false
	}
	id, ok := parseID(w, idStr)
	if !ok {
		return nil, false
	}
	task, err := store.GetTaskByID(id)
	if err != nil {
		ui.Error(w, "Задача не найдена")
		return nil, false
	}
	return task, true
}
