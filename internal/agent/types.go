// Package agent превращает инструкцию пользователя в прогон заполнения форм:
// разбирает инструкцию, открывает страницу, заполняет формы, извлекает ставки
// пошлин и сохраняет итог.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"formAgent/internal/config"
	"formAgent/internal/database"
	"formAgent/internal/extractor"
	"formAgent/internal/formfill"
	"formAgent/internal/llm"
)

// TaskStore - часть репозитория, нужная агенту.
type TaskStore interface {
	GetTaskByID(id uint) (*database.Task, error)
	UpdateTaskStatus(id uint, status, summary string) error
	CreateRun(run *database.FillRun) error
}

// FormTaskExtractor превращает текст в url и значения полей (обычно LLM).
type FormTaskExtractor interface {
	ExtractFormTask(ctx context.Context, instruction string, taskID *uint) (*llm.FormTask, error)
}

type Config struct {
	Retries       int           // попытки навигации
	RetryDelay    time.Duration // пауза между попытками
	MaxFailures   int           // ошибок подряд до отключения сайта
	ResetTimeout  time.Duration // через сколько сайт снова пробуем
	AllowCritical bool          // разрешить банки и госсервисы
	Filler        formfill.Options
}

// ConfigFrom собирает настройки агента из конфигурации приложения.
func ConfigFrom(cfg *config.Cfg) Config {
	return Config{
		Retries:       cfg.Agent.Retries,
		RetryDelay:    cfg.Agent.RetryDelay,
		MaxFailures:   cfg.Agent.MaxFailures,
		ResetTimeout:  cfg.Agent.ResetTimeout,
		AllowCritical: cfg.Agent.AllowCritical,
		Filler:        formfill.OptionsFromConfig(cfg.Filler),
	}
}

// Outcome - результат одного прогона.
type Outcome struct {
	RunID  string
	URL    string
	Report *formfill.Report
	Rates  *extractor.Rates
}

// Summary - короткая строка для статуса задачи.
func (o *Outcome) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: submitted %d of %d form(s)", o.URL, o.Report.FormsSubmitted, o.Report.FormsDetected)
	if o.Rates != nil && o.Rates.Found() {
		b.WriteString("; ")
		b.WriteString(o.Rates.Summary())
	}
	return b.String()
}
