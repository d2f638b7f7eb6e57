package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"formAgent/internal/browser"
	"formAgent/internal/database"
	"formAgent/internal/extractor"
	"formAgent/internal/formfill"
	"formAgent/internal/logger"
	"formAgent/internal/sanitizer"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Runner владеет одной сессией браузера, поэтому прогоны идут строго по очереди.
type Runner struct {
	mu        sync.Mutex
	browser   browser.Browser
	store     TaskStore
	extractor FormTaskExtractor
	sanitizer *sanitizer.DataSanitizer
	breakers  *breakerPool
	log       *logger.Zap
	cfg       Config
}

// New создает агента. store и extractor могут быть nil: тогда прогоны
// не сохраняются, а инструкции разбираются только правилами.
func New(br browser.Browser, store TaskStore, extractor FormTaskExtractor, log *logger.Zap, cfg Config) *Runner {
	if cfg.Retries == 0 {
		cfg.Retries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.Filler == (formfill.Options{}) {
		cfg.Filler = formfill.DefaultOptions()
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Runner{
		browser:   br,
		store:     store,
		extractor: extractor,
		sanitizer: sanitizer.New(),
		breakers:  newBreakerPool(cfg.MaxFailures, cfg.ResetTimeout),
		log:       log.Named("agent"),
		cfg:       cfg,
	}
}

func (r *Runner) contextFields(taskID *uint, fields ...zap.Field) []zap.Field {
	if taskID == nil {
		return fields
	}
	return append([]zap.Field{zap.Uint("task_id", *taskID)}, fields...)
}

// Plan разбирает инструкцию: сначала через LLM, при ошибке правилами.
func (r *Runner) Plan(ctx context.Context, instruction string, taskID *uint) *Instruction {
	parsed := ParseInstruction(instruction)
	if r.extractor == nil {
		return parsed
	}

	task, err := r.extractor.ExtractFormTask(ctx, instruction, taskID)
	if err != nil {
		r.log.Warn("LLM не разобрал инструкцию, используем правила", r.contextFields(taskID, zap.Error(err))...)
		return parsed
	}

	// значения из правил дополняют ответ модели, но не перекрывают его
	fields := formfill.Values{}
	for k, v := range parsed.Fields {
		fields[k] = v
	}
	for k, v := range task.Fields {
		fields[k] = v
	}
	parsed.URL = task.URL
	parsed.Fields = fields
	parsed.Source = "llm"
	return parsed
}

// Run разбирает инструкцию и заполняет формы на найденной странице.
func (r *Runner) Run(ctx context.Context, instruction string, taskID *uint) (*Outcome, error) {
	plan := r.Plan(ctx, instruction, taskID)
	if plan.URL == "" {
		return nil, ErrNoURL
	}
	r.log.Info("инструкция разобрана", r.contextFields(taskID,
		zap.String("url", plan.URL),
		zap.String("source", plan.Source),
		zap.Int("fields", len(plan.Fields)))...)

	return r.Fill(ctx, plan.URL, plan.Fields, taskID)
}

// Fill открывает страницу, заполняет все формы, извлекает ставки пошлин и сохраняет прогон.
func (r *Runner) Fill(ctx context.Context, rawURL string, values formfill.Values, taskID *uint) (*Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.open(ctx, rawURL); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := r.log.With(r.contextFields(taskID, zap.String("run_id", runID), zap.String("url", rawURL))...)

	report := formfill.New(r.browser, log, r.cfg.Filler).FillEveryForm(ctx, values)

	var rates *extractor.Rates
	markup, err := r.browser.CurrentMarkup(ctx)
	if err != nil {
		log.Warn("не удалось получить страницу после заполнения", zap.Error(err))
	} else if rates, err = extractor.ExtractRates(markup); err != nil {
		log.Warn("ошибка извлечения ставок", zap.Error(err))
	}

	out := &Outcome{RunID: runID, URL: rawURL, Report: report, Rates: rates}
	log.Info("прогон завершен",
		zap.Int("forms_detected", report.FormsDetected),
		zap.Int("forms_submitted", report.FormsSubmitted),
		zap.Bool("rates_found", rates.Found()))

	r.saveRun(log, out, taskID)
	return out, nil
}

func (r *Runner) saveRun(log *logger.Zap, out *Outcome, taskID *uint) {
	if r.store == nil {
		return
	}

	run := &database.FillRun{
		TaskID:         taskID,
		RunID:          out.RunID,
		URL:            out.URL,
		FormsDetected:  out.Report.FormsDetected,
		FormsSubmitted: out.Report.FormsSubmitted,
		Report:         r.sanitizer.Sanitize(out.Report.String()),
	}
	if out.Rates != nil {
		if data, err := json.Marshal(out.Rates); err == nil {
			run.Rates = string(data)
		}
	}

	if err := r.store.CreateRun(run); err != nil {
		log.Error("ошибка сохранения прогона", zap.Error(err))
	}
}

// Open запускает браузер и переходит по адресу.
func (r *Runner) Open(ctx context.Context, rawURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.open(ctx, rawURL)
}

func (r *Runner) open(ctx context.Context, rawURL string) error {
	if err := checkURL(rawURL, r.cfg.AllowCritical); err != nil {
		return err
	}
	if err := r.browser.Launch(ctx); err != nil {
		return fmt.Errorf("ошибка запуска браузера: %w", err)
	}

	breaker := r.breakers.forURL(rawURL)
	err := breaker.Call(func() error {
		return retryAction(ctx, r.cfg.Retries, r.cfg.RetryDelay, func() error {
			return r.browser.Navigate(ctx, rawURL)
		})
	})
	if err != nil {
		actionErr := classifyError("navigate", err)
		r.log.Warn("навигация не удалась",
			zap.String("url", rawURL),
			zap.String("error_type", actionErr.Type.String()),
			zap.Error(err))
		return fmt.Errorf("навигация на %s: %w", rawURL, err)
	}
	return nil
}

// Source возвращает текущую разметку страницы.
func (r *Runner) Source(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.browser.CurrentMarkup(ctx)
}

// Shutdown закрывает браузер. Можно вызывать сколько угодно раз.
func (r *Runner) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.browser.Shutdown()
}

// ExecuteTask выполняет сохраненную задачу и переводит ее в completed или failed.
func (r *Runner) ExecuteTask(ctx context.Context, task *database.Task) (*Outcome, error) {
	if r.store == nil {
		return nil, fmt.Errorf("хранилище задач не настроено")
	}
	if err := r.store.UpdateTaskStatus(task.ID, database.StatusRunning, ""); err != nil {
		return nil, fmt.Errorf("ошибка обновления статуса задачи: %w", err)
	}

	out, err := r.Run(ctx, task.UserInput, &task.ID)
	if err != nil {
		if uerr := r.store.UpdateTaskStatus(task.ID, database.StatusFailed, r.sanitizer.Sanitize(err.Error())); uerr != nil {
			r.log.Error("ошибка обновления статуса", r.contextFields(&task.ID, zap.Error(uerr))...)
		}
		return nil, err
	}

	status := database.StatusCompleted
	if !out.Report.Succeeded() {
		status = database.StatusFailed
	}
	if err := r.store.UpdateTaskStatus(task.ID, status, r.sanitizer.Sanitize(out.Summary())); err != nil {
		r.log.Error("ошибка обновления статуса", r.contextFields(&task.ID, zap.Error(err))...)
	}
	return out, nil
}

// ExecuteTaskByID загружает задачу и выполняет ее.
func (r *Runner) ExecuteTaskByID(ctx context.Context, id uint) (*Outcome, error) {
	if r.store == nil {
		return nil, fmt.Errorf("хранилище задач не настроено")
	}
	task, err := r.store.GetTaskByID(id)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения задачи: %w", err)
	}
	return r.ExecuteTask(ctx, task)
}
