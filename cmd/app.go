package main

import (
	"errors"

	"go.uber.org/zap"

	"formAgent/internal/agent"
	"formAgent/internal/browser"
	"formAgent/internal/config"
	"formAgent/internal/database"
	"formAgent/internal/llm"
	"formAgent/internal/logger"
	"formAgent/internal/migrations"
)

var errDatabaseRequired = errors.New("для этой команды нужна БД: задайте DB_HOST")

// app держит общие зависимости команд.
type app struct {
	cfg  *config.Cfg
	log  *logger.Zap
	db   *database.DB
	repo *database.TaskRepository
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.NewWithFile(cfg.Logger.Env, cfg.Logger.Level, logger.FileConfig{
		Path:       cfg.Logger.File,
		MaxSizeMB:  cfg.Logger.MaxSizeMB,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAgeDays: cfg.Logger.MaxAgeDays,
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	return nil
}

// connectStore применяет миграции и подключает БД. Без DB_HOST работаем без истории,
// если только БД не обязательна.
func (a *app) connectStore(required bool) error {
	if a.cfg.Database.Host == "" {
		if required {
			return errDatabaseRequired
		}
		a.log.Warn("DB_HOST не задан, задачи и прогоны не сохраняются")
		return nil
	}

	if err := migrations.Run(a.cfg, a.log); err != nil {
		return err
	}
	db, err := database.New(a.cfg, a.log)
	if err != nil {
		return err
	}
	a.db = db
	a.repo = database.NewTaskRepository(db.DB)
	return nil
}

func (a *app) newRunner() *agent.Runner {
	br := browser.New(browser.Config{
		Headless:        a.cfg.Browser.Headless,
		UserDataDir:     a.cfg.Browser.UserDataDir,
		BrowsersPath:    a.cfg.Browser.BrowsersPath,
		Display:         a.cfg.Browser.Display,
		Timeout:         a.cfg.Browser.Timeout,
		NavigateTimeout: a.cfg.Browser.NavigateTimeout,
	})

	// интерфейсы остаются nil, если зависимости нет
	var (
		store     agent.TaskStore
		llmLog    llm.Logger
		extractor agent.FormTaskExtractor
	)
	if a.repo != nil {
		store = a.repo
		llmLog = a.repo
	}

	if a.cfg.OpenAI.KeyAI != "" {
		client := llm.NewClient(a.cfg.OpenAI, llmLog)
		extractor = client
		br.SetPopupDetector(browser.NewLLMPopupDetector(client))
		a.log.Info("LLM подключен", zap.String("model", a.cfg.OpenAI.Model))
	} else {
		a.log.Info("OPENAI_API_KEY не задан, инструкции разбираются правилами")
	}

	return agent.New(br, store, extractor, a.log, agent.ConfigFrom(a.cfg))
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close(a.log)
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}
