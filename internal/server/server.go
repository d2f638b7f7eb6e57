package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"formAgent/internal/agent"
	"formAgent/internal/config"
	"formAgent/internal/database"
	"formAgent/internal/extractor"
	"formAgent/internal/formfill"
	"formAgent/internal/logger"
)

// Store - операции с задачами, которые нужны HTTP API.
type Store interface {
	CreateTask(t *database.Task) error
	GetTaskByID(id uint) (*database.Task, error)
	ListTasks(limit, offset int) ([]database.Task, error)
	GetRunsByTaskID(taskID uint) ([]database.FillRun, error)
}

// Runner - агент, который выполняет заполнение.
type Runner interface {
	Fill(ctx context.Context, rawURL string, values formfill.Values, taskID *uint) (*agent.Outcome, error)
	ExecuteTaskByID(ctx context.Context, id uint) (*agent.Outcome, error)
}

type Server struct {
	cfg    *config.Cfg
	log    *logger.Zap
	store  Store
	runner Runner
}

func New(cfg *config.Cfg, log *logger.Zap, store Store, runner Runner) *Server {
	return &Server{
		cfg:    cfg,
		log:    log.Named("http"),
		store:  store,
		runner: runner,
	}
}

type outcomeResponse struct {
	RunID          string           `json:"run_id"`
	URL            string           `json:"url"`
	FormsDetected  int              `json:"forms_detected"`
	FormsSubmitted int              `json:"forms_submitted"`
	Log            []string         `json:"log"`
	Rates          *extractor.Rates `json:"rates,omitempty"`
}

func toResponse(o *agent.Outcome) outcomeResponse {
	return outcomeResponse{
		RunID:          o.RunID,
		URL:            o.URL,
		FormsDetected:  o.Report.FormsDetected,
		FormsSubmitted: o.Report.FormsSubmitted,
		Log:            o.Report.Log,
		Rates:          o.Rates,
	}
}

// Handler собирает маршруты. Вынесен отдельно для тестов.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("HTTP",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/task", s.createTask)
	api.GET("/task/:id", s.getTask)
	api.GET("/tasks", s.listTasks)
	api.POST("/task/:id/run", s.runTask)
	api.GET("/task/:id/runs", s.taskRuns)
	api.POST("/fill", s.fill)

	return r
}

func (s *Server) createTask(c *gin.Context) {
	var req struct {
		UserInput string `json:"user_input" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := database.Task{
		UserInput: req.UserInput,
		Status:    database.StatusPending,
	}
	if err := s.store.CreateTask(&task); err != nil {
		s.log.Error("db create task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"task_id": task.ID})
}

func (s *Server) getTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	task, err := s.store.GetTaskByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) listTasks(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	tasks, err := s.store.ListTasks(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) runTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	out, err := s.runner.ExecuteTaskByID(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(out))
}

func (s *Server) taskRuns(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	runs, err := s.store.GetRunsByTaskID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (s *Server) fill(c *gin.Context) {
	var req struct {
		URL    string            `json:"url" binding:"required"`
		Fields map[string]string `json:"fields"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := s.runner.Fill(c.Request.Context(), req.URL, formfill.Values(req.Fields), nil)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(out))
}

func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		status = http.StatusNotFound
	case errors.Is(err, agent.ErrBlockedURL), errors.Is(err, agent.ErrCriticalDomain):
		status = http.StatusForbidden
	case errors.Is(err, agent.ErrNoURL):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, agent.ErrCircuitOpen):
		status = http.StatusServiceUnavailable
	}
	s.log.Warn("ошибка выполнения", zap.Int("status", status), zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}

func taskID(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad id"})
		return 0, false
	}
	return uint(id64), true
}

// Run слушает адрес из конфигурации до отмены ctx.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.App.Host, s.cfg.App.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Сервер запущен", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("Остановка сервера")
		return srv.Shutdown(shutdownCtx)
	}
}
