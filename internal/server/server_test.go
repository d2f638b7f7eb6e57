package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"formAgent/internal/agent"
	"formAgent/internal/config"
	"formAgent/internal/database"
	"formAgent/internal/extractor"
	"formAgent/internal/formfill"
	"formAgent/internal/logger"
)

type fakeStore struct {
	tasks map[uint]*database.Task
	runs  map[uint][]database.FillRun
	next  uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{tasks: map[uint]*database.Task{}, runs: map[uint][]database.FillRun{}, next: 1}
}

func (f *fakeStore) CreateTask(t *database.Task) error {
	t.ID = f.next
	f.next++
	f.tasks[t.ID] = t
	return nil
}

func (f *fakeStore) GetTaskByID(id uint) (*database.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (f *fakeStore) ListTasks(limit, offset int) ([]database.Task, error) {
	out := []database.Task{}
	for id := f.next - 1; id >= 1 && len(out) < limit; id-- {
		if t, ok := f.tasks[id]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeStore) GetRunsByTaskID(taskID uint) ([]database.FillRun, error) {
	return f.runs[taskID], nil
}

type fakeRunner struct {
	store  *fakeStore
	values formfill.Values
	err    error
}

func outcome(url string) *agent.Outcome {
	return &agent.Outcome{
		RunID:  "run-1",
		URL:    url,
		Report: &formfill.Report{FormsDetected: 1, FormsSubmitted: 1, Log: []string{"[main page] Submitted form by sending Enter key."}},
		Rates:  &extractor.Rates{Percentages: []string{"14%"}, Source: extractor.SourceTableRow},
	}
}

func (f *fakeRunner) Fill(_ context.Context, rawURL string, values formfill.Values, _ *uint) (*agent.Outcome, error) {
	f.values = values
	if f.err != nil {
		return nil, f.err
	}
	return outcome(rawURL), nil
}

func (f *fakeRunner) ExecuteTaskByID(_ context.Context, id uint) (*agent.Outcome, error) {
	task, err := f.store.GetTaskByID(id)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения задачи: %w", err)
	}
	if f.err != nil {
		return nil, f.err
	}
	task.Status = database.StatusCompleted
	return outcome("https://lookup.test/"), nil
}

func newTestServer(t *testing.T) (*fakeStore, *fakeRunner, http.Handler) {
	gin.SetMode(gin.TestMode)
	store := newFakeStore()
	runner := &fakeRunner{store: store}
	s := New(&config.Cfg{}, logger.Wrap(zaptest.NewLogger(t)), store, runner)
	return store, runner, s.Handler()
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	_, _, h := newTestServer(t)

	w := do(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestTaskLifecycle(t *testing.T) {
	store, _, h := newTestServer(t)

	w := do(h, http.MethodPost, "/api/task", `{"user_input":"fill https://lookup.test/"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"task_id":1}`, w.Body.String())

	w = do(h, http.MethodGet, "/api/task/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var task database.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	assert.Equal(t, database.StatusPending, task.Status)

	w = do(h, http.MethodPost, "/api/task/1/run", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp outcomeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.FormsSubmitted)
	assert.Equal(t, []string{"14%"}, resp.Rates.Percentages)
	assert.Equal(t, database.StatusCompleted, store.tasks[1].Status)

	store.runs[1] = []database.FillRun{{RunID: "run-1", URL: "https://lookup.test/", FormsSubmitted: 1}}
	w = do(h, http.MethodGet, "/api/task/1/runs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"run_id":"run-1"`)

	w = do(h, http.MethodGet, "/api/tasks?limit=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_input":"fill https://lookup.test/"`)
}

func TestTaskErrors(t *testing.T) {
	_, _, h := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/task", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/api/task/abc", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/task/42", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodPost, "/api/task/42/run", "").Code)
}

func TestFillEndpoint(t *testing.T) {
	_, runner, h := newTestServer(t)

	w := do(h, http.MethodPost, "/api/fill", `{"url":"https://lookup.test/","fields":{"hs_code":"8517.62"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, formfill.Values{"hs_code": "8517.62"}, runner.values)

	var resp outcomeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://lookup.test/", resp.URL)
	assert.Equal(t, "run-1", resp.RunID)

	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/fill", `{"fields":{}}`).Code)
}

func TestFillErrorStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", agent.ErrBlockedURL), http.StatusForbidden},
		{agent.ErrCriticalDomain, http.StatusForbidden},
		{agent.ErrCircuitOpen, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		_, runner, h := newTestServer(t)
		runner.err = tc.err

		w := do(h, http.MethodPost, "/api/fill", `{"url":"https://lookup.test/"}`)
		assert.Equal(t, tc.want, w.Code, tc.err.Error())
	}
}
