package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"formAgent/internal/browser"
	"formAgent/internal/database"
	"formAgent/internal/formfill"
	"formAgent/internal/llm"
)

func TestExecuteTaskFillsFormAndStoresRun(t *testing.T) {
	page := lookupSite()
	store := &storeMock{}
	store.On("UpdateTaskStatus", uint(5), database.StatusRunning, "").Return(nil).Once()
	store.On("CreateRun", mock.MatchedBy(func(run *database.FillRun) bool {
		return run.TaskID != nil && *run.TaskID == 5 &&
			run.URL == "https://lookup.test/" &&
			run.FormsDetected == 1 && run.FormsSubmitted == 1 &&
			strings.Contains(run.Rates, "14%") &&
			strings.HasPrefix(run.Report, "Detected 1 form(s)")
	})).Return(nil).Once()
	store.On("UpdateTaskStatus", uint(5), database.StatusCompleted, mock.MatchedBy(func(s string) bool {
		return strings.Contains(s, "submitted 1 of 1") && strings.Contains(s, "14%")
	})).Return(nil).Once()

	r := New(page, store, nil, testLogger(t), testConfig())
	out, err := r.ExecuteTask(context.Background(), &database.Task{
		ID:        5,
		UserInput: "Find the import duty for HS code 8517.62 at https://lookup.test/ for China",
	})
	require.NoError(t, err)

	store.AssertExpectations(t)
	assert.Equal(t, "https://lookup.test/result", page.URL())
	assert.Equal(t, []string{"14%"}, out.Rates.Percentages)
	assert.NotEmpty(t, out.RunID)

	subs := page.Submissions()
	require.Len(t, subs, 1)
	assert.Equal(t, "8517.62", subs[0].Fields.Get("hs_code"))
}

func TestExecuteTaskWithoutURLFails(t *testing.T) {
	store := &storeMock{}
	store.On("UpdateTaskStatus", uint(1), database.StatusRunning, "").Return(nil).Once()
	store.On("UpdateTaskStatus", uint(1), database.StatusFailed, ErrNoURL.Error()).Return(nil).Once()

	r := New(lookupSite(), store, nil, testLogger(t), testConfig())
	_, err := r.ExecuteTask(context.Background(), &database.Task{ID: 1, UserInput: "fill something somewhere"})

	assert.ErrorIs(t, err, ErrNoURL)
	store.AssertExpectations(t)
}

func TestExecuteTaskByIDPropagatesLookupError(t *testing.T) {
	store := &storeMock{}
	store.On("GetTaskByID", uint(9)).Return(nil, errors.New("record not found")).Once()

	r := New(lookupSite(), store, nil, testLogger(t), testConfig())
	_, err := r.ExecuteTaskByID(context.Background(), 9)

	assert.Error(t, err)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "UpdateTaskStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestFillUnknownPageIsNotRetried(t *testing.T) {
	r := New(lookupSite(), nil, nil, testLogger(t), Config{Retries: 3, RetryDelay: 1, Filler: testConfig().Filler})

	_, err := r.Fill(context.Background(), "https://lookup.test/missing", nil, nil)
	assert.ErrorIs(t, err, browser.ErrRouteNotFound)
}

func TestFillRefusesBlockedURL(t *testing.T) {
	page := lookupSite()
	r := New(page, nil, nil, testLogger(t), testConfig())

	_, err := r.Fill(context.Background(), "https://lookup.test/wp-admin/", nil, nil)
	assert.ErrorIs(t, err, ErrBlockedURL)
	assert.Empty(t, page.URL())
}

func TestFillWithoutStore(t *testing.T) {
	r := New(lookupSite(), nil, nil, testLogger(t), testConfig())

	out, err := r.Fill(context.Background(), "https://lookup.test/", formfill.Values{"hs_code": "0101.21"}, nil)
	require.NoError(t, err)
	assert.True(t, out.Report.Succeeded())
	assert.Contains(t, out.Summary(), "duty rates")
}

func TestPlanPrefersExtractor(t *testing.T) {
	ext := &extractorMock{}
	ext.On("ExtractFormTask", "lookup 8517.62").Return(&llm.FormTask{
		URL:    "https://lookup.test/",
		Fields: map[string]string{"hs_code": "0101.21"},
	}, nil).Once()

	r := New(lookupSite(), nil, ext, testLogger(t), testConfig())
	plan := r.Plan(context.Background(), "lookup 8517.62", nil)

	assert.Equal(t, "llm", plan.Source)
	assert.Equal(t, "https://lookup.test/", plan.URL)
	assert.Equal(t, "0101.21", plan.Fields["hs_code"])
	assert.Equal(t, "8517.62", plan.Fields["hscode"])
	ext.AssertExpectations(t)
}

func TestPlanFallsBackToRules(t *testing.T) {
	ext := &extractorMock{}
	ext.On("ExtractFormTask", mock.Anything).Return(nil, errors.New("rate limit")).Once()

	r := New(lookupSite(), nil, ext, testLogger(t), testConfig())
	plan := r.Plan(context.Background(), "open https://lookup.test/ as a@b.co", nil)

	assert.Equal(t, "rules", plan.Source)
	assert.Equal(t, "https://lookup.test/", plan.URL)
	assert.Equal(t, "a@b.co", plan.Fields["email"])
}

func TestOpenSourceShutdown(t *testing.T) {
	r := New(lookupSite(), nil, nil, testLogger(t), testConfig())
	ctx := context.Background()

	require.NoError(t, r.Open(ctx, "https://lookup.test/"))
	markup, err := r.Source(ctx)
	require.NoError(t, err)
	assert.Contains(t, markup, "Tariff lookup")

	r.Shutdown()
	r.Shutdown()
	_, err = r.Source(ctx)
	assert.ErrorIs(t, err, browser.ErrNotLaunched)
}
