package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formAgent/internal/config"
)

type fakeChat struct {
	resp openai.ChatCompletionResponse
	err  error
	reqs []openai.ChatCompletionRequest
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.reqs = append(f.reqs, req)
	return f.resp, f.err
}

type logEntry struct {
	taskID   *uint
	role     string
	prompt   string
	response string
}

type recordingLogger struct{ entries []logEntry }

func (l *recordingLogger) LogLLMRequest(_ context.Context, taskID *uint, role, prompt, response, _ string, _ int) error {
	l.entries = append(l.entries, logEntry{taskID: taskID, role: role, prompt: prompt, response: response})
	return nil
}

func toolResponse(name, args string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{
				Role: openai.ChatMessageRoleAssistant,
				ToolCalls: []openai.ToolCall{{
					Type:     openai.ToolTypeFunction,
					Function: openai.FunctionCall{Name: name, Arguments: args},
				}},
			},
		}},
		Usage: openai.Usage{TotalTokens: 42},
	}
}

func testConfig() config.OpenAI {
	return config.OpenAI{Model: "gpt-4o", MaxTokens: 500, RequestsPerMinute: 10, TokensPerHour: 100000}
}

func TestExtractFormTask(t *testing.T) {
	chat := &fakeChat{resp: toolResponse(fillEveryFormTool,
		`{"url":" https://shop.test/login ","fields":{"email":"me@mail.com"},"reasoning":"login form"}`)}
	log := &recordingLogger{}
	c := NewClientWithAPI(chat, testConfig(), log)
	id := uint(7)

	task, err := c.ExtractFormTask(context.Background(), "log in at https://shop.test/login as me@mail.com", &id)
	require.NoError(t, err)

	assert.Equal(t, &FormTask{
		URL:       "https://shop.test/login",
		Fields:    map[string]string{"email": "me@mail.com"},
		Reasoning: "login form",
	}, task)

	require.Len(t, chat.reqs, 1)
	req := chat.reqs[0]
	assert.Equal(t, 500, req.MaxTokens)
	require.Len(t, req.Tools, 1)
	assert.Equal(t, fillEveryFormTool, req.Tools[0].Function.Name)

	require.Len(t, log.entries, 1)
	entry := log.entries[0]
	assert.Equal(t, &id, entry.taskID)
	assert.Equal(t, "assistant", entry.role)
	assert.NotContains(t, entry.prompt, "me@mail.com")
	assert.NotContains(t, entry.response, "me@mail.com")
	assert.Contains(t, entry.prompt, "[FILTERED_EMAIL]")
}

func TestExtractFormTaskWithoutToolCall(t *testing.T) {
	chat := &fakeChat{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "no idea"}}},
	}}
	c := NewClientWithAPI(chat, testConfig(), nil)

	_, err := c.ExtractFormTask(context.Background(), "hello", nil)
	assert.Error(t, err)
}

func TestExtractFormTaskAPIError(t *testing.T) {
	chat := &fakeChat{err: errors.New("connection reset")}
	log := &recordingLogger{}
	c := NewClientWithAPI(chat, testConfig(), log)

	_, err := c.ExtractFormTask(context.Background(), "fill https://a.test", nil)
	require.Error(t, err)
	require.Len(t, log.entries, 1)
	assert.Equal(t, "error", log.entries[0].role)
}

func TestParseFormTask(t *testing.T) {
	_, err := parseFormTask(openai.ToolCall{Function: openai.FunctionCall{Name: "click", Arguments: `{}`}})
	assert.Error(t, err)

	_, err = parseFormTask(openai.ToolCall{Function: openai.FunctionCall{Name: fillEveryFormTool, Arguments: `{"fields":{}}`}})
	assert.Error(t, err)

	_, err = parseFormTask(openai.ToolCall{Function: openai.FunctionCall{Name: fillEveryFormTool, Arguments: `{bad`}})
	assert.Error(t, err)

	task, err := parseFormTask(openai.ToolCall{Function: openai.FunctionCall{Name: fillEveryFormTool, Arguments: `{"url":"https://a.test"}`}})
	require.NoError(t, err)
	assert.NotNil(t, task.Fields)
}

func TestAnalyzePopup(t *testing.T) {
	chat := &fakeChat{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{
			Content: `{"has_popup":true,"close_selector":"#close","popup_description":"cookie banner","reasoning":"x"}`,
		}}},
	}}
	c := NewClientWithAPI(chat, testConfig(), nil)

	info, err := c.AnalyzePopup(context.Background(), `[{"tag":"button","text":"x"}]`)
	require.NoError(t, err)
	assert.True(t, info.HasPopup)
	assert.Equal(t, "#close", info.CloseSelector)

	require.Len(t, chat.reqs, 1)
	require.NotNil(t, chat.reqs[0].ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, chat.reqs[0].ResponseFormat.Type)
}

func TestRateLimitStopsRequests(t *testing.T) {
	chat := &fakeChat{resp: toolResponse(fillEveryFormTool, `{"url":"https://a.test"}`)}
	cfg := testConfig()
	cfg.RequestsPerMinute = 1
	c := NewClientWithAPI(chat, cfg, nil)

	_, err := c.ExtractFormTask(context.Background(), "a", nil)
	require.NoError(t, err)
	_, err = c.ExtractFormTask(context.Background(), "b", nil)
	assert.Error(t, err)
	assert.Len(t, chat.reqs, 1)
}
