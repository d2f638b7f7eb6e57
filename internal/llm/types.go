// Package llm разбирает инструкции пользователя через OpenAI tool calls
// и помогает браузеру закрывать всплывающие окна.
package llm

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// Logger сохраняет запросы к LLM. Тексты приходят уже очищенными.
type Logger interface {
	LogLLMRequest(ctx context.Context, taskID *uint, role, promptText, responseText, model string, tokensUsed int) error
}

// ChatAPI - часть клиента OpenAI, которой пользуется Client.
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// FormTask - аргументы вызова fill_every_form.
type FormTask struct {
	URL       string            `json:"url"`
	Fields    map[string]string `json:"fields"`
	Reasoning string            `json:"reasoning"`
}
