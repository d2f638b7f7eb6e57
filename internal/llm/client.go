package llm

import (
	"context"
	"fmt"

	"formAgent/internal/config"
	"formAgent/internal/sanitizer"

	"github.com/sashabaranov/go-openai"
)

type Client struct {
	api         ChatAPI
	model       string
	maxTokens   int
	logger      Logger
	sanitizer   *sanitizer.DataSanitizer
	rateLimiter *RateLimiter
}

func NewClient(cfg config.OpenAI, logger Logger) *Client {
	return NewClientWithAPI(openai.NewClient(cfg.KeyAI), cfg, logger)
}

func NewClientWithAPI(api ChatAPI, cfg config.OpenAI, logger Logger) *Client {
	model := cfg.Model
	if model == "" {
		model = openai.GPT4o
	}
	return &Client{
		api:         api,
		model:       model,
		maxTokens:   cfg.MaxTokens,
		logger:      logger,
		sanitizer:   sanitizer.New(),
		rateLimiter: NewRateLimiter(cfg.RequestsPerMinute, cfg.TokensPerHour),
	}
}

// complete выполняет запрос с проверкой rate limit
func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if err := c.rateLimiter.AllowRequest(ctx); err != nil {
		return openai.ChatCompletionResponse{}, err
	}

	// грубая оценка: ~4 символа на токен
	estimated := req.MaxTokens
	for _, msg := range req.Messages {
		estimated += len(msg.Content) / 4
	}

	if err := c.rateLimiter.AllowTokens(ctx, estimated); err != nil {
		return openai.ChatCompletionResponse{}, err
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return resp, err
	}

	if resp.Usage.TotalTokens > estimated {
		c.rateLimiter.ConsumeTokens(resp.Usage.TotalTokens - estimated)
	}

	return resp, nil
}

// record пишет очищенный запрос и ответ в лог LLM. Ошибки записи не важны для вызывающего.
func (c *Client) record(ctx context.Context, taskID *uint, role, systemMsg, prompt, response string, tokens int) {
	if c.logger == nil {
		return
	}
	full := fmt.Sprintf("System: %s\n\nUser: %s", systemMsg, prompt)
	_ = c.logger.LogLLMRequest(ctx, taskID, role, c.sanitizer.Sanitize(full), c.sanitizer.Sanitize(response), c.model, tokens)
}
