package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const formTaskSystem = "You turn user instructions into a single fill_every_form call. " +
	"Pick the page URL and the field values the user gave. Do not invent values the user did not mention."

// ExtractFormTask просит модель превратить инструкцию в вызов fill_every_form.
func (c *Client) ExtractFormTask(ctx context.Context, instruction string, taskID *uint) (*FormTask, error) {
	req := openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: formTaskSystem},
			{Role: openai.ChatMessageRoleUser, Content: instruction},
		},
		Tools: []openai.Tool{formTaskTool()},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: fillEveryFormTool},
		},
	}

	resp, err := c.complete(ctx, req)
	if err != nil {
		c.record(ctx, taskID, "error", formTaskSystem, instruction, err.Error(), 0)
		return nil, fmt.Errorf("ошибка запроса к OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("пустой ответ от OpenAI")
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		c.record(ctx, taskID, "assistant", formTaskSystem, instruction, msg.Content, resp.Usage.TotalTokens)
		return nil, fmt.Errorf("модель не вызвала %s", fillEveryFormTool)
	}

	call := msg.ToolCalls[0]
	c.record(ctx, taskID, "assistant", formTaskSystem, instruction,
		fmt.Sprintf("Tool call: %s(%s)", call.Function.Name, call.Function.Arguments), resp.Usage.TotalTokens)

	return parseFormTask(call)
}
