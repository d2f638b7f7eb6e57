package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"formAgent/internal/browser"

	"github.com/sashabaranov/go-openai"
)

const popupSystem = "You are an expert at analyzing web page structure and identifying popups and their close buttons."

// AnalyzePopup ищет среди элементов страницы кнопку закрытия оверлея.
func (c *Client) AnalyzePopup(ctx context.Context, elements string) (*browser.PopupInfo, error) {
	prompt := fmt.Sprintf(`Analyze the page elements and determine if there is a popup, modal, or overlay that should be closed.

Elements data:
%s

Respond in JSON format:
{
  "has_popup": true/false,
  "close_selector": "CSS selector of the close button",
  "popup_description": "brief description",
  "reasoning": "your analysis"
}`, elements)

	resp, err := c.complete(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: popupSystem},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка анализа попапа: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("пустой ответ от OpenAI")
	}

	content := resp.Choices[0].Message.Content
	c.record(ctx, nil, "system", popupSystem, prompt, content, resp.Usage.TotalTokens)

	var result browser.PopupInfo
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("ошибка разбора ответа о попапе: %w", err)
	}

	return &result, nil
}
