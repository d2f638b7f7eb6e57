package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

func parseFormTask(toolCall openai.ToolCall) (*FormTask, error) {
	if toolCall.Function.Name != fillEveryFormTool {
		return nil, fmt.Errorf("неожиданный инструмент: %s", toolCall.Function.Name)
	}

	var task FormTask
	if err := json.Unmarshal([]byte(toolCall.Function.Arguments), &task); err != nil {
		return nil, fmt.Errorf("ошибка парсинга аргументов: %w", err)
	}

	task.URL = strings.TrimSpace(task.URL)
	if task.URL == "" {
		return nil, fmt.Errorf("в ответе нет url")
	}
	if task.Fields == nil {
		task.Fields = map[string]string{}
	}

	return &task, nil
}
