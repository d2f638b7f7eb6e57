package llm

import "github.com/sashabaranov/go-openai"

const fillEveryFormTool = "fill_every_form"

func formTaskTool() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name: fillEveryFormTool,
			Description: "Open the page and fill every form on it. Use it for login, contact and lookup forms. " +
				"Field names are matched loosely against input names, ids and placeholders.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"url": map[string]interface{}{
						"type":        "string",
						"description": "Absolute URL of the page that holds the form",
					},
					"fields": map[string]interface{}{
						"type":        "object",
						"description": "Field name to value, e.g. {\"email\": \"a@b.com\", \"hs_code\": \"8517.62\"}",
						"additionalProperties": map[string]interface{}{
							"type": "string",
						},
					},
					"reasoning": map[string]interface{}{
						"type":        "string",
						"description": "Why these fields and values were chosen",
					},
				},
				"required": []string{"url", "fields", "reasoning"},
			},
		},
	}
}
