package questiongen

import "github.com/abhisek/quizpace/internal/llm"

// QuestionSetSchema is the structured output requested from the provider.
var QuestionSetSchema = &llm.Schema{
	Name:        "question-set",
	Description: "A set of multiple-choice interview practice questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"maxItems": MaxCount,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question_text": map[string]any{
							"type":        "string",
							"description": "The question shown to the learner",
						},
						"choices": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Exactly 4 options, one of which is the answer",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "The text of the correct choice, verbatim",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the answer is correct",
						},
						"topic": map[string]any{
							"type":        "string",
							"description": "The specific concept tested",
						},
					},
					"required":             []any{"question_text", "choices", "answer", "explanation", "topic"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
