package llm

import (
	"context"
	"encoding/json"
)

// Provider is a model backend that can answer a question-generation prompt.
// Anthropic, OpenAI, OpenRouter, Gemini and the scripted mock all satisfy it,
// and the retry and logging decorators wrap it.
type Provider interface {
	// Generate returns JSON matching req.Schema when one is set, otherwise the
	// model's raw text.
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Request is one prompt. The question generator sends a single user message
// describing the domain, tier, count and questions to avoid.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, switches the provider to its structured output mode
	// and the reply is validated before it is returned.
	Schema *Schema

	MaxTokens int

	// Temperature is 0-1; zero keeps repeated quiz requests stable.
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is the JSON Schema a structured reply must satisfy, such as the
// question set schema.
type Schema struct {
	// Name is kebab-case ("question-set"). Providers use it as the tool or
	// response format name and the validator caches compiled schemas by it.
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a provider's reply with its token accounting.
type Response struct {
	Content json.RawMessage
	Usage   Usage

	// Model is the model that served the call, which can differ from the
	// configured alias.
	Model string

	// StopReason is "end", "max_tokens" or "error".
	StopReason string
}

// Usage is token consumption for one call; it feeds `quizpace llm stats`.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// checkSchema validates content when the request asked for structured output.
func checkSchema(req Request, content json.RawMessage) error {
	if req.Schema == nil {
		return nil
	}
	return validateResponse(req.Schema, content)
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names are used as-is.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
