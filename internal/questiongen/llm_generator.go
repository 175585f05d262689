package questiongen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/quizpace/internal/llm"
)

// Purpose labels question generation requests in the LLM event log.
const Purpose = "question-gen"

// LLMGenerator implements Generator on an llm.Provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

type setOutput struct {
	Questions []struct {
		Text        string   `json:"question_text"`
		Choices     []string `json:"choices"`
		Answer      string   `json:"answer"`
		Explanation string   `json:"explanation"`
		Topic       string   `json:"topic"`
	} `json:"questions"`
}

// Generate asks the provider for req.Count questions and returns them only
// if every validator accepts the set.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) ([]Question, error) {
	if err := req.Check(); err != nil {
		return nil, err
	}
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}
	ctx = llm.WithPurpose(ctx, Purpose)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(req, g.config)}},
		Schema:      QuestionSetSchema,
		MaxTokens:   g.config.maxTokens(req.Count),
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var out setOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	qs := make([]Question, 0, len(out.Questions))
	for _, raw := range out.Questions {
		qs = append(qs, Question{
			ID:          uuid.NewString(),
			Text:        strings.TrimSpace(raw.Text),
			Choices:     raw.Choices,
			Answer:      strings.TrimSpace(raw.Answer),
			Explanation: strings.TrimSpace(raw.Explanation),
			Topic:       raw.Topic,
			Domain:      req.Domain,
			Company:     req.Company,
			Difficulty:  req.Difficulty,
		})
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(qs, req); verr != nil {
			return nil, verr
		}
	}
	return qs, nil
}
