package questiongen

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/quizpace/internal/difficulty"
)

// MaxCount is the largest question set a single request may ask for.
const MaxCount = 20

// Question is one generated multiple-choice interview question.
type Question struct {
	ID          string          `json:"id"`
	Text        string          `json:"question_text"`
	Choices     []string        `json:"choices"` // exactly 4, one equal to Answer
	Answer      string          `json:"answer"`
	Explanation string          `json:"explanation"`
	Topic       string          `json:"topic"`
	Domain      string          `json:"domain"`
	Company     string          `json:"company,omitempty"`
	Difficulty  difficulty.Tier `json:"difficulty"`
}

// Check reports whether answer picks the correct choice. It accepts the
// choice text (case-insensitive), its 1-based index, or its letter (A-D).
func (q *Question) Check(answer string) bool {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return false
	}
	if i, err := strconv.Atoi(answer); err == nil {
		return i >= 1 && i <= len(q.Choices) && sameText(q.Choices[i-1], q.Answer)
	}
	if len(answer) == 1 {
		i := int(strings.ToUpper(answer)[0] - 'A')
		if i >= 0 && i < len(q.Choices) {
			return sameText(q.Choices[i], q.Answer)
		}
	}
	return sameText(answer, q.Answer)
}

func sameText(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Request describes the question set to generate.
type Request struct {
	Domain     string
	Company    string
	Role       string
	Difficulty difficulty.Tier
	Count      int

	// Avoid holds question texts the learner has already seen.
	Avoid []string
}

// Check rejects requests no generator can serve.
func (r Request) Check() error {
	if strings.TrimSpace(r.Domain) == "" {
		return fmt.Errorf("question request: domain is required")
	}
	if !r.Difficulty.Valid() {
		return fmt.Errorf("question request: unknown difficulty %d", int(r.Difficulty))
	}
	if r.Count < 1 || r.Count > MaxCount {
		return fmt.Errorf("question request: count must be between 1 and %d, got %d", MaxCount, r.Count)
	}
	return nil
}

// Generator produces validated question sets.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]Question, error)
}
