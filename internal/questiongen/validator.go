package questiongen

import (
	"fmt"
	"strings"
)

// Validator checks a generated question set. Implementations are stateless.
type Validator interface {
	Name() string
	Validate(qs []Question, req Request) *ValidationError
}

// ValidationError describes why a question set was rejected.
type ValidationError struct {
	Validator string
	Index     int // offending question, -1 for the whole set
	Message   string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
	}
	return fmt.Sprintf("validator %q: question %d: %s", e.Validator, e.Index+1, e.Message)
}

const (
	maxTextLen         = 600
	maxExplanationLen  = 1200
	choicesPerQuestion = 4
)

// StructuralValidator checks set size, required fields, and choice shape.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(qs []Question, req Request) *ValidationError {
	if len(qs) != req.Count {
		return &ValidationError{v.Name(), -1, fmt.Sprintf("expected %d questions, got %d", req.Count, len(qs))}
	}
	for i, q := range qs {
		if msg := checkQuestion(q); msg != "" {
			return &ValidationError{v.Name(), i, msg}
		}
	}
	return nil
}

func checkQuestion(q Question) string {
	switch {
	case strings.TrimSpace(q.Text) == "":
		return "question_text is empty"
	case len(q.Text) > maxTextLen:
		return fmt.Sprintf("question_text exceeds %d characters", maxTextLen)
	case strings.TrimSpace(q.Explanation) == "":
		return "explanation is empty"
	case len(q.Explanation) > maxExplanationLen:
		return fmt.Sprintf("explanation exceeds %d characters", maxExplanationLen)
	case len(q.Choices) != choicesPerQuestion:
		return fmt.Sprintf("expected %d choices, got %d", choicesPerQuestion, len(q.Choices))
	}

	seen := make(map[string]bool, len(q.Choices))
	matches := 0
	for i, c := range q.Choices {
		key := strings.ToLower(strings.TrimSpace(c))
		if key == "" {
			return fmt.Sprintf("choice %d is empty", i+1)
		}
		if seen[key] {
			return fmt.Sprintf("duplicate choice %q", c)
		}
		seen[key] = true
		if sameText(c, q.Answer) {
			matches++
		}
	}
	if matches != 1 {
		return fmt.Sprintf("answer %q not found in choices", q.Answer)
	}
	return ""
}

// DuplicateValidator rejects repeated questions within the set or questions
// listed in Request.Avoid.
type DuplicateValidator struct{}

func (v *DuplicateValidator) Name() string { return "duplicate" }

func (v *DuplicateValidator) Validate(qs []Question, req Request) *ValidationError {
	seen := make(map[string]bool, len(qs)+len(req.Avoid))
	for _, a := range req.Avoid {
		seen[normalize(a)] = true
	}
	for i, q := range qs {
		key := normalize(q.Text)
		if seen[key] {
			return &ValidationError{v.Name(), i, "question repeats an earlier one"}
		}
		seen[key] = true
	}
	return nil
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
