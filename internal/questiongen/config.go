package questiongen

import "time"

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated set; the first failure
	// rejects it.
	Validators []Validator

	// The token budget is BaseTokens plus TokensPerQuestion per question.
	BaseTokens        int
	TokensPerQuestion int

	Temperature float64

	// MaxAvoid caps how many already-seen questions go into the prompt.
	MaxAvoid int

	// Timeout bounds one Generate call including provider retries.
	Timeout time.Duration
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&DuplicateValidator{},
		},
		BaseTokens:        256,
		TokensPerQuestion: 400,
		Temperature:       0.7,
		MaxAvoid:          10,
		Timeout:           45 * time.Second,
	}
}

func (c Config) maxTokens(count int) int {
	return c.BaseTokens + c.TokensPerQuestion*count
}
