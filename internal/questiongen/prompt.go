package questiongen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write multiple-choice practice questions for software engineering interview preparation.

Rules:
- Generate exactly the requested number of questions for the given domain and difficulty tier.
- Each question has exactly 4 choices. Exactly one choice is correct and the "answer" field repeats its text verbatim.
- Distractors must reflect common misconceptions, not obviously wrong values.
- Difficulty tiers: easy = definitions and direct application; medium = combining two ideas; hard = non-obvious trade-offs and edge cases; expert = design-level reasoning under constraints.
- When a company is given, prefer topics and styles that company is known to ask about.
- When a role is given, pitch the questions at that seniority.
- The explanation states why the answer is correct and why the strongest distractor is wrong, in at most three sentences.
- The "topic" field names the specific concept tested, e.g. "topological sort".
- Use plain text. Code fragments are allowed inside backticks.
- Do not repeat any question from the "already seen" list.`

// buildUserMessage renders the request as the prompt body. It reads nothing
// but the request.
func buildUserMessage(req Request, cfg Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Domain: %s\n", req.Domain)
	fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)
	fmt.Fprintf(&b, "Number of questions: %d\n", req.Count)
	if req.Company != "" {
		fmt.Fprintf(&b, "Target company: %s\n", req.Company)
	}
	if req.Role != "" {
		fmt.Fprintf(&b, "Target role: %s\n", req.Role)
	}

	b.WriteString("\nAlready seen:\n")
	b.WriteString(numbered(req.Avoid, cfg.MaxAvoid))
	return b.String()
}

// numbered lists the most recent max items, or "None".
func numbered(items []string, max int) string {
	if len(items) == 0 {
		return "None"
	}
	if max > 0 && len(items) > max {
		items = items[len(items)-max:]
	}
	var b strings.Builder
	for i, it := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, it)
	}
	return strings.TrimRight(b.String(), "\n")
}
