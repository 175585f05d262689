package llm

import "context"

type ctxKey int

const (
	purposeKey ctxKey = iota
	learnerKey
)

// Untagged is the purpose recorded for calls made without WithPurpose.
const Untagged = "untagged"

// WithPurpose tags calls made with ctx, e.g. "question-gen", so the event log
// can break usage down by feature.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok && v != "" {
		return v
	}
	return Untagged
}

// WithLearner attributes calls made with ctx to a learner.
func WithLearner(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, learnerKey, userID)
}

// LearnerFrom returns the learner set by WithLearner, or "".
func LearnerFrom(ctx context.Context) string {
	v, _ := ctx.Value(learnerKey).(string)
	return v
}
