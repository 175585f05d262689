package performance

import "math"

const (
	velocityWindow    = 5  // quizzes per half of the velocity comparison
	consistencyWindow = 10 // quizzes used for the consistency variance
	trendWindow       = 10 // quizzes used for per-domain trend lines
	minTrendPoints    = 3
)

// LearningVelocity compares the 5 most recent quiz scores against the 5
// before them, re-centred on 50 and clamped to [0,100]. With no older
// window to compare against it returns the default of 50.
func LearningVelocity(recent []QuizRecord) float64 {
	if len(recent) <= velocityWindow {
		return DefaultLearningVelocity
	}
	newer := scores(recent[:velocityWindow])
	end := min(len(recent), 2*velocityWindow)
	older := scores(recent[velocityWindow:end])
	return clamp(DefaultLearningVelocity+(Mean(newer)-Mean(older)), 0, 100)
}

// ConsistencyScore maps the spread of the last 10 scores to [0,100]:
// identical scores give 100, a standard deviation of 50 points gives 0.
// Fewer than 3 quizzes yields the default of 50.
func ConsistencyScore(recent []QuizRecord) float64 {
	window := recent[:min(len(recent), consistencyWindow)]
	if len(window) < minTrendPoints {
		return DefaultConsistencyScore
	}
	sd := math.Sqrt(Variance(scores(window)))
	return clamp(100-2*sd, 0, 100)
}

// DomainScores returns the scores of the most recent quizzes in domain,
// oldest first, limited to the trend window.
func DomainScores(recent []QuizRecord, domain string) []float64 {
	var out []float64
	for _, r := range recent {
		if sameKey(r.Domain, domain) {
			out = append(out, r.Score)
			if len(out) == trendWindow {
				break
			}
		}
	}
	// recent is newest first; trend math wants chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// HalfSplitRate is the mean of the later half of a chronological series
// minus the mean of the earlier half. Odd-length series put the middle
// point in the later half.
func HalfSplitRate(chronological []float64) float64 {
	if len(chronological) < 2 {
		return 0
	}
	mid := len(chronological) / 2
	return Mean(chronological[mid:]) - Mean(chronological[:mid])
}

// DomainTrend is the per-domain improvement trend as a fraction
// (score points / 100). Zero when there are fewer than 3 data points.
func DomainTrend(recent []QuizRecord, domain string) float64 {
	s := DomainScores(recent, domain)
	if len(s) < minTrendPoints {
		return 0
	}
	return HalfSplitRate(s) / 100
}

// Mean of xs, zero for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Variance is the population variance of xs.
func Variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := Mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(xs))
}

func scores(records []QuizRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Score
	}
	return out
}
