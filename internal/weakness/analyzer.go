package weakness

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/abhisek/quizpace/internal/performance"
)

const (
	maxAnalysisConfidence = 0.95
	maxFocusAreas         = 3
	maxCriticalFocus      = 2

	minTrendPoints     = 3
	trendThreshold     = 2.0 // score points
	unknownTrendConf   = 0.3
	projectionHorizon  = 4 // periods projected forward
	recentActivityDays = 30
)

var impactWeight = map[performance.Severity]float64{
	performance.SeverityCritical: 40,
	performance.SeverityHigh:     30,
	performance.SeverityMedium:   20,
	performance.SeverityLow:      10,
}

var urgencyWeight = map[performance.Severity]float64{
	performance.SeverityCritical: 50,
	performance.SeverityHigh:     35,
	performance.SeverityMedium:   20,
	performance.SeverityLow:      10,
}

// Analyzer enriches the weakness areas of a performance model.
type Analyzer struct {
	rules []CauseRule
	now   func() time.Time
}

// New creates an Analyzer using the default root-cause rules. A nil clock
// means time.Now.
func New(now func() time.Time) *Analyzer {
	if now == nil {
		now = time.Now
	}
	return &Analyzer{rules: DefaultCauseRules(), now: now}
}

// Analyze classifies every weakness area of m. A nil model is a fresh
// learner and yields an empty analysis.
func (a *Analyzer) Analyze(m *performance.Model) (out *Analysis, err error) {
	userID := ""
	if m != nil {
		userID = m.UserID
	}
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = &AnalysisError{UserID: userID, Err: fmt.Errorf("internal fault: %v", p)}
		}
	}()

	now := a.now()
	if m == nil {
		m = performance.New("", now)
	}
	if verr := performance.Validate(m); verr != nil {
		return nil, &AnalysisError{UserID: userID, Err: verr}
	}

	out = &Analysis{Confidence: analysisConfidence(m, now)}
	for _, area := range m.WeaknessAreas {
		w := a.enrich(m, area, now)
		switch w.Severity {
		case performance.SeverityCritical, performance.SeverityHigh:
			out.CriticalAndHigh = append(out.CriticalAndHigh, w)
		case performance.SeverityMedium:
			out.Moderate = append(out.Moderate, w)
		}
		if w.Trend.Direction == Improving {
			out.Improving = append(out.Improving, w)
		}
	}
	byImpact(out.CriticalAndHigh)
	byImpact(out.Moderate)
	sort.SliceStable(out.Improving, func(i, j int) bool {
		return out.Improving[i].Trend.Rate > out.Improving[j].Trend.Rate
	})
	out.FocusAreas = focusAreas(out.CriticalAndHigh, out.Moderate)
	return out, nil
}

func (a *Analyzer) enrich(m *performance.Model, area performance.WeaknessArea, now time.Time) Weakness {
	sev := area.Severity()
	domain, _ := m.Domain(area.Area)

	days := -1
	if domain != nil && !domain.LastAttempted.IsZero() {
		days = int(now.Sub(domain.LastAttempted).Hours() / 24)
		if days < 0 {
			days = 0
		}
	}

	return Weakness{
		WeaknessArea:         area,
		Severity:             sev,
		Trend:                AreaTrend(m.RecentPerformance, area.Area),
		RootCauses:           RootCauses(a.rules, &CauseInput{Area: area, Domain: domain}),
		ImpactScore:          ImpactScore(sev, area.QuestionsAttempted, area.Accuracy),
		UrgencyScore:         UrgencyScore(sev, area.ImprovementTrend, days),
		DaysSinceLastAttempt: days,
	}
}

// AreaTrend computes the trend of the last 10 quizzes in area.
func AreaTrend(recent []performance.QuizRecord, area string) Trend {
	s := performance.DomainScores(recent, area)
	if len(s) < minTrendPoints {
		return Trend{Direction: Stable, Confidence: unknownTrendConf, DataPoints: len(s)}
	}
	rate := performance.HalfSplitRate(s)
	dir := Stable
	switch {
	case rate > trendThreshold:
		dir = Improving
	case rate < -trendThreshold:
		dir = Declining
	}
	return Trend{
		Direction:            dir,
		Rate:                 rate,
		Confidence:           clamp(1-performance.Variance(s)/1000, unknownTrendConf, maxAnalysisConfidence),
		ProjectedImprovement: rate * projectionHorizon,
		DataPoints:           len(s),
	}
}

// ImpactScore weighs how much fixing a weakness would lift overall results.
func ImpactScore(sev performance.Severity, attempts int, accuracy float64) float64 {
	score := impactWeight[sev] +
		math.Min(30, float64(attempts)*2) +
		math.Max(0, 30-accuracy*0.3)
	return math.Min(100, score)
}

// UrgencyScore weighs how soon a weakness should be worked on. days is the
// number of days since the area was last attempted, negative when unknown.
func UrgencyScore(sev performance.Severity, trend float64, days int) float64 {
	score := urgencyWeight[sev]
	switch {
	case trend < -0.1:
		score += 30
	case trend < 0:
		score += 15
	}
	switch {
	case days < 0:
	case days < 7:
		score += 20
	case days < 30:
		score += 10
	}
	return math.Min(100, score)
}

func analysisConfidence(m *performance.Model, now time.Time) float64 {
	conf := 0.5
	if m.TotalQuizzes > 20 {
		conf += 0.2
	}
	if m.TotalQuestions > 200 {
		conf += 0.1
	}
	if recentQuizzes(m.RecentPerformance, now) >= 5 {
		conf += 0.1
	}
	if m.ConsistencyScore > 70 {
		conf += 0.1
	}
	return math.Min(maxAnalysisConfidence, conf)
}

func recentQuizzes(recent []performance.QuizRecord, now time.Time) int {
	cutoff := now.AddDate(0, 0, -recentActivityDays)
	n := 0
	for _, r := range recent {
		if !r.Date.Before(cutoff) {
			n++
		}
	}
	return n
}

func byImpact(ws []Weakness) {
	sort.SliceStable(ws, func(i, j int) bool {
		if ws[i].ImpactScore != ws[j].ImpactScore {
			return ws[i].ImpactScore > ws[j].ImpactScore
		}
		return ws[i].Area < ws[j].Area
	})
}

func focusAreas(severe, moderate []Weakness) []string {
	var out []string
	for _, w := range severe {
		if len(out) == maxCriticalFocus {
			break
		}
		out = append(out, w.Area)
	}
	for _, w := range moderate {
		if len(out) == maxFocusAreas {
			break
		}
		out = append(out, w.Area)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
