// Package report renders engine results as styled terminal text.
package report

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizpace/internal/calibrate"
	"github.com/abhisek/quizpace/internal/coach"
	"github.com/abhisek/quizpace/internal/conversation"
	"github.com/abhisek/quizpace/internal/difficulty"
	"github.com/abhisek/quizpace/internal/pathplan"
	"github.com/abhisek/quizpace/internal/performance"
	"github.com/abhisek/quizpace/internal/questiongen"
	"github.com/abhisek/quizpace/internal/recommend"
	"github.com/abhisek/quizpace/internal/studyplan"
	"github.com/abhisek/quizpace/internal/ui/components"
	"github.com/abhisek/quizpace/internal/ui/theme"
	"github.com/abhisek/quizpace/internal/weakness"
)

const barWidth = 48

// Print writes a rendered report, downsampling colors to what w supports.
func Print(w io.Writer, s string) error {
	_, err := lipgloss.Fprintln(w, s)
	return err
}

func field(label, value string) string {
	return theme.Label.Render(label) + theme.Body.Render(value)
}

func tiers(ts []difficulty.Tier) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = theme.Tier(t).Render(t.String())
	}
	return strings.Join(names, ", ")
}

func bullets(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = "  • " + s
	}
	return out
}

func join(lines ...string) string {
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Performance renders the learner's aggregate.
func Performance(m *performance.Model) string {
	lines := []string{
		theme.Title.Render("Performance · " + m.UserID),
		field("Quizzes", fmt.Sprintf("%d (%d questions)", m.TotalQuizzes, m.TotalQuestions)),
		components.NewProgressBar("Accuracy", m.Accuracy, true, barWidth).View(),
		components.NewProgressBar("Consistency", m.ConsistencyScore, true, barWidth).View(),
		components.NewProgressBar("Velocity", m.LearningVelocity, true, barWidth).View(),
	}
	if len(m.DifficultyPerformance) > 0 {
		lines = append(lines, theme.Section.Render("By difficulty"))
		for _, ts := range m.DifficultyPerformance {
			lines = append(lines, fmt.Sprintf("  %s  %5.1f%%  %3d answered  %s",
				theme.Tier(ts.Difficulty).Width(7).Render(ts.Difficulty.String()),
				ts.Accuracy, ts.QuestionsAnswered, theme.Hint.Render(string(ts.MasteryLevel))))
		}
	}
	if len(m.DomainPerformance) > 0 {
		lines = append(lines, theme.Section.Render("By domain"))
		for _, d := range m.DomainPerformance {
			lines = append(lines, components.NewProgressBar(d.Domain, d.Accuracy, true, barWidth).View())
		}
	}
	if m.IsFresh() {
		lines = append(lines, theme.Hint.Render("No quizzes recorded yet."))
	}
	return join(lines...)
}

// Recommendation renders a pre-session difficulty recommendation.
func Recommendation(rec *recommend.Recommendation) string {
	lines := []string{
		theme.Title.Render("Recommended difficulty"),
		field("Tier", theme.Tier(rec.RecommendedDifficulty).Render(rec.RecommendedDifficulty.Title())),
		field("Confidence", fmt.Sprintf("%.0f%%", rec.Confidence*100)),
		field("Expected", fmt.Sprintf("%.0f%% accuracy", rec.ExpectedAccuracy)),
		field("Mastery in", rec.EstimatedTimeToMastery),
	}
	if len(rec.AlternativeDifficulties) > 0 {
		lines = append(lines, field("Alternatives", tiers(rec.AlternativeDifficulties)))
	}
	lines = append(lines, theme.Section.Render("Why"))
	lines = append(lines, bullets(rec.Reasoning)...)
	if len(rec.LearningObjectives) > 0 {
		lines = append(lines, theme.Section.Render("Objectives"))
		lines = append(lines, bullets(rec.LearningObjectives)...)
	}
	return join(lines...)
}

// Analysis renders a weakness analysis.
func Analysis(a *weakness.Analysis) string {
	lines := []string{
		theme.Title.Render("Weakness analysis"),
		field("Confidence", fmt.Sprintf("%.0f%%", a.Confidence*100)),
	}
	if len(a.FocusAreas) > 0 {
		lines = append(lines, field("Focus on", strings.Join(a.FocusAreas, ", ")))
	}
	ranked := a.Ranked()
	if len(ranked) == 0 && len(a.Improving) == 0 {
		return join(append(lines, theme.Hint.Render("No weaknesses found."))...)
	}
	for _, w := range ranked {
		lines = append(lines, theme.Section.Render(w.Area)+"  "+theme.Severity(w.Severity).Render(string(w.Severity)))
		lines = append(lines,
			components.NewProgressBar("Accuracy", w.Accuracy, true, barWidth).View(),
			field("Trend", fmt.Sprintf("%s (%+.1f)", w.Trend.Direction, w.Trend.Rate)),
			field("Impact", fmt.Sprintf("%.0f  urgency %.0f", w.ImpactScore, w.UrgencyScore)),
		)
		if w.DaysSinceLastAttempt >= 0 {
			lines = append(lines, field("Last tried", fmt.Sprintf("%d days ago", w.DaysSinceLastAttempt)))
		}
		lines = append(lines, bullets(w.RootCauses)...)
	}
	if len(a.Improving) > 0 {
		names := make([]string, len(a.Improving))
		for i, w := range a.Improving {
			names[i] = w.Area
		}
		lines = append(lines, theme.Section.Render("Improving"), theme.Good.Render("  "+strings.Join(names, ", ")))
	}
	return join(lines...)
}

// Path renders a learning path.
func Path(p *pathplan.Path) string {
	lines := []string{
		theme.Title.Render(fmt.Sprintf("Learning path · %s → %s", p.CurrentLevel, p.TargetLevel)),
		components.NewProgressBar("Progress", p.ProgressPercent, true, barWidth).View(),
		field("Pace", fmt.Sprintf("%d quizzes/week", p.QuizzesPerWeek)),
		field("Duration", p.EstimatedDuration),
		"",
	}
	for _, ms := range p.Milestones {
		mark := theme.Hint.Render("○")
		if ms.Completed {
			mark = theme.Good.Render("●")
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s  %s", mark,
			theme.Body.Render(ms.Title),
			theme.Tier(ms.Difficulty).Render(ms.Difficulty.String()),
			theme.Hint.Render(fmt.Sprintf("%.0f%% over ~%d quizzes", ms.TargetAccuracy, ms.EstimatedQuizzes))))
	}
	return join(lines...)
}

// StudyPlan renders a week-by-week plan.
func StudyPlan(p *studyplan.Plan) string {
	fd := p.FocusDistribution
	lines := []string{
		theme.Title.Render("Study plan · " + p.Goal.Description),
		field("Weeks", fmt.Sprintf("%d", len(p.Weeks))),
		field("Total", fmt.Sprintf("%d quizzes, %d minutes", p.TotalQuizzes, p.TotalMinutes)),
		field("Split", fmt.Sprintf("weakness %d%%  strength %d%%  new %d%%  review %d%%",
			fd.WeaknessFocus, fd.StrengthReinforcement, fd.NewTopics, fd.Review)),
	}
	for _, w := range p.Weeks {
		lines = append(lines, theme.Section.Render(fmt.Sprintf("Week %d", w.Week)),
			field("Focus", strings.Join(w.FocusAreas, ", ")),
			field("Quizzes", fmt.Sprintf("%d  (%d min practice, %d min review)", w.RecommendedQuizzes, w.PracticeMinutes, w.ReviewMinutes)),
			field("Mix", mix(w.DifficultyMix)),
		)
		lines = append(lines, bullets(w.Objectives)...)
	}
	return join(lines...)
}

func mix(m map[difficulty.Tier]int) string {
	var parts []string
	for _, t := range difficulty.All() {
		if pct := m[t]; pct > 0 {
			parts = append(parts, fmt.Sprintf("%s %d%%", theme.Tier(t).Render(t.String()), pct))
		}
	}
	return strings.Join(parts, "  ")
}

// Adjustment renders a mid-quiz calibration decision.
func Adjustment(adj calibrate.Adjustment) string {
	verdict := theme.Hint.Render("keep current difficulty")
	if adj.ShouldAdjust && adj.NewDifficulty != nil {
		verdict = "switch to " + theme.Tier(*adj.NewDifficulty).Render(adj.NewDifficulty.Title())
	}
	return join(
		theme.Title.Render("Calibration"),
		field("Decision", verdict),
		field("Confidence", fmt.Sprintf("%.0f%%", adj.Confidence*100)),
		theme.Body.Render(adj.Reasoning),
	)
}

// Dashboard renders the combined snapshot view.
func Dashboard(d *coach.Dashboard) string {
	return join(
		theme.Title.Render("Dashboard · "+d.UserID),
		field("Quizzes", fmt.Sprintf("%d", d.TotalQuizzes)),
		components.NewProgressBar("Accuracy", d.Accuracy, true, barWidth).View(),
		"",
		theme.Card.Render(Recommendation(d.Recommendation)),
		theme.Card.Render(Analysis(d.Analysis)),
		theme.Card.Render(Path(d.Path)),
	)
}

// Session renders a tutoring session and its history.
func Session(s *conversation.Session) string {
	lines := []string{
		theme.Title.Render(s.Problem.Title),
		field("Session", s.ID),
		field("Status", string(s.Status)),
		field("Step", fmt.Sprintf("%d · %s", s.CurrentStep.Number, s.CurrentStep.Type)),
		field("Hints used", fmt.Sprintf("%d", s.Progress.HintsUsed)),
		components.NewProgressBar("Understanding", s.Progress.Understanding, true, barWidth).View(),
	}
	if len(s.History) > 0 {
		lines = append(lines, theme.Section.Render("Conversation"))
		for _, m := range s.History {
			lines = append(lines, message(m))
		}
	}
	return join(lines...)
}

func message(m conversation.Message) string {
	who := theme.Hint.Render("you")
	if m.Role == conversation.RoleAssistant {
		who = theme.Title.Render("coach")
	}
	return who + "  " + theme.Body.Render(m.Content)
}

// Exchange renders one reply and the decision behind it.
func Exchange(ex *coach.Exchange) string {
	d := ex.Decision
	var flags []string
	if d.ShouldProvideHint {
		flags = append(flags, "hint")
	}
	if d.ShouldRequestClarification {
		flags = append(flags, "clarify")
	}
	if d.ShouldOfferAlternativeApproach {
		flags = append(flags, "alternative approach")
	}
	if d.ShouldAdvanceStep {
		flags = append(flags, "advance to "+string(d.NextStepSuggestion))
	}
	if len(flags) == 0 {
		flags = append(flags, "continue")
	}
	return join(
		message(ex.Reply),
		theme.Hint.Render(fmt.Sprintf("[%s · difficulty %s · step %d]",
			strings.Join(flags, ", "), d.AdaptedDifficulty, ex.Session.CurrentStep.Number)),
	)
}

// Questions renders a generated question set.
func Questions(qs []questiongen.Question, rec *recommend.Recommendation) string {
	var lines []string
	if rec != nil {
		lines = append(lines, theme.Title.Render("Questions at "+theme.Tier(rec.RecommendedDifficulty).Render(rec.RecommendedDifficulty.Title())))
	}
	for i, q := range qs {
		lines = append(lines, theme.Section.Render(fmt.Sprintf("%d. %s", i+1, q.Text)))
		for j, c := range q.Choices {
			lines = append(lines, fmt.Sprintf("   %c) %s", 'A'+j, c))
		}
		lines = append(lines, theme.Hint.Render("   Answer: "+q.Answer+" · "+q.Explanation))
	}
	return join(lines...)
}
