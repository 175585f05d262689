package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizpace/internal/calibrate"
	"github.com/abhisek/quizpace/internal/coach"
	"github.com/abhisek/quizpace/internal/difficulty"
	"github.com/abhisek/quizpace/internal/performance"
	"github.com/abhisek/quizpace/internal/recommend"
	"github.com/abhisek/quizpace/internal/studyplan"
	"github.com/abhisek/quizpace/internal/ui/report"
)

// userCommand opens the app for the selected learner and hands both to fn.
func userCommand(withLLM bool, fn func(cmd *cobra.Command, a *app, userID string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		userID, err := resolveUser(cmd)
		if err != nil {
			return err
		}
		a, err := openApp(cmd, withLLM)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, userID)
	}
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a completed quiz",
	Example: "  quizpace record -u ana --domain graphs --company Acme --difficulty medium \\\n" +
		"    --questions 10 --correct 7 --time 12m",
	RunE: userCommand(false, func(cmd *cobra.Command, a *app, userID string) error {
		f := cmd.Flags()
		domain, _ := f.GetString("domain")
		company, _ := f.GetString("company")
		label, _ := f.GetString("difficulty")
		total, _ := f.GetInt("questions")
		correct, _ := f.GetInt("correct")
		spent, _ := f.GetDuration("time")

		tier, ok := difficulty.Parse(label)
		if !ok {
			return fmt.Errorf("unknown difficulty %q (want easy, medium, hard or expert)", label)
		}
		m, err := a.svc.RecordQuiz(cmd.Context(), userID, performance.QuizResult{
			Domain:         domain,
			Company:        company,
			Difficulty:     tier,
			TotalQuestions: total,
			CorrectAnswers: correct,
			TimeSpent:      spent.Seconds(),
		})
		if err != nil {
			return err
		}
		return output(cmd, m, func() string { return report.Performance(m) })
	}),
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: userCommand(false, func(cmd *cobra.Command, a *app, userID string) error {
		m, err := a.svc.Performance(cmd.Context(), userID)
		if err != nil {
			return err
		}
		return output(cmd, m, func() string { return report.Performance(m) })
	}),
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend the difficulty for the next practice session",
	RunE: userCommand(false, func(cmd *cobra.Command, a *app, userID string) error {
		domain, _ := cmd.Flags().GetString("domain")
		company, _ := cmd.Flags().GetString("company")
		rec, err := a.svc.Recommend(cmd.Context(), userID, recommend.Target{Domain: domain, Company: company})
		if err != nil {
			return err
		}
		return output(cmd, rec, func() string { return report.Recommendation(rec) })
	}),
}

var weaknessesCmd = &cobra.Command{
	Use:   "weaknesses",
	Short: "Classify weak areas by severity and trend",
	RunE: userCommand(false, func(cmd *cobra.Command, a *app, userID string) error {
		an, err := a.svc.Analyze(cmd.Context(), userID)
		if err != nil {
			return err
		}
		return output(cmd, an, func() string { return report.Analysis(an) })
	}),
}

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Plan milestones toward a target role",
	RunE: userCommand(false, func(cmd *cobra.Command, a *app, userID string) error {
		role, _ := cmd.Flags().GetString("role")
		company, _ := cmd.Flags().GetString("company")
		p, err := a.svc.LearningPath(cmd.Context(), userID, role, company)
		if err != nil {
			return err
		}
		return output(cmd, p, func() string { return report.Path(p) })
	}),
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a week-by-week study plan",
	RunE: userCommand(false, func(cmd *cobra.Command, a *app, userID string) error {
		f := cmd.Flags()
		goal, _ := f.GetString("goal")
		weeks, _ := f.GetInt("weeks")
		role, _ := f.GetString("role")
		company, _ := f.GetString("company")
		p, err := a.svc.StudyPlan(cmd.Context(), userID, studyplan.Goal{
			Description:    goal,
			TargetRole:     role,
			TargetCompany:  company,
			TimeframeWeeks: weeks,
		})
		if err != nil {
			return err
		}
		return output(cmd, p, func() string { return report.StudyPlan(p) })
	}),
}

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Decide whether to change difficulty mid-quiz",
	RunE: userCommand(false, func(cmd *cobra.Command, a *app, userID string) error {
		f := cmd.Flags()
		answered, _ := f.GetInt("answered")
		correct, _ := f.GetInt("correct")
		avg, _ := f.GetDuration("avg-time")
		label, _ := f.GetString("difficulty")
		adj, err := a.svc.Calibrate(cmd.Context(), userID, calibrate.Progress{
			QuestionsAnswered:      answered,
			CorrectAnswers:         correct,
			AverageTimePerQuestion: avg.Seconds(),
			CurrentDifficulty:      label,
		})
		if err != nil {
			return err
		}
		return output(cmd, adj, func() string { return report.Adjustment(adj) })
	}),
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show recommendation, weaknesses and path together",
	RunE: userCommand(false, func(cmd *cobra.Command, a *app, userID string) error {
		f := cmd.Flags()
		var q coach.DashboardQuery
		q.Domain, _ = f.GetString("domain")
		q.Company, _ = f.GetString("company")
		q.Role, _ = f.GetString("role")
		d, err := a.svc.Dashboard(cmd.Context(), userID, q)
		if err != nil {
			return err
		}
		return output(cmd, d, func() string { return report.Dashboard(d) })
	}),
}

func init() {
	rf := recordCmd.Flags()
	rf.String("domain", "", "Subject domain of the quiz (required)")
	rf.String("company", "", "Company the quiz targeted")
	rf.String("difficulty", "medium", "Difficulty tier: easy, medium, hard, expert")
	rf.Int("questions", 10, "Number of questions in the quiz")
	rf.Int("correct", 0, "Number of correct answers")
	rf.Duration("time", 0, "Total time spent on the quiz")
	_ = recordCmd.MarkFlagRequired("domain")

	recommendCmd.Flags().String("domain", "", "Domain the session will cover")
	recommendCmd.Flags().String("company", "", "Company the session targets")

	pathCmd.Flags().String("role", "", "Target role, e.g. \"senior engineer\"")
	pathCmd.Flags().String("company", "", "Target company")

	pf := planCmd.Flags()
	pf.String("goal", "Interview preparation", "What the plan works toward")
	pf.Int("weeks", 8, "Timeframe in weeks")
	pf.String("role", "", "Target role")
	pf.String("company", "", "Target company")

	cf := calibrateCmd.Flags()
	cf.Int("answered", 0, "Questions answered so far")
	cf.Int("correct", 0, "Correct answers so far")
	cf.Duration("avg-time", 60*time.Second, "Average time per question")
	cf.String("difficulty", "medium", "Current difficulty tier")

	df := dashboardCmd.Flags()
	df.String("domain", "", "Domain for the recommendation")
	df.String("company", "", "Target company")
	df.String("role", "", "Target role")
}
