package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/quizpace/internal/coach"
	"github.com/abhisek/quizpace/internal/ui/report"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Generate practice questions at the recommended difficulty",
	Long: "Generate multiple-choice questions with the configured LLM provider at the\n" +
		"difficulty recommended for the learner. Set QUIZPACE_LLM_PROVIDER and the\n" +
		"matching API key, or one of the vendors' standard *_API_KEY variables.",
	RunE: userCommand(true, func(cmd *cobra.Command, a *app, userID string) error {
		f := cmd.Flags()
		var q coach.QuestionQuery
		q.Domain, _ = f.GetString("domain")
		q.Company, _ = f.GetString("company")
		q.Role, _ = f.GetString("role")
		q.Count, _ = f.GetInt("count")

		qs, rec, err := a.svc.GenerateQuestions(cmd.Context(), userID, q)
		if err != nil {
			return err
		}
		return output(cmd, map[string]any{"recommendation": rec, "questions": qs},
			func() string { return report.Questions(qs, rec) })
	}),
}

func init() {
	f := questionsCmd.Flags()
	f.String("domain", "", "Subject domain (required)")
	f.String("company", "", "Target company")
	f.String("role", "", "Target role")
	f.IntP("count", "n", 5, "Number of questions (1-20)")
	_ = questionsCmd.MarkFlagRequired("domain")
}
