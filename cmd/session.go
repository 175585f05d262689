package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizpace/internal/conversation"
	"github.com/abhisek/quizpace/internal/difficulty"
	"github.com/abhisek/quizpace/internal/ui/report"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Run step-by-step tutoring sessions",
}

var sessionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a tutoring session on a problem",
	RunE: userCommand(false, func(cmd *cobra.Command, a *app, userID string) error {
		f := cmd.Flags()
		var p conversation.Problem
		p.Title, _ = f.GetString("title")
		p.Description, _ = f.GetString("description")
		p.Domain, _ = f.GetString("domain")
		p.Company, _ = f.GetString("company")
		label, _ := f.GetString("difficulty")
		tier, ok := difficulty.Parse(label)
		if !ok {
			return fmt.Errorf("unknown difficulty %q", label)
		}
		p.Difficulty = tier

		s, err := a.svc.StartSession(cmd.Context(), userID, p)
		if err != nil {
			return err
		}
		return output(cmd, s, func() string { return report.Session(s) })
	}),
}

// sessionCommand opens the app for commands addressed by session id.
func sessionCommand(fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}

var sessionReplyCmd = &cobra.Command{
	Use:   "reply <session-id> <message...>",
	Short: "Send a message to a tutoring session",
	Args:  cobra.MinimumNArgs(2),
	RunE: sessionCommand(func(cmd *cobra.Command, a *app, args []string) error {
		ex, err := a.svc.Reply(cmd.Context(), args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		return output(cmd, ex, func() string { return report.Exchange(ex) })
	}),
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a session and its conversation",
	Args:  cobra.ExactArgs(1),
	RunE: sessionCommand(func(cmd *cobra.Command, a *app, args []string) error {
		s, err := a.svc.Session(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return output(cmd, s, func() string { return report.Session(s) })
	}),
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the learner's sessions, most recent first",
	RunE: userCommand(false, func(cmd *cobra.Command, a *app, userID string) error {
		list, err := a.svc.ListSessions(cmd.Context(), userID)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return output(cmd, list, nil)
		}
		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No sessions found.")
			return nil
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-36s  %-8s  %-16s  %-4s  %s\n", "ID", "Status", "Updated", "Step", "Problem")
		fmt.Fprintln(w, strings.Repeat("─", 90))
		for _, s := range list {
			fmt.Fprintf(w, "%-36s  %-8s  %-16s  %-4d  %s\n",
				s.ID, s.Status, s.UpdatedAt.Local().Format("2006-01-02 15:04"),
				s.CurrentStep.Number, truncate(s.Problem.Title, 30))
		}
		return nil
	}),
}

var sessionExportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Export a session as a JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: sessionCommand(func(cmd *cobra.Command, a *app, args []string) error {
		data, err := a.svc.ExportSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Session %s exported to %s\n", args[0], out)
		return nil
	}),
}

var sessionImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a session from an export document",
	Args:  cobra.ExactArgs(1),
	RunE: sessionCommand(func(cmd *cobra.Command, a *app, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read export: %w", err)
		}
		s, err := a.svc.ImportSession(cmd.Context(), data)
		if err != nil {
			return err
		}
		return output(cmd, s, func() string { return report.Session(s) })
	}),
}

var sessionEndCmd = &cobra.Command{
	Use:   "end <session-id>",
	Short: "Archive a session",
	Args:  cobra.ExactArgs(1),
	RunE: sessionCommand(func(cmd *cobra.Command, a *app, args []string) error {
		if err := a.svc.EndSession(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session %s archived.\n", args[0])
		return nil
	}),
}

func init() {
	f := sessionStartCmd.Flags()
	f.String("title", "", "Problem title (required)")
	f.String("description", "", "Problem statement")
	f.String("domain", "", "Subject domain")
	f.String("company", "", "Company the problem is associated with")
	f.String("difficulty", "medium", "Problem difficulty tier")
	_ = sessionStartCmd.MarkFlagRequired("title")

	sessionExportCmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")

	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionReplyCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionExportCmd)
	sessionCmd.AddCommand(sessionImportCmd)
	sessionCmd.AddCommand(sessionEndCmd)
}
