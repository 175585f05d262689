package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizpace/internal/store"
)

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "quizpace",
	Short: "Adaptive difficulty coach for interview practice",
	Long: "Quizpace tracks practice quiz results and tutoring sessions, recommends the next\n" +
		"difficulty, explains weaknesses and plans the weeks ahead.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env file is normal; only a malformed one is an error.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load .env: %w", err)
		}
		return configureLogger(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "Path to SQLite database file (overrides QUIZPACE_DB env var)")
	flags.String("log-level", "", "Log level: debug, info, warn, error (overrides QUIZPACE_LOG_LEVEL)")
	flags.Bool("json", false, "Print machine-readable JSON instead of a report")
	flags.StringP("user", "u", "", "Learner id (overrides QUIZPACE_USER)")

	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(weaknessesCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(calibrateCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

func configureLogger(cmd *cobra.Command) error {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = os.Getenv("QUIZPACE_LOG_LEVEL")
	}
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetLevel(lvl)
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZPACE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveUser returns the learner id from --user, then QUIZPACE_USER.
func resolveUser(cmd *cobra.Command) (string, error) {
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		return u, nil
	}
	if u := os.Getenv("QUIZPACE_USER"); u != "" {
		return u, nil
	}
	return "", fmt.Errorf("no learner selected: pass --user or set QUIZPACE_USER")
}
