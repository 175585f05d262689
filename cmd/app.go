package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizpace/internal/coach"
	"github.com/abhisek/quizpace/internal/llm"
	"github.com/abhisek/quizpace/internal/questiongen"
	"github.com/abhisek/quizpace/internal/store"
	"github.com/abhisek/quizpace/internal/ui/report"
)

// app bundles what a command needs for its lifetime.
type app struct {
	store *store.Store
	svc   *coach.Service
}

func (a *app) Close() error {
	return a.store.Close()
}

// openApp opens the store and builds the coach service. When withLLM is set
// and a provider is configured, question generation is enabled.
func openApp(cmd *cobra.Command, withLLM bool) (*app, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.WithField("db", dbPath).Debug("store opened")

	opts := coach.Options{Logger: log}
	if withLLM {
		gen, err := newGenerator(cmd.Context(), st.EventRepo())
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Question generation will be unavailable.")
		} else {
			opts.Generator = gen
		}
	}
	return &app{store: st, svc: coach.New(st.PerformanceRepo(), st.SessionRepo(), opts)}, nil
}

// llmConfig reads QUIZPACE_* settings and falls back to the vendors' own
// API key variables.
func llmConfig() llm.Config {
	cfg := llm.ConfigFromEnv()
	if cfg.Configured() {
		return cfg
	}
	if found, ok := llm.DiscoverConfig(); ok {
		return found
	}
	return cfg
}

func newGenerator(ctx context.Context, events store.EventRepo) (*questiongen.LLMGenerator, error) {
	provider, err := llm.NewProvider(ctx, llmConfig(), events, log)
	if err != nil {
		return nil, err
	}
	return questiongen.New(provider, questiongen.DefaultConfig()), nil
}

// output prints v as indented JSON under --json, otherwise the styled report.
func output(cmd *cobra.Command, v any, render func() string) error {
	w := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return report.Print(w, render())
}
