package cmd

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizpace/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the coach over HTTP",
	Long: "Serve the coach JSON API. The listen address comes from --addr, then\n" +
		"QUIZPACE_HTTP_ADDR, then :8080. QUIZPACE_CORS_ORIGINS restricts CORS to a\n" +
		"comma-separated origin list; by default every origin is allowed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		cmd.SetContext(ctx)

		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		cfg := server.DefaultConfig()
		if v := os.Getenv("QUIZPACE_HTTP_ADDR"); v != "" {
			cfg.Addr = v
		}
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			cfg.Addr = v
		}
		if v := os.Getenv("QUIZPACE_CORS_ORIGINS"); v != "" {
			cfg.AllowedOrigins = strings.Split(v, ",")
		}
		cfg.Debug = log.IsLevelEnabled(logrus.DebugLevel)

		return server.New(a.svc, log, cfg).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides QUIZPACE_HTTP_ADDR)")
}
