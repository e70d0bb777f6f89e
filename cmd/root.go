package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rizfan/soalku/internal/analyzer"
	"github.com/rizfan/soalku/internal/dispatch"
	"github.com/rizfan/soalku/internal/lifecycle"
	"github.com/rizfan/soalku/internal/llm"
	"github.com/rizfan/soalku/internal/notify"
	"github.com/rizfan/soalku/internal/publish"
	"github.com/rizfan/soalku/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "soalku",
	Short: "Question quality-control pipeline",
	Long:  "Soalku runs the question quality pipeline: analysis, routing, review and auto-publication for teacher-authored assessment questions.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("dsn", "", "Postgres DSN (overrides SOALKU_DB_DSN env var)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(redispatchCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(versionCmd)
}

// openStore connects using --dsn, falling back to SOALKU_DB_DSN.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dsn, _ := cmd.Flags().GetString("dsn")
	if dsn == "" {
		dsn = os.Getenv("SOALKU_DB_DSN")
	}
	if dsn == "" {
		return nil, fmt.Errorf("no database configured: set SOALKU_DB_DSN or pass --dsn")
	}
	return store.Open(dsn)
}

// buildDispatcher wires the full pipeline on top of an open store.
func buildDispatcher(ctx context.Context, s *store.Store) (*dispatch.Dispatcher, error) {
	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	provider, err := llm.NewProvider(ctx, cfg, s.Events())
	if err != nil {
		return nil, fmt.Errorf("initialize analyzer provider: %w", err)
	}

	notifier := notify.New(s.Notifications(), s.Roster())
	gate := publish.New(s.Assessments(), notifier)
	orch := lifecycle.New(
		s.Questions(),
		s.Verdicts(),
		s.Reviews(),
		analyzer.New(provider, analyzer.ConfigFromEnv()),
		gate,
		notifier,
	)
	return dispatch.New(orch), nil
}
