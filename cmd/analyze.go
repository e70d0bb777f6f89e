package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rizfan/soalku/internal/store"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <source> <id>...",
	Short: "Run quality analysis for one or more questions",
	Long:  "Runs the full pipeline (analyze, route, publish check) for the given questions and waits for the batch to finish. Source is one of: bank, quiz, exam.",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := store.Source(args[0])
		if !src.Valid() {
			return fmt.Errorf("unknown source %q, want bank, quiz or exam", args[0])
		}

		refs := make([]store.QuestionRef, 0, len(args)-1)
		for _, raw := range args[1:] {
			id, err := uuid.Parse(raw)
			if err != nil {
				return fmt.Errorf("invalid question id %q: %w", raw, err)
			}
			refs = append(refs, store.QuestionRef{Source: src, ID: id})
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		d, err := buildDispatcher(ctx, s)
		if err != nil {
			return err
		}

		d.Run(ctx, refs)

		for _, ref := range refs {
			q, err := s.Questions().Get(ctx, ref)
			if err != nil {
				fmt.Printf("%s  %s\n", ref.ID, err)
				continue
			}
			fmt.Printf("%s  %s\n", ref.ID, q.Status)
		}
		return nil
	},
}
