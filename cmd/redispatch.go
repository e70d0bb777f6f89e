package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rizfan/soalku/internal/store"
)

var redispatchCmd = &cobra.Command{
	Use:   "redispatch",
	Short: "Re-run analysis for questions stuck in analyzing",
	Long:  "Finds questions that entered analyzing longer than --stuck-for ago and never left (a worker died mid-pipeline), reverts them to draft and runs them through the pipeline again.",
	RunE: func(cmd *cobra.Command, args []string) error {
		stuckFor, _ := cmd.Flags().GetDuration("stuck-for")

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		cutoff := time.Now().UTC().Add(-stuckFor)
		stuck, err := s.Questions().ListStuckAnalyzing(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("list stuck questions: %w", err)
		}
		if len(stuck) == 0 {
			fmt.Println("No stuck questions found.")
			return nil
		}

		d, err := buildDispatcher(ctx, s)
		if err != nil {
			return err
		}

		refs := make([]store.QuestionRef, 0, len(stuck))
		for _, q := range stuck {
			// Back to draft so the claim succeeds again.
			if err := s.Questions().SetStatus(ctx, q.Ref, store.StatusDraft); err != nil {
				fmt.Printf("%s  revert failed: %s\n", q.Ref.ID, err)
				continue
			}
			refs = append(refs, q.Ref)
		}

		fmt.Printf("Re-dispatching %d questions stuck for more than %s...\n", len(refs), stuckFor)
		d.Run(ctx, refs)
		fmt.Println("Done.")
		return nil
	},
}

func init() {
	redispatchCmd.Flags().Duration("stuck-for", 30*time.Minute, "How long a question must sit in analyzing to count as stuck")
}
