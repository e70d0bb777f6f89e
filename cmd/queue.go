package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rizfan/soalku/internal/reviewqueue"
	"github.com/rizfan/soalku/internal/store"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show the admin review queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")
		status, _ := cmd.Flags().GetString("status")
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")

		if source != "" && !store.Source(source).Valid() {
			return fmt.Errorf("unknown source %q, want bank, quiz or exam", source)
		}
		if status != "" && !store.Status(status).Valid() {
			return fmt.Errorf("unknown status %q", status)
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		agg := reviewqueue.New(s.Questions(), s.Verdicts())
		result, err := agg.Pending(cmd.Context(), reviewqueue.Opts{
			Status:  store.Status(status),
			Source:  store.Source(source),
			Page:    page,
			PerPage: perPage,
		})
		if err != nil {
			return fmt.Errorf("load review queue: %w", err)
		}

		if result.Total == 0 {
			fmt.Println("Review queue is empty.")
			return nil
		}

		fmt.Printf("%-4s  %-36s  %-5s  %-12s  %-16s  %s\n",
			"Pri", "ID", "Src", "Subject", "Updated", "Reasons")
		fmt.Println(strings.Repeat("─", 110))

		for _, item := range result.Items {
			codes := make([]string, len(item.Decision.Reasons))
			for i, r := range item.Decision.Reasons {
				codes[i] = r.Code
			}
			fmt.Printf("%-4d  %-36s  %-5s  %-12s  %-16s  %s\n",
				item.Decision.Priority,
				item.Question.Ref.ID,
				item.Question.Ref.Source,
				truncate(item.Question.Subject, 12),
				item.Question.UpdatedAt.Local().Format("2006-01-02 15:04"),
				strings.Join(codes, ","),
			)
		}

		fmt.Printf("\nPage %d — %d items total (%d per page)\n", result.Page, result.Total, result.PerPage)
		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	queueCmd.Flags().StringP("source", "s", "", "Filter by source (bank, quiz, exam)")
	queueCmd.Flags().String("status", "", "Filter by status (default admin_review)")
	queueCmd.Flags().Int("page", 1, "Page number")
	queueCmd.Flags().Int("per-page", 20, "Items per page")
}
