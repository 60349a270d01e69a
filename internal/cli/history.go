package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soyeahso/roster/internal/history"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent provisioning runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(paths.History, log)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no provisioning runs recorded")
				return nil
			}

			for _, run := range runs {
				verdict := "ok"
				detail := run.Message
				if !run.OK {
					verdict = "FAILED"
					detail = run.Error
				}
				fmt.Printf("  %s  %-12s %-7s %s\n",
					run.CreatedAt.Format("2006-01-02 15:04"), run.AgentID, verdict, detail)
			}
			fmt.Printf("\n%d run(s)\n", len(runs))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to show")
	return cmd
}
