package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tomomira/youtube-video-analyzer/internal/app"
)

func newHistoryCmd(rt *runtime) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and manage search history",
	}
	cmd.PersistentFlags().IntVarP(&limit, "limit", "n", 20, "Maximum number of records to list (0 for all)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List recent searches, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				records, err := rt.store.RecentHistory(cmd.Context(), limit)
				if err != nil {
					return err
				}
				renderHistory(cmd.OutOrStdout(), records)
				return nil
			},
		},
		&cobra.Command{
			Use:   "find <substring>",
			Short: "List searches whose keyword contains substring",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				records, err := rt.store.FindHistory(cmd.Context(), args[0], limit)
				if err != nil {
					return err
				}
				renderHistory(cmd.OutOrStdout(), records)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show one history record",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseHistoryID(args[0])
				if err != nil {
					return err
				}
				record, err := rt.store.GetHistory(cmd.Context(), id)
				if err != nil {
					return err
				}
				if record == nil {
					return fmt.Errorf("%w: %d", app.ErrHistoryNotFound, id)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("History #%d", record.ID)))
				fmt.Fprintln(out, describeCriteria(record.CriteriaColumns))
				renderMeta(out, "Executed %s, %d results", record.ExecutedAt.Local().Format("2006-01-02 15:04:05"), record.ResultCount)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete one history record",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseHistoryID(args[0])
				if err != nil {
					return err
				}
				deleted, err := rt.store.DeleteHistory(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !deleted {
					return fmt.Errorf("%w: %d", app.ErrHistoryNotFound, id)
				}
				renderSuccess(cmd.OutOrStdout(), "History #%d deleted", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete all history records",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := rt.store.ClearHistory(cmd.Context())
				if err != nil {
					return err
				}
				renderSuccess(cmd.OutOrStdout(), "Cleared %d history records", n)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rerun <id>",
			Short: "Run a recorded search again",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseHistoryID(args[0])
				if err != nil {
					return err
				}
				a, err := rt.newApp(cmd.Context())
				if err != nil {
					return err
				}
				ch, err := a.RerunHistory(cmd.Context(), id)
				if err != nil {
					return err
				}
				outcome := <-ch
				if outcome.Err != nil {
					return outcome.Err
				}
				renderVideos(cmd.OutOrStdout(), fmt.Sprintf("Results for history #%d", id), outcome.Value)
				return nil
			},
		},
	)
	return cmd
}

func parseHistoryID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid history id %q", s)
	}
	return uint(id), nil
}
