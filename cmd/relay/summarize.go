package main

import (
	"github.com/spf13/cobra"
)

func newSummarizeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <session_id>",
		Short: "Re-run the summary for a stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.service.ResummarizeSession(ctx, args[0]); err != nil {
				return err
			}

			session, _, err := a.service.Transcript(ctx, args[0])
			if err != nil {
				return err
			}
			if session.Summary == nil {
				cmd.Println("No conversation to summarize.")
				return nil
			}
			cmd.Println(*session.Summary)
			return nil
		},
	}
}
