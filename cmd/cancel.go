package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCancelCmd() *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "cancel <event-id>",
		Short: "Cancel an event as its organizer",
		Long: `Cancel an event you organize. Attendees receive the cancellation with
the given comment, and the event is removed from the local store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := buildEngine()
			if err != nil {
				return err
			}

			if err := eng.SubmitCancel(cmd.Context(), args[0], comment); err != nil {
				return err
			}

			fmt.Printf("Cancelled %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&comment, "comment", "", "Cancellation note sent to attendees")
	return cmd
}
