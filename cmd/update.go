package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUpdateCmd() *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "update <event-id>",
		Short: "Replace the fields of an existing event",
		Long: `Submit the complete replacement field set for an event you organize.
All fields must be provided; the submitted values become the event, they
are not merged with the old ones.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := buildEngine()
			if err != nil {
				return err
			}

			draft, err := flags.toDraft(eng.Location())
			if err != nil {
				return err
			}

			rec, err := eng.SubmitUpdate(cmd.Context(), args[0], draft)
			if err != nil {
				return err
			}

			fmt.Printf("Updated %q (%s)\n", rec.Title, rec.ID)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
