package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MehrXloop/calsync/internal/calendar"
)

func newViewCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Fetch and display the calendar for a month",
		Long: `Fetch all events within a calendar month from Microsoft Graph and print
them. Times are shown in the configured display timezone, never the
host's local zone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := buildEngine()
			if err != nil {
				return err
			}

			anchor := time.Now().In(eng.Location())
			if month != "" {
				anchor, err = time.ParseInLocation("2006-01", month, eng.Location())
				if err != nil {
					return fmt.Errorf("invalid month %q, expected YYYY-MM: %w", month, err)
				}
			}

			res, err := eng.NavigateMonth(cmd.Context(), anchor)
			if err != nil {
				return err
			}

			if len(res.Events) == 0 {
				fmt.Printf("No events in %s.\n", anchor.Format("January 2006"))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tTITLE\tWHERE\tRESPONSES")
			for _, evt := range res.Events {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					formatEventTimes(evt),
					evt.Title,
					formatEventPlace(evt),
					calendar.ResponseSummary(evt.Attendees))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if res.Skipped > 0 {
				fmt.Printf("\nSkipped %d malformed record(s).\n", res.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month to display as YYYY-MM (default: current month)")
	return cmd
}

func formatEventTimes(evt calendar.EventRecord) string {
	return fmt.Sprintf("%s %s-%s",
		evt.Start.Format("Mon Jan 02"),
		evt.Start.Format("15:04"),
		evt.End.Format("15:04"))
}

func formatEventPlace(evt calendar.EventRecord) string {
	if evt.IsOnlineMeeting() {
		return "online"
	}
	return "in person"
}
