package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MehrXloop/calsync/internal/calendar"
)

// draftFlags collects the event fields shared by create and update.
type draftFlags struct {
	subject   string
	date      string
	start     string
	end       string
	online    bool
	address   string
	body      string
	attendees []string
}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.subject, "subject", "", "Event subject")
	cmd.Flags().StringVar(&f.date, "date", "", "Event date as YYYY-MM-DD")
	cmd.Flags().StringVar(&f.start, "start", "", "Start time as HH:MM")
	cmd.Flags().StringVar(&f.end, "end", "", "End time as HH:MM")
	cmd.Flags().BoolVar(&f.online, "online", false, "Create a Teams online meeting")
	cmd.Flags().StringVar(&f.address, "address", "", "Meeting address for in-person events")
	cmd.Flags().StringVar(&f.body, "body", "", "Event body text")
	cmd.Flags().StringArrayVar(&f.attendees, "attendee", nil,
		`Attendee as "addr" or "Name <addr>", append :optional for optional attendees (repeatable)`)
}

func (f *draftFlags) toDraft(loc *time.Location) (calendar.Draft, error) {
	day, err := time.ParseInLocation("2006-01-02", f.date, loc)
	if err != nil {
		return calendar.Draft{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", f.date, err)
	}

	start, err := atTime(day, f.start)
	if err != nil {
		return calendar.Draft{}, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := atTime(day, f.end)
	if err != nil {
		return calendar.Draft{}, fmt.Errorf("invalid end time: %w", err)
	}

	draft := calendar.Draft{
		Subject:        f.subject,
		Start:          start,
		End:            end,
		OnlineMeeting:  f.online,
		MeetingAddress: f.address,
		Body:           f.body,
	}

	for _, raw := range f.attendees {
		att, err := parseAttendee(raw)
		if err != nil {
			return calendar.Draft{}, err
		}
		draft.Attendees = append(draft.Attendees, att)
	}

	return draft, nil
}

// atTime places an HH:MM clock time on the given day.
func atTime(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected HH:MM: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

// parseAttendee parses "addr" or "Name <addr>", with an optional
// ":optional" suffix marking the attendee as optional.
func parseAttendee(s string) (calendar.Attendee, error) {
	role := calendar.RoleRequired
	if rest, ok := strings.CutSuffix(s, ":optional"); ok {
		role = calendar.RoleOptional
		s = rest
	}

	att := calendar.Attendee{Role: role, Response: calendar.ResponseNone}

	if open := strings.Index(s, "<"); open >= 0 {
		end := strings.Index(s, ">")
		if end < open {
			return calendar.Attendee{}, fmt.Errorf("invalid attendee %q, expected \"Name <addr>\"", s)
		}
		att.Name = strings.TrimSpace(s[:open])
		att.Address = strings.TrimSpace(s[open+1 : end])
	} else {
		att.Address = strings.TrimSpace(s)
	}

	if att.Address == "" {
		return calendar.Attendee{}, fmt.Errorf("attendee %q has no address", s)
	}
	return att, nil
}

func newCreateCmd() *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a calendar event",
		Long: `Create an event on your calendar. Online meetings get a Teams join
link assigned by the server; in-person events carry the meeting address
in the body.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := buildEngine()
			if err != nil {
				return err
			}

			draft, err := flags.toDraft(eng.Location())
			if err != nil {
				return err
			}

			rec, err := eng.SubmitCreate(cmd.Context(), draft)
			if err != nil {
				return err
			}

			fmt.Printf("Created %q (%s)\n", rec.Title, rec.ID)
			if rec.OnlineMeetingURL != "" {
				fmt.Printf("Join link: %s\n", rec.OnlineMeetingURL)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
