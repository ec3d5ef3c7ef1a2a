package calendar

import (
	"fmt"
	"strings"
)

// BodyDelimiter separates human-written body text from system-appended
// metadata such as a join-link block.
const BodyDelimiter = "___"

// DisplayBody returns the part of a body preview meant for display: the
// text preceding the first delimiter, or the whole string when no
// delimiter is present.
func DisplayBody(bodyPreview string) string {
	if i := strings.Index(bodyPreview, BodyDelimiter); i >= 0 {
		return bodyPreview[:i]
	}
	return bodyPreview
}

// ResponseSummary renders a short accepted-versus-pending line for an
// attendee list. Declined and tentative replies are folded into the
// "didn't respond" bucket; that matches the established display behavior
// even though it undercounts explicit declines.
func ResponseSummary(attendees []Attendee) string {
	accepted := 0
	for _, a := range attendees {
		if a.Response == ResponseAccepted {
			accepted++
		}
	}
	return fmt.Sprintf("%d accepted, %d didn't respond", accepted, len(attendees)-accepted)
}
