package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayBody(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "delimiter strips system metadata",
			input:    "Notes here___Join: https://teams.microsoft.com/l/abc",
			expected: "Notes here",
		},
		{
			name:     "plain text passes through",
			input:    "Plain text",
			expected: "Plain text",
		},
		{
			name:     "only first delimiter counts",
			input:    "a___b___c",
			expected: "a",
		},
		{
			name:     "leading delimiter yields empty display text",
			input:    "___metadata only",
			expected: "",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DisplayBody(tt.input))
		})
	}
}

func TestResponseSummary(t *testing.T) {
	attendees := []Attendee{
		{Address: "a@example.com", Response: ResponseAccepted},
		{Address: "b@example.com", Response: ResponseDeclined},
		{Address: "c@example.com", Response: ResponseNone},
		{Address: "d@example.com", Response: ResponseAccepted},
		{Address: "e@example.com", Response: ResponseTentative},
	}

	// Declined and tentative fold into the not-responded bucket.
	assert.Equal(t, "2 accepted, 3 didn't respond", ResponseSummary(attendees))
}

func TestResponseSummary_Empty(t *testing.T) {
	assert.Equal(t, "0 accepted, 0 didn't respond", ResponseSummary(nil))
}
