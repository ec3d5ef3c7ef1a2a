package instrumentation

import "testing"

func TestExtractUserDomain(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"regular address", "jane@example.com", "example.com"},
		{"subdomain", "ops@mail.internal.example.com", "mail.internal.example.com"},
		{"no at sign", "invalid", "unknown"},
		{"empty", "", "unknown"},
		{"trailing at", "user@", "unknown"},
		{"double at", "a@b@c", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractUserDomain(tt.email); got != tt.want {
				t.Errorf("ExtractUserDomain(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}
