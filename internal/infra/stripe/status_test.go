package stripe

import "testing"

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "none"},
		{in: "  ", want: "none"},
		{in: "active", want: "active"},
		{in: "trialing", want: "trialing"},
		{in: "past_due", want: "past_due"},
		{in: "unpaid", want: "past_due"},
		{in: "canceled", want: "canceled"},
		{in: "incomplete_expired", want: "canceled"},
		{in: "incomplete", want: "incomplete"},
	}

	for _, tt := range tests {
		if got := NormalizeStatus(tt.in); got != tt.want {
			t.Fatalf("NormalizeStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsEntitling(t *testing.T) {
	for _, status := range []string{"active", "trialing"} {
		if !IsEntitling(status) {
			t.Fatalf("expected status %q to be entitling", status)
		}
	}
	for _, status := range []string{"canceled", "past_due", "incomplete", "inactive", ""} {
		if IsEntitling(status) {
			t.Fatalf("expected status %q to be non-entitling", status)
		}
	}
}
