package sanitize

import "testing"

func TestName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Ann Smith", want: "Ann Smith"},
		{in: "  Ann   Smith  ", want: "Ann Smith"},
		{in: "<b>Ann</b> Smith", want: "Ann Smith"},
		{in: "&lt;script&gt;alert(1)&lt;/script&gt;Ann", want: "alert(1)Ann"},
		{in: "Ann\t\nSmith", want: "Ann Smith"},
	}
	for _, tc := range tests {
		if got := Name(tc.in); got != tc.want {
			t.Fatalf("Name(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEmail(t *testing.T) {
	if got := Email("  Ann@Example.COM "); got != "ann@example.com" {
		t.Fatalf("unexpected email %q", got)
	}
}

func TestPtrHelpers(t *testing.T) {
	if NamePtr(nil) != nil || EmailPtr(nil) != nil {
		t.Fatalf("expected nil for nil input")
	}
	name := " <i>Bob</i> "
	if got := NamePtr(&name); *got != "Bob" {
		t.Fatalf("unexpected name %q", *got)
	}
}
