package validation

import "testing"

func TestValidators(t *testing.T) {
	v := Violations{}
	Required("name", "  ", v)
	Email("email", "not-an-email", v)
	MinLength("password", "short", 8, v)
	OneOf("role", "owner", []string{"candidate", "hr"}, v)
	OneOf("job_type", "", []string{"full-time"}, v)
	PositiveInt("job_id", 0, v)
	RangeFloat("score", 1.5, 0, 1, v)
	RangeInt("years", 70, 0, 60, v)

	want := map[string]string{
		"name":     "required",
		"email":    "invalid_email",
		"password": "too_short",
		"role":     "invalid_choice",
		"job_id":   "must_be_positive",
		"score":    "out_of_range",
		"years":    "out_of_range",
	}
	if len(v) != len(want) {
		t.Fatalf("expected %d violations, got %v", len(want), v)
	}
	for field, code := range want {
		if v[field] != code {
			t.Errorf("%s: expected %q got %q", field, code, v[field])
		}
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jane@example.com", ""},
		{"", "required"},
		{"Jane <jane@example.com>", "invalid_email"},
		{"jane@localhost", "invalid_email"},
		{"jane@@example.com", "invalid_email"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v := Violations{}
			Email("email", tt.in, v)
			if v["email"] != tt.want {
				t.Fatalf("Email(%q) = %q, want %q", tt.in, v["email"], tt.want)
			}
		})
	}
}

func TestFirstViolationWins(t *testing.T) {
	v := Violations{}
	Required("password", "", v)
	MinLength("password", "", 8, v)
	if v["password"] != "required" {
		t.Fatalf("expected first violation kept, got %q", v["password"])
	}
}

func TestLocalize(t *testing.T) {
	v := Violations{"email": "required"}
	if got := v.Localize("fr")["email"]; got != "Requis" {
		t.Fatalf("expected Requis, got %q", got)
	}
	if !(Violations{}).Empty() {
		t.Fatalf("expected empty")
	}
}
