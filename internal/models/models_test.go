package models

import (
	"testing"
)

func TestOwnable(t *testing.T) {
	uid := uint(7)
	if got := (&Candidate{UserID: &uid}).GetUserID(); got != 7 {
		t.Errorf("Candidate.GetUserID() = %d, want 7", got)
	}
	if got := (&Candidate{}).GetUserID(); got != 0 {
		t.Errorf("Candidate.GetUserID() without user = %d, want 0", got)
	}
	if got := (&Application{UserID: 42}).GetUserID(); got != 42 {
		t.Errorf("Application.GetUserID() = %d, want 42", got)
	}
	if got := (&Job{CreatedBy: 3}).GetUserID(); got != 3 {
		t.Errorf("Job.GetUserID() = %d, want 3", got)
	}
}

func TestJob_GetCompanyID(t *testing.T) {
	cid := uint(9)
	if got := (&Job{CompanyID: &cid}).GetCompanyID(); got != 9 {
		t.Errorf("GetCompanyID() = %d, want 9", got)
	}
	if got := (&Job{}).GetCompanyID(); got != 0 {
		t.Errorf("GetCompanyID() = %d, want 0", got)
	}
}

func TestUser_Name(t *testing.T) {
	tests := []struct {
		first, last, want string
	}{
		{"Ada", "Lovelace", "Ada Lovelace"},
		{"Ada", "", "Ada"},
		{"", "", ""},
	}
	for _, tt := range tests {
		u := &User{FirstName: tt.first, LastName: tt.last}
		if got := u.Name(); got != tt.want {
			t.Errorf("Name() = %q, want %q", got, tt.want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Foo@Example.COM "); got != "foo@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleCandidate, RoleHR, RoleAdmin} {
		if !r.Valid() {
			t.Errorf("expected %s to be valid", r)
		}
	}
	if Role("guest").Valid() {
		t.Errorf("expected guest to be invalid")
	}
}

func TestApplicationStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to ApplicationStatus
		want     bool
	}{
		{StatusApplied, StatusReviewing, true},
		{StatusApplied, StatusInterview, false},
		{StatusReviewing, StatusInterview, true},
		{StatusInterview, StatusAccepted, true},
		{StatusInterview, StatusWithdrawn, true},
		{StatusRecommended, StatusApplied, true},
		{StatusRecommended, StatusAccepted, false},
		{StatusAccepted, StatusRejected, false},
		{StatusWithdrawn, StatusApplied, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition() = %v, want %v", got, tt.want)
			}
		})
	}

	for _, s := range []ApplicationStatus{StatusAccepted, StatusRejected, StatusWithdrawn} {
		if !s.IsTerminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	if StatusApplied.IsTerminal() {
		t.Errorf("applied must not be terminal")
	}
}

func TestPatches(t *testing.T) {
	title := "Staff Engineer"
	skills := []string{"go", "sql"}
	j := &Job{Title: "Engineer", Location: "Paris"}
	JobPatch{Title: &title, Skills: &skills}.Apply(j)
	if j.Title != title || len(j.Skills) != 2 || j.Location != "Paris" {
		t.Errorf("unexpected job after patch: %+v", j)
	}

	years := 6
	c := &Candidate{Name: "A", ExperienceYears: 1}
	CandidatePatch{ExperienceYears: &years}.Apply(c)
	if c.ExperienceYears != 6 || c.Name != "A" {
		t.Errorf("unexpected candidate after patch: %+v", c)
	}
}

func TestExperienceBucket(t *testing.T) {
	tests := map[int]string{0: "entry", 1: "entry", 2: "mid", 4: "mid", 5: "senior", 12: "senior"}
	for years, want := range tests {
		if got := ExperienceBucket(years); got != want {
			t.Errorf("ExperienceBucket(%d) = %q, want %q", years, got, want)
		}
	}
}
