package client

import (
	"math"
	"strings"
	"testing"
	"time"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name    string
		draft   Draft
		valid   bool
		problem string
	}{
		{"minimal", Draft{Name: "Pizza Place"}, true, ""},
		{"blank name", Draft{Name: "   "}, false, "name is required"},
		{"negative value", Draft{Name: "x", Value: floatPtr(-1)}, false, "negative"},
		{"nan value", Draft{Name: "x", Value: floatPtr(math.NaN())}, false, "finite"},
		{"zero value", Draft{Name: "x", Value: floatPtr(0)}, true, ""},
		{"interest too high", Draft{Name: "x", InterestLevel: intPtr(6)}, false, "interest level"},
		{"interest negative", Draft{Name: "x", InterestLevel: intPtr(-1)}, false, "interest level"},
		{"interest zero", Draft{Name: "x", InterestLevel: intPtr(0)}, true, ""},
		{"interest max", Draft{Name: "x", InterestLevel: intPtr(5)}, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidateDraft(tt.draft)
			if r.Valid != tt.valid {
				t.Fatalf("Valid = %v, want %v (problems: %v)", r.Valid, tt.valid, r.Problems)
			}
			if tt.problem != "" && !strings.Contains(r.Error(), tt.problem) {
				t.Errorf("Error() = %q, want it to contain %q", r.Error(), tt.problem)
			}
		})
	}
}

func TestValidate_Client(t *testing.T) {
	now := time.Now()
	ok := Client{ID: "1", Name: "A", Status: StatusContacted, CreatedAt: now, UpdatedAt: now}
	if r := Validate(ok); !r.Valid {
		t.Errorf("Validate(ok) problems: %v", r.Problems)
	}

	bad := ok
	bad.Status = "lost"
	if r := Validate(bad); r.Valid {
		t.Error("Validate should reject unknown status")
	}

	blank := ok
	blank.Name = ""
	if r := Validate(blank); !r.Valid {
		t.Errorf("Validate(blank name) problems: %v", r.Problems)
	}

	backwards := ok
	backwards.UpdatedAt = now.Add(-time.Hour)
	if r := Validate(backwards); r.Valid {
		t.Error("Validate should reject updatedAt before createdAt")
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	r := Validate(Client{Status: "x", Value: floatPtr(-5)})
	if len(r.Problems) != 2 {
		t.Errorf("Problems = %v, want 2 entries", r.Problems)
	}
}
