package client

import (
	"fmt"
	"math"
	"strings"
)

// MaxInterestLevel is the top of the interest scale.
const MaxInterestLevel = 5

// ValidationResult lists the problems found in a client or draft.
type ValidationResult struct {
	Valid    bool
	Problems []string
}

func (r *ValidationResult) add(format string, args ...any) {
	r.Valid = false
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// Error joins the problems into one message.
func (r *ValidationResult) Error() string {
	return strings.Join(r.Problems, "; ")
}

// ValidateDraft checks the fields a user supplies when creating a client.
func ValidateDraft(d Draft) *ValidationResult {
	result := &ValidationResult{Valid: true}
	if strings.TrimSpace(d.Name) == "" {
		result.add("name is required")
	}
	checkValue(result, d.Value)
	checkInterest(result, d.InterestLevel)
	return result
}

// Validate checks a full client record before it is stored through a manual
// edit. The name may be blank: imports can create such records and they stay
// editable. Renames are checked by the caller.
func Validate(c Client) *ValidationResult {
	result := &ValidationResult{Valid: true}
	if !c.Status.Valid() {
		result.add("unknown status %q", c.Status)
	}
	checkValue(result, c.Value)
	checkInterest(result, c.InterestLevel)
	if !c.CreatedAt.IsZero() && !c.UpdatedAt.IsZero() && c.UpdatedAt.Before(c.CreatedAt) {
		result.add("updatedAt must not be before createdAt")
	}
	return result
}

func checkValue(r *ValidationResult, v *float64) {
	if v == nil {
		return
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		r.add("value must be a finite number")
		return
	}
	if *v < 0 {
		r.add("value must not be negative")
	}
}

func checkInterest(r *ValidationResult, l *int) {
	if l == nil {
		return
	}
	if *l < 0 || *l > MaxInterestLevel {
		r.add("interest level must be between 0 and %d", MaxInterestLevel)
	}
}
