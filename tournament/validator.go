package tournament

import (
	"strings"
	"unicode/utf8"

	"github.com/streamcup/bracket-system/models"
)

const (
	MinParticipants = 2
	MaxParticipants = 64
	MaxNameLength   = 100
)

// Result accumulates every violated rule. IsValid is true exactly when Errors
// is empty.
type Result struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// Validate checks a tournament against the structural business rules. Checks
// do not short-circuit, so the caller can surface every problem in a single
// pass, and the message order is fixed: name rules, then participant count
// rules, then uniqueness.
func Validate(t *models.Tournament) Result {
	errs := make([]string, 0, 5)

	if strings.TrimSpace(t.Name) == "" {
		errs = append(errs, "Tournament name is required")
	}
	if utf8.RuneCountInString(t.Name) > MaxNameLength {
		errs = append(errs, "Tournament name must be less than 100 characters")
	}
	if len(t.Participants) < MinParticipants {
		errs = append(errs, "Tournament must have at least 2 participants")
	}
	if len(t.Participants) > MaxParticipants {
		errs = append(errs, "Tournament cannot have more than 64 participants")
	}
	if hasDuplicates(t.Participants) {
		errs = append(errs, "Tournament participants must be unique")
	}

	return Result{IsValid: len(errs) == 0, Errors: errs}
}

func hasDuplicates(participants []string) bool {
	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if _, ok := seen[p]; ok {
			return true
		}
		seen[p] = struct{}{}
	}
	return false
}
