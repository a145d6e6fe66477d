package ai

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingAPIKey is returned on first use when no API key is
	// configured. It is a configuration error and is never retried.
	ErrMissingAPIKey = errors.New("API key is not configured; set GEMINI_API_KEY or run `prospector key set`")

	// ErrCommunication wraps any transport or model failure while
	// generating a draft.
	ErrCommunication = errors.New("failed to communicate with the AI model")

	// ErrFindApproaches wraps failures of the approach search.
	ErrFindApproaches = errors.New("failed to find marketing approaches")

	// ErrCaseStudySearch wraps failures of the case-study search.
	ErrCaseStudySearch = errors.New("failed to search case studies")
)

// ValidationError is a user-facing problem with the input that is
// reported before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateGoal returns a *ValidationError when goal is blank. action
// names what the user was trying to do, e.g. "generate an email".
func ValidateGoal(goal, action string) error {
	if strings.TrimSpace(goal) != "" {
		return nil
	}
	return &ValidationError{
		Field:   "goal",
		Message: fmt.Sprintf("Please describe the client and your goal in the 'Client & Goal' tab to %s.", action),
	}
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
