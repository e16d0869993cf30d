package quiz

import "errors"

// ErrNotFound is returned for quiz results that do not exist or belong to
// another user. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("Quiz not found")

// ValidationError is a client-caused failure. Message is safe to show to users.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationError(msg string) error {
	return &ValidationError{Message: msg}
}
