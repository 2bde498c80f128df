package services

import "strings"

// ValidationError is a user-correctable input problem. Messages are shown
// to the user as they are.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func invalid(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}
