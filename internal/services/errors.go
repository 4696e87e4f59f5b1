package services

import "errors"

// ErrNotFound covers every question that may not be shown. Callers must not
// tell the reasons apart.
var ErrNotFound = errors.New("question not found")

// MsgNoChoice is shown when a vote is cast without a valid choice.
const MsgNoChoice = "You didn't select a choice."

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
