package domain

import (
	"errors"
	"fmt"
)

// Persistence error kinds.
var (
	ErrSchema            = errors.New("schema error")
	ErrNotFound          = errors.New("not found")
	ErrIntegrityConflict = errors.New("conflicts with existing data")
	ErrEngine            = errors.New("engine error")
)

// Vote workflow rejections.
var (
	ErrAlreadyVoted      = errors.New("already voted in this poll")
	ErrOptionsNotFound   = errors.New("one or multiple options voted for are not found")
	ErrNotMultipleChoice = errors.New("this poll is not multiple choice")
	ErrVotingClosed      = errors.New("voting for this poll has closed")
	ErrNoOptionsSelected = errors.New("at least one option must be selected")
)

var (
	ErrPollNotFound  = errors.New("poll not found")
	ErrVoteNotFound  = errors.New("vote not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrInactiveUser  = errors.New("inactive user")
	ErrForbidden     = errors.New("the user doesn't have enough privileges")
	ErrAnonymousPoll = errors.New("this poll is anonymous")
	ErrInvalidPoll   = errors.New("invalid poll")

	ErrUnauthenticated = errors.New("authentication required")
)

// EntityError is returned by the entity engine. Kind is one of ErrSchema,
// ErrNotFound, ErrIntegrityConflict or ErrEngine.
type EntityError struct {
	Kind       error
	Entity     string
	Constraint string
	Msg        string
	Err        error
}

func (e *EntityError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Entity, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Entity, msg)
}

func (e *EntityError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ConstraintOf returns the name of the backend constraint that rejected a
// write, or "" when err is not an integrity conflict.
func ConstraintOf(err error) string {
	var ee *EntityError
	if errors.As(err, &ee) && errors.Is(ee.Kind, ErrIntegrityConflict) {
		return ee.Constraint
	}
	return ""
}
