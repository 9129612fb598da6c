package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/models"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrComplaintNotFound  = errors.New("complaint not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrNoFieldsProvided   = errors.New("no fields to update")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError lists the request fields that were missing or unusable.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// TransitionError is returned when an action is not allowed from the complaint's
// current status.
type TransitionError struct {
	ID     uint
	Action string
	From   models.ComplaintStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s complaint %d while it is %s", e.Action, e.ID, e.From)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}
