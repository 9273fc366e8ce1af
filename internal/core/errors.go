package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies user-input validation failures.
type ErrorKind string

const (
	KindInvalidStartingBalance ErrorKind = "InvalidStartingBalance"
	KindIncompleteTransaction  ErrorKind = "IncompleteTransaction"
)

var (
	ErrInvalidStartingBalance = errors.New("invalid starting balance")
	ErrIncompleteTransaction  = errors.New("incomplete transaction")
)

// ValidationError is returned when user input is rejected. Prior state is
// never modified when one is returned.
type ValidationError struct {
	Kind   ErrorKind
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.sentinel(), e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", e.sentinel(), e.Field, e.Reason)
}

// Is lets errors.Is match the sentinel of the error's kind.
func (e *ValidationError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *ValidationError) sentinel() error {
	if e.Kind == KindInvalidStartingBalance {
		return ErrInvalidStartingBalance
	}
	return ErrIncompleteTransaction
}

func incomplete(field, reason string) error {
	return &ValidationError{Kind: KindIncompleteTransaction, Field: field, Reason: reason}
}

// InvalidStartingBalance builds the validation error for a rejected seed value.
func InvalidStartingBalance(reason string) error {
	return &ValidationError{Kind: KindInvalidStartingBalance, Reason: reason}
}
