package http

import (
	"errors"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// userMessage maps a ledger error to the text shown to the user.
func userMessage(err error) string {
	var verr *core.ValidationError
	switch {
	case errors.Is(err, core.ErrInvalidStartingBalance):
		return "Please enter a valid starting balance."
	case errors.As(err, &verr) && verr.Kind == core.KindIncompleteTransaction:
		return "Please fill out all fields: " + verr.Field + " " + verr.Reason + "."
	case errors.Is(err, ledger.ErrStartingBalanceLocked):
		return "The starting balance has already been set."
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, ledger.ErrIndexOutOfRange):
		return "That transaction no longer exists."
	}
	return "Something went wrong."
}

// errorType classifies a ledger error for logging.
func errorType(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidStartingBalance), errors.Is(err, core.ErrIncompleteTransaction):
		return applog.ErrorTypeValidation
	case errors.Is(err, ledger.ErrStartingBalanceLocked):
		return applog.ErrorTypeConflict
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, ledger.ErrIndexOutOfRange):
		return applog.ErrorTypeNotFound
	}
	return applog.ErrorTypeInternal
}

// errorResponse picks the status for a ledger error.
func errorResponse(err error) *HTMXResponseBuilder {
	msg := userMessage(err)
	switch errorType(err) {
	case applog.ErrorTypeValidation:
		return UnprocessableEntityError(msg)
	case applog.ErrorTypeConflict:
		return ConflictError(msg)
	case applog.ErrorTypeNotFound:
		return NotFoundError(msg).TriggerErrorNotification(msg)
	}
	return InternalServerError(msg)
}
