package workflow

import (
	"errors"
)

// ValidationError rejects an operation before any network call is made.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// StateError rejects an operation because the workflow is not in a state
// that allows it.
type StateError string

func (e StateError) Error() string { return string(e) }

// Pre-call rejections. None of these reach the server.
const (
	ErrIdentifierRequired  = ValidationError("identifier required")
	ErrAmountNotPositive   = ValidationError("amount must be positive")
	ErrInsufficientBalance = ValidationError("insufficient balance")
	ErrAccountRequired     = ValidationError("account identifier required")

	ErrNoAccountSelected = StateError("no account selected")
	ErrOperationPending  = StateError("another operation is still pending")
	ErrNotSupported      = StateError("operation not available for this role")
)

// IsLocal reports whether err was produced before any network call.
func IsLocal(err error) bool {
	var v ValidationError
	var s StateError
	return errors.As(err, &v) || errors.As(err, &s)
}

// OperationError is a remote failure reduced to its user-visible message.
// The transport error stays reachable through Unwrap for classification.
type OperationError struct {
	msg   string
	cause error
}

func (e *OperationError) Error() string { return e.msg }

// Unwrap exposes the underlying transport error.
func (e *OperationError) Unwrap() error { return e.cause }
