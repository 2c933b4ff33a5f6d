package aether

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound indicates the queried entity does not exist on the node
	// (yet). Lookups return it instead of a nil result so callers can
	// distinguish "absent" from "failed".
	ErrNotFound = errors.New("not found")

	// ErrInvalidKeyMaterial indicates key bytes of the wrong length or
	// shape were supplied to a key constructor.
	ErrInvalidKeyMaterial = errors.New("invalid key material")
)

// ValidationError reports input rejected locally, before any network
// traffic. Field names the offending input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError constructs a ValidationError with a formatted reason.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IncompleteTransactionError is the validation failure raised when a
// transaction build is attempted with a required field never set. Field
// names the missing field.
type IncompleteTransactionError struct {
	Field string
}

func (e *IncompleteTransactionError) Error() string {
	return fmt.Sprintf("incomplete transaction: %s not set", e.Field)
}

// RemoteFailureError reports that a tracked operation reached a failure
// state on the node, as opposed to failing locally or timing out. State
// carries the observed remote state (for example a challenged job or a
// failed receipt).
type RemoteFailureError struct {
	Op     string
	ID     string
	State  string
	Reason string
}

func (e *RemoteFailureError) Error() string {
	msg := fmt.Sprintf("%s %s failed remotely in state %q", e.Op, e.ID, e.State)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// TimeoutError reports that a wait budget elapsed before the tracked
// operation completed. It is never used for remote failures; a job that
// was challenged fails with RemoteFailureError even if the deadline also
// passed.
type TimeoutError struct {
	Op     string
	ID     string
	Budget time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s %s not complete after %s", e.Op, e.ID, e.Budget)
}

// RPCError is an error object returned by the node inside a JSON-RPC
// response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}
