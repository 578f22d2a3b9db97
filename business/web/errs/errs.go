// Package errs provides the error types the web layer understands and the
// form failures are returned to clients in.
package errs

import (
	"errors"
	"net/http"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
)

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error  string            `json:"error"`
	Stage  string            `json:"stage,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted is used to pass an error during the request through the
// application with web specific context.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error implements the error interface. It uses the default message of the
// wrapped error. This is what will be shown in the services' logs.
func (re *Trusted) Error() string {
	return re.Err.Error()
}

// Unwrap provides access to the wrapped error.
func (re *Trusted) Unwrap() error {
	return re.Err
}

// IsTrusted checks if an error of type Trusted exists.
func IsTrusted(err error) bool {
	var re *Trusted
	return errors.As(err, &re)
}

// GetTrusted returns a copy of the Trusted pointer.
func GetTrusted(err error) *Trusted {
	var re *Trusted
	if !errors.As(err, &re) {
		return nil
	}
	return re
}

// =============================================================================

// FromLedger maps the errors the ledger and state packages return to a
// trusted error with the matching status code.
func FromLedger(err error) error {
	switch {
	case errors.Is(err, database.ErrInvalidSignature),
		errors.Is(err, database.ErrMalformedKeyOrSignature),
		errors.Is(err, database.ErrInvalidAmount):
		return NewTrusted(err, http.StatusBadRequest)

	case errors.Is(err, database.ErrInsufficientBalance),
		errors.Is(err, database.ErrDuplicateTx),
		errors.Is(err, database.ErrProofOfWorkInvalid),
		errors.Is(err, database.ErrInvalidReward):
		return NewTrusted(err, http.StatusNotAcceptable)

	case errors.Is(err, database.ErrChainLinkMismatch),
		errors.Is(err, state.ErrStaleTip):
		return NewTrusted(err, http.StatusConflict)
	}

	return err
}
