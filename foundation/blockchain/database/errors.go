package database

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// Set of error kinds produced by the ledger.
var (
	ErrInvalidSignature        = errors.New("invalid signature")
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrProofOfWorkInvalid      = errors.New("proof of work invalid")
	ErrChainLinkMismatch       = errors.New("chain link mismatch")
	ErrMalformedKeyOrSignature = signature.ErrMalformed
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrDuplicateTx             = errors.New("duplicate transaction")
	ErrNonceExhausted          = errors.New("nonce space exhausted")
	ErrInvalidReward           = errors.New("invalid reward claim")
)

// =============================================================================

// InvalidTxError identifies the transaction that stopped a block from
// being constructed.
type InvalidTxError struct {
	TxHash Hash
	Amount float64
	Err    error
}

// Error implements the error interface.
func (e *InvalidTxError) Error() string {
	return fmt.Sprintf("transaction invalid - %s :: amount - %v: %s", e.TxHash, e.Amount, e.Err)
}

// Unwrap provides access to the error kind.
func (e *InvalidTxError) Unwrap() error {
	return e.Err
}

// RejectError is returned when a block fails the validation stages. Stage is
// the last stage the block reached before it was rejected.
type RejectError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *RejectError) Error() string {
	return fmt.Sprintf("block rejected after %s: %s", e.Stage, e.Err)
}

// Unwrap provides access to the error kind.
func (e *RejectError) Unwrap() error {
	return e.Err
}
