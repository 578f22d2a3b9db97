package state

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// SubmitWalletTransaction accepts a transaction from a wallet for inclusion.
func (s *State) SubmitWalletTransaction(signedTx database.SignedTx) error {
	if err := s.validateTransaction(signedTx); err != nil {
		return err
	}

	n := s.mempool.Upsert(signedTx)
	s.evHandler("state: SubmitWalletTransaction: tx[%s]: mempool[%d]", signedTx, n)

	if s.Worker != nil {
		s.Worker.SignalShareTx(signedTx)
		s.Worker.SignalStartMining()
	}

	return nil
}

// SubmitNodeTransaction accepts a transaction from a node for inclusion.
func (s *State) SubmitNodeTransaction(signedTx database.SignedTx) error {
	if err := s.validateTransaction(signedTx); err != nil {
		return err
	}

	n := s.mempool.Upsert(signedTx)
	s.evHandler("state: SubmitNodeTransaction: tx[%s]: mempool[%d]", signedTx, n)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return nil
}

// =============================================================================

// validateTransaction takes the signed transaction and validates it has
// a proper signature. Balances are checked when the miner collects the
// transaction, not here, since funds can arrive before it is mined.
func (s *State) validateTransaction(signedTx database.SignedTx) error {
	if err := signedTx.Validate(); err != nil {
		return err
	}

	if !signedTx.ValidAmount() {
		return fmt.Errorf("amount %v: %w", signedTx.Amount, database.ErrInvalidAmount)
	}

	return nil
}
