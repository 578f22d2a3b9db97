package database

import (
	"fmt"

	"github.com/google/uuid"
)

// Ledger is a point in time replay of the chain. It can be advanced one
// transaction at a time to check a batch of transactions cumulatively, the
// way they would be applied if they were mined into the next block.
type Ledger struct {
	tip      Hash
	balances map[AccountID]float64
	seen     map[uuid.UUID]struct{}
}

// newLedger replays the blocks in chain order. Transactions move the amount
// from the sender to the receiver and each block credits its reward claim
// after its transactions. Signatures are not re-checked here.
func newLedger(blocks []Block) *Ledger {
	l := Ledger{
		balances: make(map[AccountID]float64),
		seen:     make(map[uuid.UUID]struct{}),
	}

	for _, block := range blocks {
		for _, tx := range block.Transactions {
			l.apply(tx.Tx)
		}
		l.balances[block.Reward.PayeeKey.AccountID()] += block.Reward.Amount
	}

	if len(blocks) > 0 {
		l.tip = blocks[len(blocks)-1].Hash()
	}

	return &l
}

// Tip returns the hash of the last block the ledger was built from.
func (l *Ledger) Tip() Hash {
	return l.tip
}

// BalanceOf returns the balance of the account in this ledger.
func (l *Ledger) BalanceOf(key PublicKey) float64 {
	return l.balances[key.AccountID()]
}

// Check validates the transaction against the ledger without applying it.
func (l *Ledger) Check(tx Tx) error {
	if err := validateAmount(tx); err != nil {
		return err
	}

	if _, exists := l.seen[tx.ID]; exists {
		return fmt.Errorf("id %s: %w", tx.ID, ErrDuplicateTx)
	}

	if balance := l.BalanceOf(tx.SenderKey); balance < tx.Amount {
		return fmt.Errorf("bal %v, needed %v: %w", balance, tx.Amount, ErrInsufficientBalance)
	}

	return nil
}

// Apply validates the transaction against the ledger and, if that passes,
// moves the amount so the next transaction sees the new balances.
func (l *Ledger) Apply(tx Tx) error {
	if err := l.Check(tx); err != nil {
		return err
	}

	l.apply(tx)

	return nil
}

// apply performs the balance changes for the transaction.
func (l *Ledger) apply(tx Tx) {
	l.balances[tx.SenderKey.AccountID()] -= tx.Amount
	l.balances[tx.ReceiverKey.AccountID()] += tx.Amount
	l.seen[tx.ID] = struct{}{}
}

// Balances returns a copy of every account balance in the ledger.
func (l *Ledger) Balances() map[AccountID]float64 {
	cpy := make(map[AccountID]float64, len(l.balances))
	for account, balance := range l.balances {
		cpy[account] = balance
	}

	return cpy
}
