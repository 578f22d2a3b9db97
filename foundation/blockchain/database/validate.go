package database

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// Stage represents how far a proposed block got through validation.
type Stage int

// Set of stages a proposed block moves through in order.
const (
	StageReceived Stage = iota
	StageProofChecked
	StageLinkChecked
	StageTransactionsChecked
	StageAccepted
	StageRejected
)

// String implements the fmt.Stringer interface.
func (s Stage) String() string {
	switch s {
	case StageReceived:
		return "received"
	case StageProofChecked:
		return "proof-checked"
	case StageLinkChecked:
		return "link-checked"
	case StageTransactionsChecked:
		return "transactions-checked"
	case StageAccepted:
		return "accepted"
	case StageRejected:
		return "rejected"
	}

	return "unknown"
}

// =============================================================================

// ValidateBlock runs the block through the validation stages against the
// current tip without appending it.
func (bc *BlockChain) ValidateBlock(block Block) error {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	return bc.validateBlock(block)
}

// Accept validates the block and, if every stage passes, appends it. Both
// happen under the write lock so the tip can't move between the link check
// and the append. A rejected block leaves the chain unchanged.
func (bc *BlockChain) Accept(block Block) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if err := bc.validateBlock(block); err != nil {
		return err
	}

	bc.blocks = append(bc.blocks, block)
	bc.evHandler("database: Accept: blk[%d]: stage: %s", len(bc.blocks)-1, StageAccepted)

	return nil
}

// validateBlock performs the stage checks in order, stopping at the first
// failure. The caller must hold the lock.
func (bc *BlockChain) validateBlock(block Block) error {
	next := len(bc.blocks)
	stage := StageReceived

	bc.evHandler("database: ValidateBlock: blk[%d]: check: block hash has been solved", next)

	hash := block.Hash()
	if LeadingZeroBits(hash) < bc.difficulty {
		return &RejectError{Stage: stage, Err: ErrProofOfWorkInvalid}
	}
	stage = StageProofChecked

	bc.evHandler("database: ValidateBlock: blk[%d]: check: prev hash does match the tip", next)

	tip := bc.blocks[len(bc.blocks)-1].Hash()
	if !block.PrevHash.Equal(tip) {
		return &RejectError{Stage: stage, Err: ErrChainLinkMismatch}
	}
	stage = StageLinkChecked

	bc.evHandler("database: ValidateBlock: blk[%d]: check: reward claim matches the mining reward", next)

	if len(block.Reward.PayeeKey) != signature.PublicKeySize || block.Reward.Amount != bc.reward {
		return &RejectError{Stage: stage, Err: fmt.Errorf("payee key len[%d] amount[%v], want amount[%v]: %w", len(block.Reward.PayeeKey), block.Reward.Amount, bc.reward, ErrInvalidReward)}
	}

	bc.evHandler("database: ValidateBlock: blk[%d]: check: transactions are signed and funded", next)

	// Balances are checked cumulatively, each transaction sees the balances
	// left by the transactions before it in the same block.
	ledger := newLedger(bc.blocks)
	for _, tx := range block.Transactions {
		if err := tx.Validate(); err != nil {
			return &RejectError{Stage: stage, Err: &InvalidTxError{TxHash: tx.Hash(), Amount: tx.Amount, Err: err}}
		}

		if err := ledger.Apply(tx.Tx); err != nil {
			return &RejectError{Stage: stage, Err: &InvalidTxError{TxHash: tx.Hash(), Amount: tx.Amount, Err: err}}
		}
	}

	bc.evHandler("database: ValidateBlock: blk[%d]: stage: %s", next, StageTransactionsChecked)

	return nil
}
