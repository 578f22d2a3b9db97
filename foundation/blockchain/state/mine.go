package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// MineNewBlock attempts to create a new block with a proper hash that can
// become the next block in the chain.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, database.Hash, error) {
	defer s.evHandler("state: MineNewBlock: MINING: completed")

	s.evHandler("state: MineNewBlock: MINING: check mempool count")

	// Are there enough transactions in the pool.
	if s.mempool.Count() < s.genesis.BatchSize() {
		return database.Block{}, nil, ErrNotEnoughTransactions
	}

	s.evHandler("state: MineNewBlock: MINING: collect transactions")

	trans, tip := s.collectTransactions()
	if len(trans) < s.genesis.BatchSize() {
		return database.Block{}, nil, ErrNotEnoughTransactions
	}

	s.evHandler("state: MineNewBlock: MINING: create new block: txs[%d]", len(trans))

	block, err := database.NewBlock(trans, tip, s.beneficiaryKey, s.db.MiningReward())
	if err != nil {
		return database.Block{}, nil, err
	}

	s.evHandler("state: MineNewBlock: MINING: perform POW")

	// Attempt to create a new block by solving the POW puzzle. This can
	// be cancelled. The state lock is not held so proposals from other
	// nodes can be accepted while this runs.
	block, hash, err := block.Mine(ctx, s.db.Difficulty(), s.evHandler)
	if err != nil {
		return database.Block{}, nil, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, nil, ctx.Err()
	}

	s.evHandler("state: MineNewBlock: MINING: update local state")

	if err := s.updateLocalState(block, tip); err != nil {
		return database.Block{}, nil, err
	}

	return block, hash, nil
}

// ProcessProposedBlock takes a block received from a peer, validates it and
// if that passes, adds the block to the local blockchain.
func (s *State) ProcessProposedBlock(block database.Block) error {
	hash := block.Hash()
	s.evHandler("state: ProcessProposedBlock: started: prevBlk[%s]: newBlk[%s]: numTrans[%d]", block.PrevHash, hash, len(block.Transactions))
	defer s.evHandler("state: ProcessProposedBlock: completed: newBlk[%s]", hash)

	if err := s.acceptBlock(block); err != nil {
		var rejErr *database.RejectError
		if errors.As(err, &rejErr) {
			s.evHandler("state: ProcessProposedBlock: REJECTED: stage[%s]: %s", rejErr.Stage, rejErr.Err)
		}
		return err
	}

	// If the node is mining, it needs to stop immediately since the tip
	// it is mining on is gone.
	if s.Worker != nil {
		s.Worker.SignalCancelMining()
	}

	return nil
}

// =============================================================================

// collectTransactions picks transactions from the mempool in arrival order
// and checks them cumulatively against a snapshot of the chain. Anything
// that can't be applied is dropped from the mempool. The snapshot tip is
// returned so the caller can detect the chain moving underneath it.
func (s *State) collectTransactions() ([]database.SignedTx, database.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := s.db.Ledger()
	batch := s.genesis.BatchSize()

	var trans []database.SignedTx
	for _, tx := range s.mempool.Pick(-1) {
		if len(trans) == batch {
			break
		}

		if err := tx.Validate(); err != nil {
			s.evHandler("state: MineNewBlock: MINING: DROP: tx[%s]: %s", tx, err)
			s.mempool.Delete(tx.ID)
			continue
		}

		if err := ledger.Apply(tx.Tx); err != nil {
			s.evHandler("state: MineNewBlock: MINING: DROP: tx[%s]: %s", tx, err)
			s.mempool.Delete(tx.ID)
			continue
		}

		trans = append(trans, tx)
	}

	return trans, ledger.Tip()
}

// updateLocalState appends the mined block if the chain tip hasn't moved
// since the transactions were collected.
func (s *State) updateLocalState(block database.Block, tip database.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.db.HashOfLast().Equal(tip) {
		s.evHandler("state: MineNewBlock: MINING: STALE: tip[%s]", tip)
		return ErrStaleTip
	}

	return s.acceptBlockLocked(block)
}

// acceptBlock validates and appends the block under the state lock.
func (s *State) acceptBlock(block database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.acceptBlockLocked(block)
}

// acceptBlockLocked appends the block to the chain and removes its
// transactions from the mempool. The caller must hold the state lock.
func (s *State) acceptBlockLocked(block database.Block) error {
	if err := s.db.Accept(block); err != nil {
		return err
	}

	for _, tx := range block.Transactions {
		s.mempool.Delete(tx.ID)
	}

	s.blockEvent(block)

	return nil
}

// blockEvent provides a specific event about a new block in the chain for
// the event subscribers.
func (s *State) blockEvent(block database.Block) {
	blockHeader := struct {
		Number       int             `json:"number"`
		PrevHash     database.Hash   `json:"prev_hash"`
		Hash         database.Hash   `json:"hash"`
		Nonce        uint32          `json:"nonce"`
		Reward       database.Reward `json:"reward"`
		Transactions int             `json:"txs"`
	}{
		Number:       s.db.Length() - 1,
		PrevHash:     block.PrevHash,
		Hash:         block.Hash(),
		Nonce:        block.Nonce,
		Reward:       block.Reward,
		Transactions: len(block.Transactions),
	}

	data, err := json.Marshal(blockHeader)
	if err != nil {
		data = []byte(fmt.Sprintf("{\"error\": %q}", err.Error()))
	}

	s.evHandler("viewer: block: %s", string(data))
}
