// Package database handles the in memory ledger: the transactions, the
// blocks that batch them and the chain that replays them into balances.
package database

import (
	"fmt"
	"math"
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// BlockChain manages the ordered sequence of blocks. Blocks are only ever
// appended, never removed or reordered.
type BlockChain struct {
	mu sync.RWMutex

	authority  PublicKey
	difficulty uint
	reward     float64
	blocks     []Block
	evHandler  func(v string, args ...any)
}

// New constructs the chain from the genesis information.
func New(gen genesis.Genesis, evHandler func(v string, args ...any)) (*BlockChain, error) {
	authority, err := AccountID(gen.Authority).PublicKey()
	if err != nil {
		return nil, fmt.Errorf("genesis authority: %w", err)
	}

	bc, err := NewBlockChain(authority, gen.MiningReward, uint(gen.Difficulty))
	if err != nil {
		return nil, err
	}

	if evHandler != nil {
		bc.evHandler = evHandler
	}

	return bc, nil
}

// NewBlockChain constructs a chain that starts with a genesis block. The
// genesis block has no transactions and pays the mining reward to the
// authority.
func NewBlockChain(authority PublicKey, reward float64, difficulty uint) (*BlockChain, error) {
	if len(authority) != signature.PublicKeySize {
		return nil, fmt.Errorf("authority key len[%d]: %w", len(authority), ErrMalformedKeyOrSignature)
	}

	if difficulty > signature.HashSize*8 {
		return nil, fmt.Errorf("difficulty %d is larger than the hash size", difficulty)
	}

	if math.IsNaN(reward) || math.IsInf(reward, 0) || reward < 0 {
		return nil, fmt.Errorf("mining reward %v: %w", reward, ErrInvalidReward)
	}

	genesisBlock, err := NewBlock(nil, GenesisHash, authority, reward)
	if err != nil {
		return nil, err
	}

	bc := BlockChain{
		authority:  authority,
		difficulty: difficulty,
		reward:     reward,
		blocks:     []Block{genesisBlock},
		evHandler:  func(v string, args ...any) {},
	}

	return &bc, nil
}

// AuthorityKey returns the genesis authority key.
func (bc *BlockChain) AuthorityKey() PublicKey {
	return bc.authority
}

// Difficulty returns the leading zero bits required by the chain.
func (bc *BlockChain) Difficulty() uint {
	return bc.difficulty
}

// MiningReward returns the reward a miner claims for each block.
func (bc *BlockChain) MiningReward() float64 {
	return bc.reward
}

// =============================================================================

// Append pushes the block onto the chain. No checks are performed, callers
// must have validated the block first. Use Accept to do both atomically.
func (bc *BlockChain) Append(block Block) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	bc.blocks = append(bc.blocks, block)
}

// HashOfLast returns the hash of the last block in the chain.
func (bc *BlockChain) HashOfLast() Hash {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	return bc.blocks[len(bc.blocks)-1].Hash()
}

// LatestBlock returns the last block in the chain.
func (bc *BlockChain) LatestBlock() Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	return bc.blocks[len(bc.blocks)-1]
}

// Length returns the number of blocks including the genesis block.
func (bc *BlockChain) Length() int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	return len(bc.blocks)
}

// Blocks returns a copy of the blocks from the specified index up to and
// including the to index. Out of range values are clamped.
func (bc *BlockChain) Blocks(from int, to int) []Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if from < 0 {
		from = 0
	}
	if to >= len(bc.blocks) {
		to = len(bc.blocks) - 1
	}
	if from > to {
		return nil
	}

	cpy := make([]Block, to-from+1)
	copy(cpy, bc.blocks[from:to+1])

	return cpy
}

// =============================================================================

// Ledger replays the chain into a ledger that can be used to check a batch
// of transactions. The ledger is a snapshot and does not follow the chain.
func (bc *BlockChain) Ledger() *Ledger {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	return newLedger(bc.blocks)
}

// BalanceOf replays every block to compute the balance of the account.
func (bc *BlockChain) BalanceOf(key PublicKey) float64 {
	return bc.Ledger().BalanceOf(key)
}

// Balances replays every block to compute the balance of all accounts.
func (bc *BlockChain) Balances() map[AccountID]float64 {
	return bc.Ledger().Balances()
}

// VerifyTransaction checks the sender holds enough to pay the amount. The
// signature is not checked here, that is SignedTx.Validate's job.
func (bc *BlockChain) VerifyTransaction(tx Tx) error {
	if err := validateAmount(tx); err != nil {
		return err
	}

	if balance := bc.BalanceOf(tx.SenderKey); balance < tx.Amount {
		return fmt.Errorf("bal %v, needed %v: %w", balance, tx.Amount, ErrInsufficientBalance)
	}

	return nil
}
