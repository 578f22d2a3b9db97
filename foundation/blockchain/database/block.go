package database

import (
	"context"
	"fmt"
	"math"
	"math/bits"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// Reward is the claim a block makes for the account that mined it.
type Reward struct {
	PayeeKey PublicKey `json:"payee"`
	Amount   float64   `json:"amount"`
}

// EncodeTo implements the signature.Encodable interface.
func (r Reward) EncodeTo(enc *signature.Encoder) {
	enc.Tag("reward")
	enc.Bytes32(r.PayeeKey)
	enc.Float64(r.Amount)
}

// =============================================================================

// Block represents a group of transactions batched together.
type Block struct {
	Transactions []SignedTx `json:"txs"`       // Transactions in the order they are applied.
	PrevHash     Hash       `json:"prev_hash"` // Hash of the previous block in the chain.
	Nonce        uint32     `json:"nonce"`     // Value identified to solve the hash solution.
	Reward       Reward     `json:"reward"`    // Mining reward claimed by the miner.
}

// NewBlock constructs a block that is ready to be mined. Every transaction
// must carry a valid signature or the block is not constructed.
func NewBlock(trans []SignedTx, prevHash Hash, minerKey PublicKey, reward float64) (Block, error) {
	for _, tx := range trans {
		if err := tx.Validate(); err != nil {
			return Block{}, &InvalidTxError{
				TxHash: tx.Hash(),
				Amount: tx.Amount,
				Err:    err,
			}
		}
	}

	// The block owns its copy of the transactions so later changes to the
	// caller's slice never change the block hash.
	cpy := make([]SignedTx, len(trans))
	copy(cpy, trans)

	b := Block{
		Transactions: cpy,
		PrevHash:     append(Hash(nil), prevHash...),
		Nonce:        0,
		Reward: Reward{
			PayeeKey: minerKey,
			Amount:   reward,
		},
	}

	return b, nil
}

// EncodeTo implements the signature.Encodable interface.
func (b Block) EncodeTo(enc *signature.Encoder) {
	enc.Tag("block")
	enc.Len(len(b.Transactions))
	for _, tx := range b.Transactions {
		tx.EncodeTo(enc)
	}
	enc.Bytes32(b.PrevHash)
	enc.Uint32(b.Nonce)
	b.Reward.EncodeTo(enc)
}

// Hash returns the unique hash for the Block.
func (b Block) Hash() Hash {
	return signature.Hash(b)
}

// IsMined recomputes the hash and checks it against the difficulty.
func (b Block) IsMined(difficulty uint) bool {
	return LeadingZeroBits(b.Hash()) >= difficulty
}

// Mine performs the work of finding a nonce for the block whose hash has at
// least difficulty leading zero bits. The search starts at the current nonce
// and walks up by one, so the first solving nonce is always the one found.
// The block value is not changed, the mined copy is returned.
func (b Block) Mine(ctx context.Context, difficulty uint, ev func(v string, args ...any)) (Block, Hash, error) {
	if difficulty > signature.HashSize*8 {
		return Block{}, nil, fmt.Errorf("difficulty %d is larger than the hash size", difficulty)
	}

	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	ev("database: Mine: MINING: started: difficulty[%d]: txs[%d]", difficulty, len(b.Transactions))
	defer ev("database: Mine: MINING: completed")

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: Mine: MINING: attempts[%d]", attempts)
		}

		// Did we get cancelled trying to solve the problem.
		if err := ctx.Err(); err != nil {
			ev("database: Mine: MINING: CANCELLED")
			return Block{}, nil, err
		}

		hash := b.Hash()
		if LeadingZeroBits(hash) >= difficulty {
			ev("database: Mine: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: attempts[%d]", b.PrevHash, hash, attempts)
			return b, hash, nil
		}

		if b.Nonce == math.MaxUint32 {
			return Block{}, nil, ErrNonceExhausted
		}
		b.Nonce++
	}
}

// =============================================================================

// LeadingZeroBits counts the zero bits at the front of the hash. A zero byte
// counts 8 and the first nonzero byte ends the scan.
func LeadingZeroBits(hash []byte) uint {
	var count uint
	for _, b := range hash {
		n := uint(bits.LeadingZeros8(b))
		count += n

		if n != 8 {
			break
		}
	}

	return count
}
