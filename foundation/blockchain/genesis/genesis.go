// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date          time.Time `json:"date"`
	Authority     string    `json:"authority"`       // Hex encoded public key of the account paid the genesis reward.
	TransPerBlock uint16    `json:"trans_per_block"` // The number of transactions the miner batches into a block.
	Difficulty    uint16    `json:"difficulty"`      // Leading zero bits required in a block hash.
	MiningReward  float64   `json:"mining_reward"`   // Reward for mining a block.
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the policy values are usable by a node.
func (g Genesis) Validate() error {
	if g.Authority == "" {
		return errors.New("genesis authority is missing")
	}

	if g.Difficulty > 256 {
		return errors.New("genesis difficulty is larger than the hash size")
	}

	if math.IsNaN(g.MiningReward) || math.IsInf(g.MiningReward, 0) || g.MiningReward < 0 {
		return errors.New("genesis mining reward is invalid")
	}

	return nil
}

// OverrideDifficulty replaces the difficulty from the file. A negative value
// keeps the file's difficulty.
func (g *Genesis) OverrideDifficulty(difficulty int) error {
	if difficulty < 0 {
		return nil
	}

	if difficulty > 256 {
		return fmt.Errorf("difficulty %d is larger than the hash size", difficulty)
	}

	g.Difficulty = uint16(difficulty)

	return nil
}

// BatchSize returns the number of transactions a miner waits for before
// mining a block. A zero value in the file means a block per transaction.
func (g Genesis) BatchSize() int {
	if g.TransPerBlock == 0 {
		return 1
	}

	return int(g.TransPerBlock)
}
