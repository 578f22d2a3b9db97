package state

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/peer"
)

// QueryBalance returns the replayed balance for the specified account.
func (s *State) QueryBalance(key database.PublicKey) float64 {
	return s.db.BalanceOf(key)
}

// QueryBalances returns a copy of every account balance on the chain.
func (s *State) QueryBalances() map[database.AccountID]float64 {
	return s.db.Balances()
}

// QueryBlocks returns the blocks in the inclusive range by chain index.
// A negative to means through the latest block.
func (s *State) QueryBlocks(from int, to int) []database.Block {
	if to < 0 {
		to = s.db.Length() - 1
	}

	return s.db.Blocks(from, to)
}

// QueryMempool returns a copy of the mempool in arrival order.
func (s *State) QueryMempool() []database.SignedTx {
	return s.mempool.Copy()
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryLatest returns the latest block and its chain index.
func (s *State) QueryLatest() (database.Block, int) {
	return s.db.LatestBlock(), s.db.Length() - 1
}

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveDifficulty returns the difficulty the chain enforces.
func (s *State) RetrieveDifficulty() uint {
	return s.db.Difficulty()
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// AddKnownPeer provides the ability to add a new peer to
// the known peer list.
func (s *State) AddKnownPeer(peer peer.Peer) bool {
	return s.knownPeers.Add(peer)
}
