package state

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// NetSendBlockToPeers takes the new mined block and sends it to all know peers.
func (s *State) NetSendBlockToPeers(block database.Block, hash database.Hash) error {
	if s.net == nil {
		return nil
	}

	s.evHandler("state: NetSendBlockToPeers: started: blk[%s]", hash)
	defer s.evHandler("state: NetSendBlockToPeers: completed")

	return s.net.SendBlockToPeers(block, hash)
}

// NetSendTxToPeers shares a new transaction with the known peers.
func (s *State) NetSendTxToPeers(tx database.SignedTx) error {
	if s.net == nil {
		return nil
	}

	s.evHandler("state: NetSendTxToPeers: started: tx[%s]", tx)
	defer s.evHandler("state: NetSendTxToPeers: completed")

	return s.net.SendTxToPeers(tx)
}
