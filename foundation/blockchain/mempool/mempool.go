// Package mempool maintains the mempool for the blockchain.
package mempool

import (
	"sort"
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/google/uuid"
)

// entry keeps the arrival order of a pending transaction.
type entry struct {
	seq uint64
	tx  database.SignedTx
}

// Mempool represents a cache of pending transactions organized by
// transaction id. There is no limit on the number of transactions it holds
// and transactions are handed out in the order they arrived.
type Mempool struct {
	mu   sync.RWMutex
	pool map[uuid.UUID]entry
	seq  uint64
}

// New constructs a new mempool.
func New() *Mempool {
	return &Mempool{
		pool: make(map[uuid.UUID]entry),
	}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert adds a transaction to the mempool. A transaction with an id that
// is already pending is ignored so it keeps its place in line. The number
// of pending transactions is returned.
func (mp *Mempool) Upsert(tx database.SignedTx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if _, exists := mp.pool[tx.ID]; !exists {
		mp.seq++
		mp.pool[tx.ID] = entry{seq: mp.seq, tx: tx}
	}

	return len(mp.pool)
}

// Delete removes a transaction from the mempool.
func (mp *Mempool) Delete(id uuid.UUID) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	delete(mp.pool, id)
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[uuid.UUID]entry)
}

// Copy returns a list of the current transactions in arrival order.
func (mp *Mempool) Copy() []database.SignedTx {
	return mp.Pick(-1)
}

// Pick returns the oldest transactions in arrival order. The caller
// specifies how many transactions they want. Pass -1 for all of them.
func (mp *Mempool) Pick(howMany int) []database.SignedTx {
	mp.mu.RLock()
	entries := make([]entry, 0, len(mp.pool))
	for _, e := range mp.pool {
		entries = append(entries, e)
	}
	mp.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})

	if howMany < 0 || howMany > len(entries) {
		howMany = len(entries)
	}

	trans := make([]database.SignedTx, howMany)
	for i := range trans {
		trans[i] = entries[i].tx
	}

	return trans
}
