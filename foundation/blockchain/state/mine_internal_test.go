package state

import (
	"context"
	"errors"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

func TestStaleTip(t *testing.T) {
	g, err := signature.HexToKey("fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959")
	if err != nil {
		t.Fatal(err)
	}
	a, err := signature.HexToKey("8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0")
	if err != nil {
		t.Fatal(err)
	}
	gKey := database.PublicKeyFromPrivate(g)
	aKey := database.PublicKeyFromPrivate(a)

	gen := genesis.Genesis{
		Authority:     string(gKey.AccountID()),
		TransPerBlock: 1,
		Difficulty:    2,
		MiningReward:  10,
	}

	st, err := New(Config{BeneficiaryKey: aKey, Genesis: gen})
	if err != nil {
		t.Fatal(err)
	}

	tx1, _ := database.NewTx(1, aKey, gKey).Sign(g)
	tx2, _ := database.NewTx(2, aKey, gKey).Sign(g)
	st.mempool.Upsert(tx1)

	// Collect against the genesis tip, then let another block land first.
	trans, tip := st.collectTransactions()

	other, err := database.NewBlock([]database.SignedTx{tx2}, st.db.HashOfLast(), gKey, 10)
	if err != nil {
		t.Fatal(err)
	}
	other, _, err = other.Mine(context.Background(), st.db.Difficulty(), st.evHandler)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.ProcessProposedBlock(other); err != nil {
		t.Fatalf("Should accept the other block: %s", err)
	}

	block, err := database.NewBlock(trans, tip, aKey, 10)
	if err != nil {
		t.Fatal(err)
	}
	block, _, err = block.Mine(context.Background(), st.db.Difficulty(), st.evHandler)
	if err != nil {
		t.Fatal(err)
	}

	if err := st.updateLocalState(block, tip); !errors.Is(err, ErrStaleTip) {
		t.Fatalf("Should reject the block mined on the old tip: %v", err)
	}

	if st.db.Length() != 2 || st.mempool.Count() != 1 {
		t.Fatalf("Should leave the chain and the mempool as they were: len[%d] mempool[%d]", st.db.Length(), st.mempool.Count())
	}

	// Mining again picks up the new tip.
	if _, _, err := st.MineNewBlock(context.Background()); err != nil {
		t.Fatalf("Should be able to mine on the new tip: %s", err)
	}

	if st.db.Length() != 3 {
		t.Fatalf("Should have appended the re-mined block.")
	}
}

func TestMineCancelled(t *testing.T) {
	g, err := signature.HexToKey("fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959")
	if err != nil {
		t.Fatal(err)
	}
	gKey := database.PublicKeyFromPrivate(g)

	gen := genesis.Genesis{
		Authority:     string(gKey.AccountID()),
		TransPerBlock: 1,
		Difficulty:    32,
		MiningReward:  10,
	}

	st, err := New(Config{BeneficiaryKey: gKey, Genesis: gen})
	if err != nil {
		t.Fatal(err)
	}

	tx, _ := database.NewTx(1, gKey, gKey).Sign(g)
	if err := st.SubmitNodeTransaction(tx); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := st.MineNewBlock(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Should stop mining when cancelled: %v", err)
	}

	if st.db.Length() != 1 || st.mempool.Count() != 1 {
		t.Fatalf("Should leave the chain and the mempool as they were.")
	}
}
