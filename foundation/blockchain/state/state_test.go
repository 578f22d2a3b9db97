package state_test

import (
	"context"
	"crypto/ed25519"
	"errors"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	seedG = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	seedA = "8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0"
	seedB = "9f332e3700d8fc2446eaf6d15034cf96e0c2745e40353deef032a5dbf1dfed93"
	seedM = "aed31b6b5ea3ee1ec5ee4c4b7c6e8bd1b3a3dd2ec1b4d1a0a74e3b0b2b6b8a44"
)

func ifErrFailNow(t *testing.T, err error) {
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
}

func key(t *testing.T, seed string) ed25519.PrivateKey {
	pk, err := signature.HexToKey(seed)
	ifErrFailNow(t, err)

	return pk
}

func pub(pk ed25519.PrivateKey) database.PublicKey {
	return database.PublicKeyFromPrivate(pk)
}

func signTx(t *testing.T, amount float64, from ed25519.PrivateKey, to ed25519.PrivateKey) database.SignedTx {
	signedTx, err := database.NewTx(amount, pub(to), pub(from)).Sign(from)
	ifErrFailNow(t, err)

	return signedTx
}

// fakeNetwork records what the state asks to be broadcast.
type fakeNetwork struct {
	blocks []database.Block
	txs    []database.SignedTx
}

func (n *fakeNetwork) SendBlockToPeers(block database.Block, hash database.Hash) error {
	n.blocks = append(n.blocks, block)
	return nil
}

func (n *fakeNetwork) SendTxToPeers(tx database.SignedTx) error {
	n.txs = append(n.txs, tx)
	return nil
}

func newState(t *testing.T, authority ed25519.PrivateKey, beneficiary ed25519.PrivateKey, transPerBlock uint16) *state.State {
	gen := genesis.Genesis{
		Authority:     string(pub(authority).AccountID()),
		TransPerBlock: transPerBlock,
		Difficulty:    4,
		MiningReward:  10,
	}

	st, err := state.New(state.Config{
		BeneficiaryKey: pub(beneficiary),
		Host:           "localhost:9080",
		Genesis:        gen,
		Network:        &fakeNetwork{},
	})
	ifErrFailNow(t, err)

	return st
}

// =============================================================================

func Test_MineNewBlock(t *testing.T) {
	g, a, b, m := key(t, seedG), key(t, seedA), key(t, seedB), key(t, seedM)

	t.Log("Given the need to mine pending transactions into a block.")
	{
		st := newState(t, g, m, 2)

		t.Logf("\tTest 0:\tWhen the mempool holds fewer transactions than the batch size.")
		{
			ifErrFailNow(t, st.SubmitNodeTransaction(signTx(t, 3, g, a)))

			_, _, err := st.MineNewBlock(context.Background())
			if !errors.Is(err, state.ErrNotEnoughTransactions) {
				t.Fatalf("\t%s\tTest 0:\tShould not mine a short block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould not mine a short block.", success)
		}

		t.Logf("\tTest 1:\tWhen the mempool holds a full batch.")
		{
			ifErrFailNow(t, st.SubmitNodeTransaction(signTx(t, 2, g, b)))

			block, hash, err := st.MineNewBlock(context.Background())
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to mine a block: %s", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to mine a block.", success)

			if !hash.Equal(block.Hash()) || database.LeadingZeroBits(hash) < st.RetrieveDifficulty() {
				t.Fatalf("\t%s\tTest 1:\tShould return the solved hash of the block.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould return the solved hash of the block.", success)

			latest, number := st.QueryLatest()
			if number != 1 || !latest.Hash().Equal(hash) {
				t.Fatalf("\t%s\tTest 1:\tShould have appended the block: number[%d]", failed, number)
			}
			t.Logf("\t%s\tTest 1:\tShould have appended the block.", success)

			if st.QueryMempoolLength() != 0 {
				t.Fatalf("\t%s\tTest 1:\tShould have emptied the mempool: %d", failed, st.QueryMempoolLength())
			}
			t.Logf("\t%s\tTest 1:\tShould have emptied the mempool.", success)

			exp := map[string]float64{"G": 5, "A": 3, "B": 2, "M": 10}
			got := map[string]float64{
				"G": st.QueryBalance(pub(g)),
				"A": st.QueryBalance(pub(a)),
				"B": st.QueryBalance(pub(b)),
				"M": st.QueryBalance(pub(m)),
			}
			for name, bal := range exp {
				if got[name] != bal {
					t.Fatalf("\t%s\tTest 1:\tShould have balance %v for %s, got %v.", failed, bal, name, got[name])
				}
			}
			t.Logf("\t%s\tTest 1:\tShould have the expected balances.", success)
		}
	}
}

func Test_DropUnfunded(t *testing.T) {
	g, a, b, m := key(t, seedG), key(t, seedA), key(t, seedB), key(t, seedM)

	t.Log("Given the need to drop pending transactions that can't be funded.")
	{
		st := newState(t, g, m, 1)

		unfunded := signTx(t, 5, a, b)
		funded := signTx(t, 1, g, a)

		ifErrFailNow(t, st.SubmitNodeTransaction(unfunded))
		ifErrFailNow(t, st.SubmitNodeTransaction(funded))

		block, _, err := st.MineNewBlock(context.Background())
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %s", failed, err)
		}

		if len(block.Transactions) != 1 || block.Transactions[0].ID != funded.ID {
			t.Fatalf("\t%s\tShould only mine the funded transaction.", failed)
		}
		t.Logf("\t%s\tShould only mine the funded transaction.", success)

		if st.QueryMempoolLength() != 0 {
			t.Fatalf("\t%s\tShould have dropped the unfunded transaction from the mempool.", failed)
		}
		t.Logf("\t%s\tShould have dropped the unfunded transaction from the mempool.", success)
	}
}

func Test_SubmitRejects(t *testing.T) {
	g, a, m := key(t, seedG), key(t, seedA), key(t, seedM)

	t.Log("Given the need to reject bad transactions at submission.")
	{
		st := newState(t, g, m, 1)

		forged := signTx(t, 1, g, a)
		forged.Amount = 100

		if err := st.SubmitWalletTransaction(forged); !errors.Is(err, database.ErrInvalidSignature) {
			t.Fatalf("\t%s\tShould reject a forged transaction: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a forged transaction.", success)

		if err := st.SubmitWalletTransaction(signTx(t, -1, g, a)); !errors.Is(err, database.ErrInvalidAmount) {
			t.Fatalf("\t%s\tShould reject a negative amount: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a negative amount.", success)

		if st.QueryMempoolLength() != 0 {
			t.Fatalf("\t%s\tShould leave the mempool empty.", failed)
		}
		t.Logf("\t%s\tShould leave the mempool empty.", success)
	}
}

func Test_ProcessProposedBlock(t *testing.T) {
	g, a, b, m := key(t, seedG), key(t, seedA), key(t, seedB), key(t, seedM)

	t.Log("Given the need to accept blocks mined by other nodes.")
	{
		node := newState(t, g, b, 1)
		peer := newState(t, g, m, 1)

		tx := signTx(t, 4, g, a)
		ifErrFailNow(t, node.SubmitNodeTransaction(tx))
		ifErrFailNow(t, peer.SubmitNodeTransaction(tx))

		block, _, err := peer.MineNewBlock(context.Background())
		ifErrFailNow(t, err)

		t.Logf("\tTest 0:\tWhen the block extends the local tip.")
		{
			if err := node.ProcessProposedBlock(block); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the block: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould accept the block.", success)

			if node.QueryMempoolLength() != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould remove the mined transaction from the mempool.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould remove the mined transaction from the mempool.", success)

			if node.QueryBalance(pub(m)) != 10 || node.QueryBalance(pub(a)) != 4 {
				t.Fatalf("\t%s\tTest 0:\tShould credit the peer miner and receiver.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould credit the peer miner and receiver.", success)
		}

		t.Logf("\tTest 1:\tWhen the same block is proposed again.")
		{
			err := node.ProcessProposedBlock(block)

			var rejErr *database.RejectError
			if !errors.As(err, &rejErr) || !errors.Is(err, database.ErrChainLinkMismatch) {
				t.Fatalf("\t%s\tTest 1:\tShould reject with a link mismatch: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject with a link mismatch.", success)

			if rejErr.Stage != database.StageProofChecked {
				t.Fatalf("\t%s\tTest 1:\tShould report the proof stage was passed: %s", failed, rejErr.Stage)
			}
			t.Logf("\t%s\tTest 1:\tShould report the proof stage was passed.", success)

			if _, number := node.QueryLatest(); number != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould leave the chain unchanged.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould leave the chain unchanged.", success)
		}
	}
}

func Test_Queries(t *testing.T) {
	g, a, m := key(t, seedG), key(t, seedA), key(t, seedM)

	st := newState(t, g, m, 1)
	ifErrFailNow(t, st.SubmitNodeTransaction(signTx(t, 1, g, a)))

	if len(st.QueryMempool()) != 1 {
		t.Fatalf("\t%s\tShould see the pending transaction.", failed)
	}

	_, _, err := st.MineNewBlock(context.Background())
	ifErrFailNow(t, err)

	if blocks := st.QueryBlocks(0, -1); len(blocks) != 2 {
		t.Fatalf("\t%s\tShould get back every block: %d", failed, len(blocks))
	}

	if blocks := st.QueryBlocks(1, 1); len(blocks) != 1 || len(blocks[0].Transactions) != 1 {
		t.Fatalf("\t%s\tShould get back the requested block.", failed)
	}

	balances := st.QueryBalances()
	if balances[pub(g).AccountID()] != 9 || balances[pub(m).AccountID()] != 10 {
		t.Fatalf("\t%s\tShould get back every balance: %v", failed, balances)
	}

	if st.RetrieveGenesis().TransPerBlock != 1 || st.RetrieveHost() != "localhost:9080" {
		t.Fatalf("\t%s\tShould get back the node configuration.", failed)
	}
	t.Logf("\t%s\tShould be able to query the state.", success)
}
