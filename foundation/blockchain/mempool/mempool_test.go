package mempool_test

import (
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func sign(amount float64) (database.SignedTx, error) {
	pk, err := signature.HexToKey("fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959")
	if err != nil {
		return database.SignedTx{}, err
	}

	to, err := signature.HexToKey("8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0")
	if err != nil {
		return database.SignedTx{}, err
	}

	tx := database.NewTx(amount, database.PublicKeyFromPrivate(to), database.PublicKeyFromPrivate(pk))
	return tx.Sign(pk)
}

func TestCRUD(t *testing.T) {
	type table struct {
		name    string
		amounts []float64
	}

	tt := []table{
		{
			name:    "basic",
			amounts: []float64{2, 3, 4, 1},
		},
	}

	t.Log("Given the need to validate mempool api.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of transaction.", testID)
			{
				f := func(t *testing.T) {
					mp := mempool.New()

					var txs []database.SignedTx
					for _, amount := range tst.amounts {
						tx, err := sign(amount)
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould be able to sign transaction.", failed, testID)
						}
						t.Logf("\t%s\tTest %d:\tShould be able to sign transaction.", success, testID)

						mp.Upsert(tx)
						txs = append(txs, tx)
						t.Logf("\t%s\tTest %d:\tShould be able to add new transaction: %s", success, testID, tx)
					}

					if n := mp.Upsert(txs[0]); n != len(txs) {
						t.Fatalf("\t%s\tTest %d:\tShould ignore a transaction that is already pending, got %d", failed, testID, n)
					}
					t.Logf("\t%s\tTest %d:\tShould ignore a transaction that is already pending.", success, testID)

					for i, tx := range mp.Copy() {
						if tx.ID != txs[i].ID {
							t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, tx.ID)
							t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, txs[i].ID)
							t.Fatalf("\t%s\tTest %d:\tShould get back the transactions in arrival order.", failed, testID)
						}
						t.Logf("\t%s\tTest %d:\tShould get back the transactions in arrival order: %v", success, testID, tx.Amount)
					}

					best := mp.Pick(2)
					if len(best) != 2 || best[0].ID != txs[0].ID || best[1].ID != txs[1].ID {
						t.Fatalf("\t%s\tTest %d:\tShould pick the two oldest transactions.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould pick the two oldest transactions.", success, testID)

					mp.Delete(mp.Copy()[1].ID)
					l := len(mp.Copy())
					if l != 3 {
						t.Fatalf("\t%s\tTest %d:\tShould be able to remove a transaction.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to remove a transaction.", success, testID)

					mp.Truncate()
					l = len(mp.Copy())
					if l != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould be able to truncate mempool.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to truncate mempool.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
