package database_test

import (
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	fuzz "github.com/google/gofuzz"
)

func TestSignRandomTx(t *testing.T) {
	g := key(t, seedG)
	sender := database.PublicKeyFromPrivate(g)

	f := fuzz.New().NilChance(0)

	t.Log("Given the need to sign and verify arbitrary transactions.")
	{
		for i := 0; i < 200; i++ {
			var tx database.Tx
			f.Fuzz(&tx.ID)
			f.Fuzz(&tx.Amount)
			f.Fuzz(&tx.ReceiverKey)
			tx.SenderKey = sender

			signedTx, err := tx.Sign(g)
			if err != nil {
				t.Fatalf("\t%s\tShould be able to sign transaction %d: %s", failed, i, err)
			}

			if !signedTx.Verify() {
				t.Fatalf("\t%s\tShould verify transaction %d: %+v", failed, i, tx)
			}

			signedTx.Amount++
			if signedTx.Amount != tx.Amount && signedTx.Verify() {
				t.Fatalf("\t%s\tShould not verify mutated transaction %d.", failed, i)
			}
		}
		t.Logf("\t%s\tShould sign and verify every generated transaction.", success)
	}
}
