package database_test

import (
	"crypto/ed25519"
	"errors"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// Seeds for the accounts used across the tests.
const (
	seedG = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	seedA = "8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0"
	seedB = "9f332e3700d8fc2446eaf6d15034cf96e0c2745e40353deef032a5dbf1dfed93"
	seedM = "aed31b6b5ea3ee1ec5ee4c4b7c6e8bd1b3a3dd2ec1b4d1a0a74e3b0b2b6b8a44"
)

func key(t *testing.T, seed string) ed25519.PrivateKey {
	pk, err := signature.HexToKey(seed)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to build a private key: %s", failed, err)
	}

	return pk
}

func signTx(t *testing.T, amount float64, from ed25519.PrivateKey, to ed25519.PrivateKey) database.SignedTx {
	tx := database.NewTx(amount, database.PublicKeyFromPrivate(to), database.PublicKeyFromPrivate(from))

	signedTx, err := tx.Sign(from)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to sign transaction: %s", failed, err)
	}

	return signedTx
}

// =============================================================================

func TestSignVerify(t *testing.T) {
	g := key(t, seedG)
	a := key(t, seedA)
	b := key(t, seedB)

	t.Log("Given the need to sign and verify transactions.")
	{
		t.Logf("\tTest 0:\tWhen handling a signed transaction.")
		{
			tx := signTx(t, 10, g, a)
			if !tx.Verify() {
				t.Fatalf("\t%s\tTest 0:\tShould verify a signed transaction.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould verify a signed transaction.", success)

			mutated := tx
			mutated.Amount = 11
			if mutated.Verify() {
				t.Fatalf("\t%s\tTest 0:\tShould not verify after the amount changed.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not verify after the amount changed.", success)

			mutated = tx
			mutated.ReceiverKey = database.PublicKeyFromPrivate(b)
			if err := mutated.Validate(); !errors.Is(err, database.ErrInvalidSignature) {
				t.Fatalf("\t%s\tTest 0:\tShould get invalid signature after the receiver changed: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get invalid signature after the receiver changed.", success)

			forged := tx
			forged.Signature = append(database.Signature(nil), tx.Signature...)
			forged.Signature[0] ^= 0xff
			if forged.Verify() {
				t.Fatalf("\t%s\tTest 0:\tShould not verify a forged signature.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not verify a forged signature.", success)
		}

		t.Logf("\tTest 1:\tWhen handling malformed keys and signatures.")
		{
			tx := signTx(t, 10, g, a)

			short := tx
			short.Signature = tx.Signature[:10]
			if err := short.Validate(); !errors.Is(err, database.ErrMalformedKeyOrSignature) {
				t.Fatalf("\t%s\tTest 1:\tShould get malformed for a short signature: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get malformed for a short signature.", success)

			noKey := tx
			noKey.SenderKey = nil
			if noKey.Verify() {
				t.Fatalf("\t%s\tTest 1:\tShould not verify without a sender key.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould not verify without a sender key.", success)
		}
	}
}

func TestTxIdentity(t *testing.T) {
	g := key(t, seedG)
	a := key(t, seedA)

	tx1 := signTx(t, 10, g, a)
	tx2 := signTx(t, 10, g, a)

	if tx1.ID == tx2.ID {
		t.Fatalf("Should get back unique ids for each transaction.")
	}

	if tx1.Hash().Equal(tx2.Hash()) {
		t.Fatalf("Should get back different hashes for different ids.")
	}
}

func TestAccountID(t *testing.T) {
	a := key(t, seedA)
	pub := database.PublicKeyFromPrivate(a)

	accountID, err := database.ToAccountID(string(pub.AccountID()))
	if err != nil {
		t.Fatalf("Should be able to parse the account id: %s", err)
	}

	got, err := accountID.PublicKey()
	if err != nil {
		t.Fatalf("Should be able to decode the public key: %s", err)
	}

	if !got.Equal(pub) {
		t.Fatalf("Should get back the same public key.")
	}

	if _, err := database.ToAccountID("0x1234"); err == nil {
		t.Fatalf("Should not accept a short account id.")
	}
}
