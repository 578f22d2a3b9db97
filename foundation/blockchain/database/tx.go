package database

import (
	"crypto/ed25519"
	"fmt"
	"math"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/google/uuid"
)

// Tx is the transactional information between two parties.
type Tx struct {
	ID          uuid.UUID `json:"id"`       // Unique id used for equality and de-duplication.
	Amount      float64   `json:"amount"`   // Monetary value received from this transaction.
	SenderKey   PublicKey `json:"sender"`   // Account paying the amount and signing the transaction.
	ReceiverKey PublicKey `json:"receiver"` // Account receiving the benefit of the transaction.
}

// NewTx constructs a new transaction with a fresh random id. Nothing is
// validated here, balances are checked when the transaction is added to
// a block.
func NewTx(amount float64, receiverKey PublicKey, senderKey PublicKey) Tx {
	return Tx{
		ID:          uuid.New(),
		Amount:      amount,
		SenderKey:   senderKey,
		ReceiverKey: receiverKey,
	}
}

// EncodeTo implements the signature.Encodable interface.
func (tx Tx) EncodeTo(enc *signature.Encoder) {
	enc.Tag("tx")
	enc.Bytes32(tx.ID[:])
	enc.Float64(tx.Amount)
	enc.Bytes32(tx.SenderKey)
	enc.Bytes32(tx.ReceiverKey)
}

// Hash returns the hash of the canonical encoding of the transaction.
func (tx Tx) Hash() Hash {
	return signature.Hash(tx)
}

// ValidAmount reports whether the amount can be moved between accounts.
func (tx Tx) ValidAmount() bool {
	return tx.Amount > 0 && !math.IsInf(tx.Amount, 0)
}

// Sign uses the specified private key to sign the transaction. The sender
// key of the transaction is expected to be the public half of the key.
func (tx Tx) Sign(privateKey ed25519.PrivateKey) (SignedTx, error) {
	sig, err := signature.Sign(tx, privateKey)
	if err != nil {
		return SignedTx{}, err
	}

	signedTx := SignedTx{
		Tx:        tx,
		Signature: sig,
	}

	return signedTx, nil
}

// =============================================================================

// SignedTx is a signed version of the transaction. This is how clients like
// a wallet provide transactions for inclusion into the blockchain.
type SignedTx struct {
	Tx
	Signature Signature `json:"signature"`
}

// EncodeTo implements the signature.Encodable interface. The signature is
// part of the block hash domain.
func (tx SignedTx) EncodeTo(enc *signature.Encoder) {
	tx.Tx.EncodeTo(enc)
	enc.Bytes32(tx.Signature)
}

// Verify reports whether the signature was produced by the sender key over
// this transaction. Malformed keys or signatures never verify.
func (tx SignedTx) Verify() bool {
	return tx.Validate() == nil
}

// Validate verifies the transaction has a proper signature from the sender
// key embedded in the transaction.
func (tx SignedTx) Validate() error {
	ok, err := signature.Verify(tx.Tx, tx.SenderKey, tx.Signature)
	if err != nil {
		return err
	}

	if !ok {
		return ErrInvalidSignature
	}

	return nil
}

// String implements the fmt.Stringer interface for logging.
func (tx SignedTx) String() string {
	from := tx.SenderKey.String()
	if len(from) > 10 {
		from = from[:10]
	}

	return fmt.Sprintf("%s:%s", from, tx.ID)
}

// =============================================================================

// validateAmount checks the amount is a positive finite value.
func validateAmount(tx Tx) error {
	if !tx.ValidAmount() {
		return fmt.Errorf("amount %v: %w", tx.Amount, ErrInvalidAmount)
	}

	return nil
}
