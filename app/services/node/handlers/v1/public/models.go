package public

import (
	"fmt"

	"github.com/ardanlabs/powledger/business/sys/validate"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
)

// SubmitTx is what a wallet posts to have a transaction mined.
type SubmitTx struct {
	ID        string  `json:"id" validate:"required,uuid4"`
	Amount    float64 `json:"amount" validate:"gt=0"`
	Sender    string  `json:"sender" validate:"required,hexadecimal"`
	Receiver  string  `json:"receiver" validate:"required,hexadecimal"`
	Signature string  `json:"signature" validate:"required,hexadecimal"`
}

// Validate checks the data in the model is considered clean.
func (stx SubmitTx) Validate() error {
	return validate.Check(stx)
}

// toSignedTx converts the request into the transaction the ledger uses.
func (stx SubmitTx) toSignedTx() (database.SignedTx, error) {
	id, err := uuid.Parse(stx.ID)
	if err != nil {
		return database.SignedTx{}, fmt.Errorf("parsing id: %w", err)
	}

	sender, err := database.AccountID(stx.Sender).PublicKey()
	if err != nil {
		return database.SignedTx{}, fmt.Errorf("parsing sender: %w", err)
	}

	receiver, err := database.AccountID(stx.Receiver).PublicKey()
	if err != nil {
		return database.SignedTx{}, fmt.Errorf("parsing receiver: %w", err)
	}

	sig, err := hexutil.Decode(stx.Signature)
	if err != nil {
		return database.SignedTx{}, fmt.Errorf("parsing signature: %w", err)
	}

	signedTx := database.SignedTx{
		Tx: database.Tx{
			ID:          id,
			Amount:      stx.Amount,
			SenderKey:   sender,
			ReceiverKey: receiver,
		},
		Signature: sig,
	}

	return signedTx, nil
}

// =============================================================================

type balance struct {
	Account database.AccountID `json:"account"`
	Name    string             `json:"name"`
	Balance float64            `json:"balance"`
}

type balances struct {
	LatestBlock database.Hash `json:"latest_block"`
	Uncommitted int           `json:"uncommitted"`
	Balances    []balance     `json:"balances"`
}

type tx struct {
	ID           uuid.UUID          `json:"id"`
	Hash         database.Hash      `json:"hash"`
	SenderID     database.AccountID `json:"sender"`
	SenderName   string             `json:"sender_name"`
	ReceiverID   database.AccountID `json:"receiver"`
	ReceiverName string             `json:"receiver_name"`
	Amount       float64            `json:"amount"`
	Signature    database.Signature `json:"signature"`
}

type block struct {
	Number       int                `json:"number"`
	Hash         database.Hash      `json:"hash"`
	PrevHash     database.Hash      `json:"prev_hash"`
	Nonce        uint32             `json:"nonce"`
	PayeeID      database.AccountID `json:"payee"`
	PayeeName    string             `json:"payee_name"`
	Reward       float64            `json:"reward"`
	Transactions []tx               `json:"txs"`
}
