// Package network moves blocks and transactions between the node and the
// peers it knows about over HTTP.
package network

import (
	"crypto/ed25519"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// Identity is who this node is on the network. It is built once at startup
// and handed to whatever needs it.
type Identity struct {
	Key     database.PublicKey `json:"key"`
	Account database.AccountID `json:"account"`
	Host    string             `json:"host"`
}

// NewIdentity constructs the identity for the node that owns the key.
func NewIdentity(privateKey ed25519.PrivateKey, host string) Identity {
	key := database.PublicKeyFromPrivate(privateKey)

	return Identity{
		Key:     key,
		Account: key.AccountID(),
		Host:    host,
	}
}
