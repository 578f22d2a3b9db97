package database

import (
	"bytes"
	"crypto/ed25519"
	"errors"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// PublicKey is the 32 byte ed25519 key that identifies an account. On the
// wire it is 0x prefixed hex.
type PublicKey []byte

// PublicKeyFromPrivate returns the public half of the key pair.
func PublicKeyFromPrivate(privateKey ed25519.PrivateKey) PublicKey {
	return PublicKey(privateKey.Public().(ed25519.PublicKey))
}

// AccountID returns the account id for this key.
func (pk PublicKey) AccountID() AccountID {
	return AccountID(hexutil.Encode(pk))
}

// Equal reports whether the two keys are the same bytes.
func (pk PublicKey) Equal(other PublicKey) bool {
	return bytes.Equal(pk, other)
}

// String implements the fmt.Stringer interface for logging.
func (pk PublicKey) String() string {
	return hexutil.Encode(pk)
}

// MarshalText implements the encoding.TextMarshaler interface.
func (pk PublicKey) MarshalText() ([]byte, error) {
	return hexutil.Bytes(pk).MarshalText()
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (pk *PublicKey) UnmarshalText(input []byte) error {
	return (*hexutil.Bytes)(pk).UnmarshalText(input)
}

// =============================================================================

// Signature is the 64 byte ed25519 signature of a transaction.
type Signature []byte

// String implements the fmt.Stringer interface for logging.
func (s Signature) String() string {
	return hexutil.Encode(s)
}

// MarshalText implements the encoding.TextMarshaler interface.
func (s Signature) MarshalText() ([]byte, error) {
	return hexutil.Bytes(s).MarshalText()
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (s *Signature) UnmarshalText(input []byte) error {
	return (*hexutil.Bytes)(s).UnmarshalText(input)
}

// =============================================================================

// Hash is the sha256 of a canonical encoding, or the genesis marker.
type Hash []byte

// GenesisHash is the previous hash recorded in the genesis block.
var GenesisHash = Hash("GENESIS")

// Equal reports whether the two hashes are the same bytes.
func (h Hash) Equal(other Hash) bool {
	return bytes.Equal(h, other)
}

// String implements the fmt.Stringer interface for logging.
func (h Hash) String() string {
	return hexutil.Encode(h)
}

// MarshalText implements the encoding.TextMarshaler interface.
func (h Hash) MarshalText() ([]byte, error) {
	return hexutil.Bytes(h).MarshalText()
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (h *Hash) UnmarshalText(input []byte) error {
	return (*hexutil.Bytes)(h).UnmarshalText(input)
}

// =============================================================================

// AccountID represents an account id that is used to sign transactions and is
// associated with transactions on the blockchain. It is the hex encoded
// public key of the account.
type AccountID string

// ToAccountID converts a hex-encoded string to an account and validates the
// hex-encoded string is formatted correctly.
func ToAccountID(hex string) (AccountID, error) {
	a := AccountID(hex)
	if !a.IsAccountID() {
		return "", errors.New("invalid account format")
	}

	return a, nil
}

// IsAccountID verifies whether the underlying data represents a valid
// hex-encoded account.
func (a AccountID) IsAccountID() bool {
	if has0xPrefix(a) {
		a = a[2:]
	}

	return len(a) == 2*signature.PublicKeySize && isHex(a)
}

// PublicKey decodes the account id back into the public key.
func (a AccountID) PublicKey() (PublicKey, error) {
	if !a.IsAccountID() {
		return nil, ErrMalformedKeyOrSignature
	}

	if !has0xPrefix(a) {
		a = "0x" + a
	}

	b, err := hexutil.Decode(string(a))
	if err != nil {
		return nil, err
	}

	return PublicKey(b), nil
}

// =============================================================================

// has0xPrefix validates the account starts with a 0x.
func has0xPrefix(a AccountID) bool {
	return len(a) >= 2 && a[0] == '0' && (a[1] == 'x' || a[1] == 'X')
}

// isHex validates whether each byte is valid hexadecimal string.
func isHex(a AccountID) bool {
	if len(a)%2 != 0 {
		return false
	}

	for _, c := range []byte(a) {
		if !isHexCharacter(c) {
			return false
		}
	}

	return true
}

// isHexCharacter returns bool of c being a valid hexadecimal.
func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
