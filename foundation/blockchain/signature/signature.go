// Package signature provides helper functions for handling the blockchain
// hashing and signature needs.
package signature

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Sizes of the values handled by this package.
const (
	PublicKeySize = ed25519.PublicKeySize
	SignatureSize = ed25519.SignatureSize
	HashSize      = sha256.Size
)

// ErrMalformed is returned when a key or signature does not have the
// length required by the signature scheme.
var ErrMalformed = errors.New("malformed key or signature")

// =============================================================================

// Hash returns the sha256 of the canonical encoding of the value.
func Hash(value Encodable) []byte {
	hash := sha256.Sum256(Encode(value))
	return hash[:]
}

// Sign uses the specified private key to sign the canonical encoding of
// the value.
func Sign(value Encodable, privateKey ed25519.PrivateKey) ([]byte, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("private key length %d: %w", len(privateKey), ErrMalformed)
	}

	return ed25519.Sign(privateKey, Encode(value)), nil
}

// Verify checks the signature against the public key for the canonical
// encoding of the value. Keys and signatures of the wrong length are
// reported as ErrMalformed.
func Verify(value Encodable, publicKey []byte, sig []byte) (bool, error) {
	if len(publicKey) != PublicKeySize {
		return false, fmt.Errorf("public key length %d: %w", len(publicKey), ErrMalformed)
	}

	if len(sig) != SignatureSize {
		return false, fmt.Errorf("signature length %d: %w", len(sig), ErrMalformed)
	}

	return ed25519.Verify(ed25519.PublicKey(publicKey), Encode(value), sig), nil
}

// =============================================================================

// GenerateKey creates a new key pair from the system random source.
func GenerateKey() (ed25519.PrivateKey, error) {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	return privateKey, nil
}

// HexToKey rebuilds a private key from the hex encoded seed.
func HexToKey(seedHex string) (ed25519.PrivateKey, error) {
	seed, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(seedHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("decoding seed: %w", err)
	}

	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("seed length %d: %w", len(seed), ErrMalformed)
	}

	return ed25519.NewKeyFromSeed(seed), nil
}

// LoadKey reads a hex encoded seed from the file and rebuilds the key.
func LoadKey(path string) (ed25519.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return HexToKey(string(data))
}

// SaveKey writes the seed of the private key hex encoded to the file.
func SaveKey(path string, privateKey ed25519.PrivateKey) error {
	seed := hex.EncodeToString(privateKey.Seed())
	return os.WriteFile(path, []byte(seed), 0600)
}
