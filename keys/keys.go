// Package keys loads and generates the secp256k1 keys registry identities
// sign with.
package keys

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/veriluxe/certificate-registry/interfaces"
)

var ErrInvalidKey = errors.New("invalid private key")

// ParsePrivateKey parses a 32-byte private key given as 64 hex characters,
// with or without a 0x prefix.
func ParsePrivateKey(raw string) (*ecdsa.PrivateKey, error) {
	clean := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(raw), "0x"), "0X")
	if len(clean) != 64 {
		return nil, fmt.Errorf("%w: expected 64 hex characters, got %d", ErrInvalidKey, len(clean))
	}

	key, err := crypto.HexToECDSA(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return key, nil
}

// LoadPrivateKey resolves source to a key. source is either a hex key or the
// path of a file holding a hex key or an encrypted keystore JSON, in which
// case password decrypts it.
func LoadPrivateKey(source, password string) (*ecdsa.PrivateKey, error) {
	if key, err := ParsePrivateKey(source); err == nil {
		return key, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: not a hex key and not a readable file: %v", ErrInvalidKey, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		decrypted, err := keystore.DecryptKey(trimmed, password)
		if err != nil {
			return nil, fmt.Errorf("%w: could not decrypt keystore %s: %v", ErrInvalidKey, source, err)
		}
		return decrypted.PrivateKey, nil
	}

	return ParsePrivateKey(string(trimmed))
}

// GenerateKey creates a fresh random key.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	return crypto.GenerateKey()
}

// Identity returns the registry identity of key.
func Identity(key *ecdsa.PrivateKey) interfaces.Identity {
	return interfaces.Identity(crypto.PubkeyToAddress(key.PublicKey))
}

// HexKey encodes key as 64 hex characters without prefix.
func HexKey(key *ecdsa.PrivateKey) string {
	return hex.EncodeToString(crypto.FromECDSA(key))
}

// EncryptKey encodes key as keystore JSON protected by password. scryptN and
// scryptP select the KDF cost, normally keystore.StandardScryptN and
// keystore.StandardScryptP.
func EncryptKey(key *ecdsa.PrivateKey, password string, scryptN, scryptP int) ([]byte, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("could not generate key id: %w", err)
	}

	return keystore.EncryptKey(&keystore.Key{
		Id:         id,
		Address:    crypto.PubkeyToAddress(key.PublicKey),
		PrivateKey: key,
	}, password, scryptN, scryptP)
}
