package interfaces

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Identity is a 20-byte Ethereum address identifying an admin or an owner.
type Identity [20]byte

// NewIdentityFromBytes creates an identity from a 20-byte slice.
func NewIdentityFromBytes(addr []byte) (Identity, error) {
	if len(addr) != 20 {
		return Identity{}, errors.New("invalid identity length: must be 20 bytes")
	}

	var res Identity
	copy(res[:], addr)
	return res, nil
}

// NewIdentityFromHex parses a hex address. The 0x prefix is optional and the
// checksum casing is not enforced.
func NewIdentityFromHex(addr string) (Identity, error) {
	clean := strings.TrimSpace(addr)
	if !strings.HasPrefix(clean, "0x") && !strings.HasPrefix(clean, "0X") {
		clean = "0x" + clean
	}
	if !common.IsHexAddress(clean) {
		return Identity{}, fmt.Errorf("invalid identity %q: expected 40 hex characters", addr)
	}
	return Identity(common.HexToAddress(clean)), nil
}

// String returns the EIP-55 checksummed hex form.
func (id Identity) String() string {
	return common.Address(id).Hex()
}

func (id Identity) Bytes() []byte {
	return id[:]
}

func (id Identity) IsZero() bool {
	return id == Identity{}
}

func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *Identity) UnmarshalText(text []byte) error {
	parsed, err := NewIdentityFromHex(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// CertificateID is the caller-chosen key of a certificate. Ids are compared by
// exact string equality.
type CertificateID string

func (id CertificateID) String() string {
	return string(id)
}

// Certificate is the registry record for one physical item.
type Certificate struct {
	// Owner is the identity currently holding the item.
	Owner Identity `json:"owner"`

	// MetadataHash is an opaque digest of the off-chain item description.
	// It is never normalized; verification compares it byte for byte.
	MetadataHash string `json:"metadata_hash"`

	// IsValid turns false on revocation and never turns true again.
	IsValid bool `json:"is_valid"`
}
