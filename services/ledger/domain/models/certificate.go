package models

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ghuser/trueauth/pkg/identity"
)

// Certificate is an immutable, manufacturer-authored claim of origin for one
// physical item. Only the field tuple (Name, UniqueID, Serial, Date, Owner,
// MetadataHash) is signed; the metadata list itself travels alongside and is
// bound through its commitment hash.
type Certificate struct {
	Name         string
	UniqueID     string
	Serial       string
	Date         int64 // issuance time, seconds since epoch
	Owner        identity.Address
	MetadataHash [32]byte
	Metadata     []string
}

// Validate checks the certificate's structural constraints: non-empty name,
// unique identifier and serial, a non-zero owner, and a non-empty metadata
// list. The commitment hash is verified separately by the codec — shape
// validation never trusts it.
func (c *Certificate) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("certificate name must not be empty")
	}
	if strings.TrimSpace(c.UniqueID) == "" {
		return fmt.Errorf("certificate unique id must not be empty")
	}
	if strings.TrimSpace(c.Serial) == "" {
		return fmt.Errorf("certificate serial must not be empty")
	}
	if c.Date <= 0 {
		return fmt.Errorf("certificate date must be a positive unix timestamp")
	}
	if c.Owner.IsZero() {
		return fmt.Errorf("certificate owner must not be the zero address")
	}
	if len(c.Metadata) == 0 {
		return fmt.Errorf("certificate metadata must not be empty")
	}
	return nil
}

// ParseMetadataHash decodes a 0x-prefixed 32-byte hex digest.
func ParseMetadataHash(s string) ([32]byte, error) {
	var digest [32]byte
	if len(s) != 66 || !strings.HasPrefix(s, "0x") {
		return digest, fmt.Errorf("metadata hash must be a 0x-prefixed 32-byte hex string")
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return digest, fmt.Errorf("metadata hash is not valid hex: %w", err)
	}
	copy(digest[:], raw)
	return digest, nil
}

// MetadataHashHex returns the commitment hash as a 0x-prefixed hex string.
func (c *Certificate) MetadataHashHex() string {
	return "0x" + hex.EncodeToString(c.MetadataHash[:])
}

// SignedCertificate pairs a certificate with the manufacturer's signature
// over its canonical encoding. This is the unit stored before any claim.
type SignedCertificate struct {
	Certificate Certificate
	Signature   []byte
}

// ParseSignature decodes a 0x-prefixed 65-byte r‖s‖v hex signature. Only the
// encoding is checked here; cryptographic validity is the verifier's job.
func ParseSignature(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") {
		return nil, fmt.Errorf("signature must be 0x-prefixed")
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return nil, fmt.Errorf("signature is not valid hex: %w", err)
	}
	if len(raw) != 65 {
		return nil, fmt.Errorf("signature must be 65 bytes, got %d", len(raw))
	}
	return raw, nil
}
