// Package identity carries the resolved wallet identity through the system.
//
// The wallet-connect collaborator resolves a session to a wallet address and
// chain id; this package normalizes the address at the boundary and makes it
// available to handlers per call. The ledger itself never initiates sessions.
package identity

import (
	"encoding/hex"
	"errors"
	"strings"
)

// Address is a 20-byte wallet identity. The zero value is the zero address
// and is never a valid caller.
type Address [20]byte

// ErrInvalidAddress indicates a string that is not a 0x-prefixed 20-byte
// hex address.
var ErrInvalidAddress = errors.New("invalid wallet address")

// ParseAddress parses a 0x-prefixed 40-digit hex string. Casing is not
// significant; addresses are normalized to lowercase everywhere.
func ParseAddress(s string) (Address, error) {
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return Address{}, ErrInvalidAddress
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return Address{}, ErrInvalidAddress
	}
	var a Address
	copy(a[:], raw)
	return a, nil
}

// Hex returns the lowercase 0x-prefixed representation.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return a.Hex()
}

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText implements encoding.TextMarshaler so addresses serialize as
// hex strings in JSON payloads and event records.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
