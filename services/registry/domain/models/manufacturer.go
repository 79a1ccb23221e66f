package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/ghuser/trueauth/pkg/identity"
)

// Manufacturer is a registered issuer of product certificates.
type Manufacturer struct {
	Address      identity.Address
	Name         ManufacturerName
	RegisteredAt time.Time
}

// NewManufacturer constructs a Manufacturer registered at the current time.
func NewManufacturer(addr identity.Address, name ManufacturerName) *Manufacturer {
	return &Manufacturer{
		Address:      addr,
		Name:         name,
		RegisteredAt: time.Now().UTC(),
	}
}

// ManufacturerName is a value object for a manufacturer's display name.
// Encapsulates validation rules: 2 <= len(name) <= 32.
type ManufacturerName string

const (
	minManufacturerNameLength = 2
	maxManufacturerNameLength = 32
)

// NewManufacturerName constructs a valid ManufacturerName or returns an error
// if constraints are violated.
func NewManufacturerName(s string) (ManufacturerName, error) {
	if len(s) < minManufacturerNameLength {
		return "", fmt.Errorf("manufacturer name must be at least %d characters", minManufacturerNameLength)
	}
	if len(s) > maxManufacturerNameLength {
		return "", fmt.Errorf("manufacturer name must not exceed %d characters", maxManufacturerNameLength)
	}
	return ManufacturerName(s), nil
}

// String returns the underlying string value.
func (n ManufacturerName) String() string {
	return string(n)
}

// Key returns the name's uniqueness key. Names are unique across the
// registry case-insensitively; the stored name keeps its original casing.
func (n ManufacturerName) Key() string {
	return strings.ToLower(string(n))
}
