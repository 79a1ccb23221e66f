package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/ghuser/trueauth/pkg/identity"
)

// User is a registered end user who may claim and transfer items.
type User struct {
	Address      identity.Address
	Username     Username
	RegisteredAt time.Time
}

// NewUser constructs a User registered at the current time.
func NewUser(addr identity.Address, username Username) *User {
	return &User{
		Address:      addr,
		Username:     username,
		RegisteredAt: time.Now().UTC(),
	}
}

// Username is a value object for a user's display name.
// Encapsulates validation rules: 3 <= len(username) <= 32.
type Username string

const (
	minUsernameLength = 3
	maxUsernameLength = 32
)

// NewUsername constructs a valid Username or returns an error if constraints
// are violated.
func NewUsername(s string) (Username, error) {
	if len(s) < minUsernameLength {
		return "", fmt.Errorf("username must be at least %d characters", minUsernameLength)
	}
	if len(s) > maxUsernameLength {
		return "", fmt.Errorf("username must not exceed %d characters", maxUsernameLength)
	}
	return Username(s), nil
}

// String returns the underlying string value.
func (u Username) String() string {
	return string(u)
}

// Key returns the username's case-insensitive uniqueness key.
func (u Username) Key() string {
	return strings.ToLower(string(u))
}
