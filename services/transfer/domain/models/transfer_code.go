package models

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ghuser/trueauth/pkg/identity"
)

// CodeState is the lifecycle state of one transfer code.
// Issued is the only active state; Redeemed and Revoked are terminal.
type CodeState string

const (
	CodeStateIssued   CodeState = "issued"
	CodeStateRedeemed CodeState = "redeemed"
	CodeStateRevoked  CodeState = "revoked"
)

// TransferCode is a single-use, revocable token authorizing one named
// recipient to take ownership of one item. Keyed by the token value.
type TransferCode struct {
	Token     string
	ItemID    string
	Owner     identity.Address // origin owner who issued the code
	Recipient identity.Address // designated recipient
	State     CodeState
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewTransferCode issues a code for the item with a freshly generated token
// and the given time-to-live.
func NewTransferCode(itemID string, owner, recipient identity.Address, ttl time.Duration) (*TransferCode, error) {
	token, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &TransferCode{
		Token:     token,
		ItemID:    itemID,
		Owner:     owner,
		Recipient: recipient,
		State:     CodeStateIssued,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// GenerateToken returns a 32-byte token from the OS CSPRNG as 0x-prefixed
// hex. Tokens must be unguessable — never derived from a counter or from
// request attributes.
func GenerateToken() (string, error) {
	var raw [32]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("generate transfer token: %w", err)
	}
	return "0x" + hex.EncodeToString(raw[:]), nil
}

// Active reports whether the code can still be redeemed or revoked.
func (c *TransferCode) Active() bool {
	return c.State == CodeStateIssued
}

// ExpiredAt reports whether the code's expiry has passed at the given time.
// Expiry is a data attribute checked at redemption — nothing evicts codes on
// a schedule.
func (c *TransferCode) ExpiredAt(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
