package domain

import "errors"

// Sentinel errors for the transfer-code manager. Use errors.Is() to check these.
var (
	// ErrUnauthorized indicates the caller lacks rights over the item or code.
	ErrUnauthorized = errors.New("caller is not the item owner")

	// ErrSelfTransfer indicates the designated recipient equals the owner.
	ErrSelfTransfer = errors.New("recipient must differ from owner")

	// ErrDuplicateActiveCode indicates an active code already exists for the
	// item. Revoke it before issuing a new one.
	ErrDuplicateActiveCode = errors.New("active transfer code already exists for this item")

	// ErrCodeNotActive indicates an unknown, redeemed, or revoked code.
	// A consumed code never leaves its terminal state.
	ErrCodeNotActive = errors.New("transfer code is not active")

	// ErrCodeExpired indicates the code's expiry timestamp has passed.
	ErrCodeExpired = errors.New("transfer code expired")

	// ErrWrongRecipient indicates the claimant is not the code's designated
	// recipient.
	ErrWrongRecipient = errors.New("caller is not the designated recipient")
)
