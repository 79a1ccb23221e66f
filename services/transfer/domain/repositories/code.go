package repositories

import (
	"context"
	"time"

	"github.com/ghuser/trueauth/pkg/identity"
	"github.com/ghuser/trueauth/services/transfer/domain/models"
)

// CodeRepository is the persistence interface for transfer codes. It shares
// one serialization point per item with the item ledger: every operation
// below is atomic over the code and its item, so no caller ever observes an
// item whose owner changed while its code is still active.
type CodeRepository interface {
	// Issue persists a new code for code.ItemID after verifying, inside the
	// same critical section, that code.Owner is the item's current owner
	// (ErrUnauthorized / ledger ErrItemNotFound otherwise) and that the item
	// has no active code (ErrDuplicateActiveCode). On success the item
	// transitions to transfer-pending.
	Issue(ctx context.Context, code *models.TransferCode) error

	// Revoke deactivates the code identified by token and returns the item to
	// its origin owner's rest state. Unknown tokens yield ErrCodeNotActive; a
	// requester other than the origin owner yields ErrUnauthorized; a code
	// already consumed yields ErrCodeNotActive. Exactly one of two concurrent
	// revoke/redeem calls on the same token wins.
	Revoke(ctx context.Context, token string, requester identity.Address) (*models.TransferCode, error)

	// Redeem consumes the code and reassigns the item to the claimant.
	// Unknown or consumed tokens yield ErrCodeNotActive, as does a code whose
	// origin owner no longer owns the item. Expiry at `now` yields
	// ErrCodeExpired, a claimant other than the designated recipient yields
	// ErrWrongRecipient.
	Redeem(ctx context.Context, token string, claimant identity.Address, now time.Time) (*models.TransferCode, error)

	// FindByItem lists all codes ever issued for an item, newest first.
	// Inactive history is unbounded; at most one entry is active.
	FindByItem(ctx context.Context, itemID string) ([]*models.TransferCode, error)
}
