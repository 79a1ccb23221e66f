// Package memory implements the transfer-code repository over the shared
// in-process arena store. Delegating into the ledger's store keeps code
// issuance, revocation and redemption under the same lock as item claims.
package memory

import (
	"context"
	"time"

	"github.com/ghuser/trueauth/pkg/identity"
	ledgermemory "github.com/ghuser/trueauth/services/ledger/infrastructure/persistence/memory"
	transfermodels "github.com/ghuser/trueauth/services/transfer/domain/models"
)

// CodeRepository implements transfer repositories.CodeRepository over the
// shared arena store.
type CodeRepository struct {
	store *ledgermemory.Store
}

// NewCodeRepository returns a CodeRepository backed by the given store.
func NewCodeRepository(store *ledgermemory.Store) *CodeRepository {
	return &CodeRepository{store: store}
}

// Issue records a new transfer code after checking the requester still owns
// the item and no equivalent active code exists.
func (r *CodeRepository) Issue(_ context.Context, code *transfermodels.TransferCode) error {
	return r.store.IssueCode(code)
}

// Revoke cancels an unconsumed code on behalf of its origin owner.
func (r *CodeRepository) Revoke(_ context.Context, token string, requester identity.Address) (*transfermodels.TransferCode, error) {
	return r.store.RevokeCode(token, requester)
}

// Redeem consumes an active, unexpired code and reassigns the item to the
// claimant.
func (r *CodeRepository) Redeem(_ context.Context, token string, claimant identity.Address, now time.Time) (*transfermodels.TransferCode, error) {
	return r.store.RedeemCode(token, claimant, now)
}

// FindByItem lists all codes ever issued for an item, newest first.
func (r *CodeRepository) FindByItem(_ context.Context, itemID string) ([]*transfermodels.TransferCode, error) {
	return r.store.CodesByItem(itemID), nil
}
