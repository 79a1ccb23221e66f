package services

import (
	"context"
	"fmt"
	"time"

	pkgcache "github.com/ghuser/trueauth/pkg/cache"
	"github.com/ghuser/trueauth/pkg/identity"
	transferdomain "github.com/ghuser/trueauth/services/transfer/domain"
	"github.com/ghuser/trueauth/services/transfer/domain/models"
	"github.com/ghuser/trueauth/services/transfer/domain/repositories"
)

// TransferService orchestrates the transfer-code lifecycle: generation by the
// current owner, revocation by the origin owner, redemption by the named
// recipient. Event publishing is handled by the repository layer (outbox
// pattern).
type TransferService struct {
	repo  repositories.CodeRepository
	cache *pkgcache.ItemCache
	ttl   time.Duration
}

// NewTransferService returns a TransferService wired with the given
// repository, cache and code lifetime.
func NewTransferService(repo repositories.CodeRepository, itemCache *pkgcache.ItemCache, ttl time.Duration) *TransferService {
	return &TransferService{repo: repo, cache: itemCache, ttl: ttl}
}

// GenerateCode mints a single-use transfer code addressed to the recipient.
// The requester must be the item's current owner and may not address a code
// to themselves.
func (s *TransferService) GenerateCode(ctx context.Context, itemID string, owner, recipient identity.Address) (*models.TransferCode, error) {
	if owner == recipient {
		return nil, transferdomain.ErrSelfTransfer
	}

	code, err := models.NewTransferCode(itemID, owner, recipient, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("mint transfer code: %w", err)
	}
	if err := s.repo.Issue(ctx, code); err != nil {
		return nil, fmt.Errorf("issue transfer code: %w", err)
	}
	return code, nil
}

// Revoke cancels an unconsumed code. Only the owner who generated it may
// revoke; the token becomes permanently unusable.
func (s *TransferService) Revoke(ctx context.Context, token string, requester identity.Address) (*models.TransferCode, error) {
	code, err := s.repo.Revoke(ctx, token, requester)
	if err != nil {
		return nil, fmt.Errorf("revoke transfer code: %w", err)
	}
	return code, nil
}

// Redeem consumes an active, unexpired code presented by its named recipient
// and reassigns the item. The stale owner entry is dropped from the read
// model so the next lookup sees the new owner.
func (s *TransferService) Redeem(ctx context.Context, token string, claimant identity.Address) (*models.TransferCode, error) {
	code, err := s.repo.Redeem(ctx, token, claimant, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("redeem transfer code: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(context.Background(), code.ItemID)
	}
	return code, nil
}

// History lists every code ever issued for an item, newest first.
func (s *TransferService) History(ctx context.Context, itemID string) ([]*models.TransferCode, error) {
	codes, err := s.repo.FindByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("list transfer codes: %w", err)
	}
	return codes, nil
}
