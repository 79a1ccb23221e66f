package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	pkgcache "github.com/ghuser/trueauth/pkg/cache"
	"github.com/ghuser/trueauth/pkg/identity"
	ledgerdomain "github.com/ghuser/trueauth/services/ledger/domain"
	"github.com/ghuser/trueauth/services/ledger/domain/models"
	"github.com/ghuser/trueauth/services/ledger/domain/repositories"
	domainsvcs "github.com/ghuser/trueauth/services/ledger/domain/services"
)

// RegistryReader is the slice of the registry context the ledger needs:
// resolving recovered signers to manufacturers and checking claimants are
// registered users.
type RegistryReader interface {
	ManufacturerName(ctx context.Context, addr identity.Address) (string, bool, error)
	IsUser(ctx context.Context, addr identity.Address) (bool, error)
}

// ItemCacheReader is the read side of the item cache. The service holds no
// write handle: the worker owns every cache write, so a lookup can never put
// back an entry a concurrent redemption dropped.
type ItemCacheReader interface {
	Get(ctx context.Context, itemID string) (*pkgcache.CachedItem, error)
}

// LedgerService orchestrates certificate issuance, authenticity verification
// and item claims. Event publishing is handled by the repository layer
// (outbox pattern). Owner reads are served from Redis cache when available.
type LedgerService struct {
	domain   domainsvcs.Domain
	chainID  int64
	items    repositories.ItemRepository
	certs    repositories.CertificateRepository
	registry RegistryReader
	cache    ItemCacheReader
}

// NewLedgerService returns a LedgerService wired with the given signing
// domain, repositories, registry reader and cache.
func NewLedgerService(
	domain domainsvcs.Domain,
	chainID int64,
	items repositories.ItemRepository,
	certs repositories.CertificateRepository,
	registry RegistryReader,
	itemCache ItemCacheReader,
) *LedgerService {
	return &LedgerService{
		domain:   domain,
		chainID:  chainID,
		items:    items,
		certs:    certs,
		registry: registry,
		cache:    itemCache,
	}
}

// IssueCertificate stores a manufacturer-signed certificate so it can later
// be fetched by item identifier. The signature must recover to the issuing
// wallet, which must be a registered manufacturer.
func (s *LedgerService) IssueCertificate(ctx context.Context, sc *models.SignedCertificate, issuer identity.Address, chainID int64) error {
	signer, _, err := s.verify(ctx, sc, chainID)
	if err != nil {
		return err
	}
	if signer != issuer {
		return fmt.Errorf("%w: signer is not the issuing wallet", ledgerdomain.ErrInvalidSignature)
	}
	if err := s.certs.Save(ctx, sc); err != nil {
		return fmt.Errorf("save certificate: %w", err)
	}
	return nil
}

// GetCertificate retrieves a stored certificate by its item identifier.
func (s *LedgerService) GetCertificate(ctx context.Context, uniqueID string) (*models.SignedCertificate, error) {
	sc, err := s.certs.GetByUniqueID(ctx, uniqueID)
	if err != nil {
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	return sc, nil
}

// BuildTypedData renders the signing payload a wallet needs to produce a
// certificate signature for this deployment.
func (s *LedgerService) BuildTypedData(_ context.Context, cert *models.Certificate) (*domainsvcs.TypedData, error) {
	if err := cert.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ledgerdomain.ErrInvalidCertificate, err)
	}
	td, err := s.domain.BuildTypedData(cert)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ledgerdomain.ErrInvalidCertificate, err)
	}
	return td, nil
}

// Claim verifies the certificate and binds the item to the claimant as its
// first owner. The claimant must be a registered user; the item must not
// have been claimed before.
func (s *LedgerService) Claim(ctx context.Context, sc *models.SignedCertificate, claimant identity.Address, chainID int64) (*models.Item, error) {
	signer, _, err := s.verify(ctx, sc, chainID)
	if err != nil {
		return nil, err
	}

	isUser, err := s.registry.IsUser(ctx, claimant)
	if err != nil {
		return nil, fmt.Errorf("check claimant: %w", err)
	}
	if !isUser {
		return nil, ledgerdomain.ErrClaimantNotRegistered
	}

	item := models.NewClaimedItem(sc.Certificate, signer, claimant)
	if err := s.items.CreateClaimed(ctx, item); err != nil {
		return nil, fmt.Errorf("claim item: %w", err)
	}
	return item, nil
}

// VerifyAuthenticity checks a certificate without touching the ledger. It
// reports whether the signature is valid for this deployment and was produced
// by a registered manufacturer, and if so, that manufacturer's name. Every
// failure mode collapses to (false, ""): a caller learns nothing about why.
func (s *LedgerService) VerifyAuthenticity(ctx context.Context, sc *models.SignedCertificate, chainID int64) (bool, string) {
	_, name, err := s.verify(ctx, sc, chainID)
	if err != nil {
		return false, ""
	}
	return true, name
}

// GetItem retrieves the full ownership record for an item.
func (s *LedgerService) GetItem(ctx context.Context, itemID string) (*models.Item, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// CurrentOwner resolves an item's present owner: Redis read model first,
// Postgres on a miss. The worker owns every cache write, so a lookup racing a
// redemption can never put a superseded owner back into Redis.
func (s *LedgerService) CurrentOwner(ctx context.Context, itemID string) (identity.Address, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, itemID); err == nil {
			if owner, perr := identity.ParseAddress(cached.Owner); perr == nil {
				return owner, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			// Cache error; fall through to Postgres.
			_ = err
		}
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return identity.Address{}, fmt.Errorf("get item: %w", err)
	}
	return item.Owner, nil
}

// ListOwned returns a paginated slice of items the identity currently owns,
// plus the total count.
func (s *LedgerService) ListOwned(ctx context.Context, owner identity.Address, opts repositories.QueryOpts) ([]*models.Item, int, error) {
	items, total, err := s.items.FindByOwner(ctx, owner, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	return items, total, nil
}

// verify is the single verification routine claim, issuance and authenticity
// checks share. It recomputes the metadata commitment, recovers the signer
// from the typed-data digest and resolves the signer against the registry.
// Returns the signer and its manufacturer name.
func (s *LedgerService) verify(ctx context.Context, sc *models.SignedCertificate, chainID int64) (identity.Address, string, error) {
	// A zero chain id means the caller did not assert a network; the digest
	// still binds the signature to this deployment's chain.
	if chainID != 0 && chainID != s.chainID {
		return identity.Address{}, "", ledgerdomain.ErrWrongNetwork
	}
	if err := sc.Certificate.Validate(); err != nil {
		return identity.Address{}, "", fmt.Errorf("%w: %w", ledgerdomain.ErrInvalidCertificate, err)
	}

	computed, err := domainsvcs.HashMetadata(sc.Certificate.Metadata)
	if err != nil {
		return identity.Address{}, "", fmt.Errorf("%w: %w", ledgerdomain.ErrInvalidCertificate, err)
	}
	if computed != sc.Certificate.MetadataHash {
		return identity.Address{}, "", fmt.Errorf("%w: metadata does not match its commitment", ledgerdomain.ErrInvalidSignature)
	}

	digest := s.domain.Digest(&sc.Certificate)
	signer, err := domainsvcs.Recover(digest, sc.Signature)
	if err != nil {
		return identity.Address{}, "", err
	}

	name, found, err := s.registry.ManufacturerName(ctx, signer)
	if err != nil {
		return identity.Address{}, "", fmt.Errorf("resolve signer: %w", err)
	}
	if !found {
		return identity.Address{}, "", ledgerdomain.ErrUnknownManufacturer
	}
	return signer, name, nil
}
