package repositories

import (
	"context"

	"github.com/ghuser/trueauth/pkg/identity"
	"github.com/ghuser/trueauth/services/ledger/domain/models"
)

// QueryOpts contains pagination parameters for list queries.
type QueryOpts struct {
	Limit  int // Maximum number of records to return
	Offset int // Number of records to skip
}

// ItemRepository is the persistence interface for item ownership records.
// The domain layer owns this interface; infrastructure implements it.
type ItemRepository interface {
	// CreateClaimed persists a newly claimed item. Atomic with respect to the
	// item id: of two concurrent claims for the same id exactly one succeeds,
	// the other observes ErrItemAlreadyClaimed.
	CreateClaimed(ctx context.Context, item *models.Item) error

	// GetByID retrieves an item record. Returns ErrItemNotFound when no item
	// exists for the id (i.e. the certificate is unclaimed).
	GetByID(ctx context.Context, itemID string) (*models.Item, error)

	// FindByOwner retrieves a paginated list of items currently owned by the
	// identity plus the total count (ignoring pagination). An identity that
	// owns nothing yields an empty slice, not an error.
	FindByOwner(ctx context.Context, owner identity.Address, opts QueryOpts) ([]*models.Item, int, error)
}

// CertificateRepository stores issued certificates before any claim. A
// certificate may exist here with no item record.
type CertificateRepository interface {
	// Save persists an issued certificate and its signature.
	// Returns ErrCertificateExists if one was already saved for the unique id.
	Save(ctx context.Context, sc *models.SignedCertificate) error

	// GetByUniqueID retrieves a saved certificate.
	// Returns ErrCertificateNotFound when absent.
	GetByUniqueID(ctx context.Context, uniqueID string) (*models.SignedCertificate, error)
}
