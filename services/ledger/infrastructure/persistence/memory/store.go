// Package memory implements the ledger and transfer repositories over an
// in-process arena store. Items, certificates and transfer codes live behind
// one mutex, which is the single per-item serialization point the item ledger
// and the transfer-code manager share: a claim, a code issue and a redeem for
// the same item can never interleave.
//
// Used by tests and single-process deployments; the Postgres implementations
// are the durable path.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ghuser/trueauth/pkg/identity"
	ledgerdomain "github.com/ghuser/trueauth/services/ledger/domain"
	ledgermodels "github.com/ghuser/trueauth/services/ledger/domain/models"
	ledgerrepos "github.com/ghuser/trueauth/services/ledger/domain/repositories"
	transferdomain "github.com/ghuser/trueauth/services/transfer/domain"
	transfermodels "github.com/ghuser/trueauth/services/transfer/domain/models"
)

// Store is the shared arena behind the memory repositories. All mutation
// happens under mu; readers get copies, never aliases into the maps.
type Store struct {
	mu    sync.RWMutex
	items map[string]*ledgermodels.Item
	certs map[string]*ledgermodels.SignedCertificate
	codes map[string]*transfermodels.TransferCode
}

// NewStore returns an empty arena store.
func NewStore() *Store {
	return &Store{
		items: make(map[string]*ledgermodels.Item),
		certs: make(map[string]*ledgermodels.SignedCertificate),
		codes: make(map[string]*transfermodels.TransferCode),
	}
}

// ItemRepository implements ledger repositories.ItemRepository over the store.
type ItemRepository struct {
	store *Store
}

// NewItemRepository returns an ItemRepository backed by the given store.
func NewItemRepository(store *Store) *ItemRepository {
	return &ItemRepository{store: store}
}

// CreateClaimed inserts the item if no record exists for its id.
func (r *ItemRepository) CreateClaimed(_ context.Context, item *ledgermodels.Item) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.items[item.ItemID]; exists {
		return ledgerdomain.ErrItemAlreadyClaimed
	}
	cp := cloneItem(item)
	r.store.items[item.ItemID] = cp
	return nil
}

// GetByID retrieves an item record by its unique identifier.
func (r *ItemRepository) GetByID(_ context.Context, itemID string) (*ledgermodels.Item, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.items[itemID]
	if !ok {
		return nil, ledgerdomain.ErrItemNotFound
	}
	return cloneItem(item), nil
}

// FindByOwner lists items currently owned by the identity, newest claim first.
func (r *ItemRepository) FindByOwner(_ context.Context, owner identity.Address, opts ledgerrepos.QueryOpts) ([]*ledgermodels.Item, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var owned []*ledgermodels.Item
	for _, item := range r.store.items {
		if item.Owner == owner {
			owned = append(owned, cloneItem(item))
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].ClaimedAt.After(owned[j].ClaimedAt)
	})

	total := len(owned)
	if opts.Offset >= total {
		return []*ledgermodels.Item{}, total, nil
	}
	end := total
	if opts.Limit > 0 && opts.Offset+opts.Limit < end {
		end = opts.Offset + opts.Limit
	}
	return owned[opts.Offset:end], total, nil
}

// CertificateRepository implements ledger repositories.CertificateRepository
// over the store.
type CertificateRepository struct {
	store *Store
}

// NewCertificateRepository returns a CertificateRepository backed by the store.
func NewCertificateRepository(store *Store) *CertificateRepository {
	return &CertificateRepository{store: store}
}

// Save persists an issued certificate and its signature.
func (r *CertificateRepository) Save(_ context.Context, sc *ledgermodels.SignedCertificate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.certs[sc.Certificate.UniqueID]; exists {
		return ledgerdomain.ErrCertificateExists
	}
	r.store.certs[sc.Certificate.UniqueID] = cloneCertificate(sc)
	return nil
}

// GetByUniqueID retrieves a saved certificate.
func (r *CertificateRepository) GetByUniqueID(_ context.Context, uniqueID string) (*ledgermodels.SignedCertificate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sc, ok := r.store.certs[uniqueID]
	if !ok {
		return nil, ledgerdomain.ErrCertificateNotFound
	}
	return cloneCertificate(sc), nil
}

// IssueCode, RevokeCode, RedeemCode and CodesByItem are the transfer-side
// operations; the transfer memory repository delegates here so both bounded
// contexts mutate under the same lock.

func (s *Store) IssueCode(code *transfermodels.TransferCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[code.ItemID]
	if !ok {
		return ledgerdomain.ErrItemNotFound
	}
	if item.Owner != code.Owner {
		return transferdomain.ErrUnauthorized
	}
	// At most one active code per item: ownership can only move along one
	// outstanding code at a time.
	for _, existing := range s.codes {
		if existing.ItemID == code.ItemID && existing.Active() {
			return transferdomain.ErrDuplicateActiveCode
		}
	}

	s.codes[code.Token] = cloneCode(code)
	item.State = ledgermodels.ItemStateTransferPending
	return nil
}

func (s *Store) RevokeCode(token string, requester identity.Address) (*transfermodels.TransferCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, ok := s.codes[token]
	if !ok {
		return nil, transferdomain.ErrCodeNotActive
	}
	if code.Owner != requester {
		return nil, transferdomain.ErrUnauthorized
	}
	if !code.Active() {
		return nil, transferdomain.ErrCodeNotActive
	}

	code.State = transfermodels.CodeStateRevoked
	if item, ok := s.items[code.ItemID]; ok {
		item.State = ledgermodels.ItemStateOwned
	}
	return cloneCode(code), nil
}

func (s *Store) RedeemCode(token string, claimant identity.Address, now time.Time) (*transfermodels.TransferCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, ok := s.codes[token]
	if !ok || !code.Active() {
		return nil, transferdomain.ErrCodeNotActive
	}
	if code.ExpiredAt(now) {
		return nil, transferdomain.ErrCodeExpired
	}
	if code.Recipient != claimant {
		return nil, transferdomain.ErrWrongRecipient
	}
	item, ok := s.items[code.ItemID]
	if !ok {
		return nil, ledgerdomain.ErrItemNotFound
	}
	// A code minted by a previous owner is dead regardless of its state.
	if item.Owner != code.Owner {
		return nil, transferdomain.ErrCodeNotActive
	}

	code.State = transfermodels.CodeStateRedeemed
	item.Owner = claimant
	item.State = ledgermodels.ItemStateOwned
	return cloneCode(code), nil
}

func (s *Store) CodesByItem(itemID string) []*transfermodels.TransferCode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*transfermodels.TransferCode
	for _, code := range s.codes {
		if code.ItemID == itemID {
			out = append(out, cloneCode(code))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func cloneItem(item *ledgermodels.Item) *ledgermodels.Item {
	cp := *item
	cp.Metadata = append([]string(nil), item.Metadata...)
	return &cp
}

func cloneCertificate(sc *ledgermodels.SignedCertificate) *ledgermodels.SignedCertificate {
	cp := *sc
	cp.Certificate.Metadata = append([]string(nil), sc.Certificate.Metadata...)
	cp.Signature = append([]byte(nil), sc.Signature...)
	return &cp
}

func cloneCode(code *transfermodels.TransferCode) *transfermodels.TransferCode {
	cp := *code
	return &cp
}
