package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/redis/go-redis/v9"

	pkgcache "github.com/ghuser/trueauth/pkg/cache"
	"github.com/ghuser/trueauth/pkg/identity"
	ledgerdomain "github.com/ghuser/trueauth/services/ledger/domain"
	"github.com/ghuser/trueauth/services/ledger/domain/models"
	"github.com/ghuser/trueauth/services/ledger/domain/repositories"
	domainsvcs "github.com/ghuser/trueauth/services/ledger/domain/services"
	"github.com/ghuser/trueauth/services/ledger/infrastructure/persistence/memory"
	registrysvcs "github.com/ghuser/trueauth/services/registry/application/services"
	registrymemory "github.com/ghuser/trueauth/services/registry/infrastructure/persistence/memory"
)

const testChainID = 31337

type harness struct {
	ledger   *LedgerService
	registry *registrysvcs.RegistryService
	store    *memory.Store

	makerKey    *secp256k1.PrivateKey
	maker       identity.Address
	user        identity.Address
	anotherUser identity.Address
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	store := memory.NewStore()
	registry := registrysvcs.NewRegistryService(registrymemory.NewRegistryRepository())

	contract, _ := identity.ParseAddress("0x0000000000000000000000000000000000000001")
	domain := domainsvcs.Domain{
		Name:              "CertificateAuth",
		Version:           "1",
		ChainID:           testChainID,
		VerifyingContract: contract,
	}

	h := &harness{
		ledger: NewLedgerService(
			domain,
			testChainID,
			memory.NewItemRepository(store),
			memory.NewCertificateRepository(store),
			registry,
			nil,
		),
		registry: registry,
		store:    store,
		makerKey: key,
		maker:    walletAddress(key),
	}
	h.user, _ = identity.ParseAddress("0xd8da6bf26964af9d7eed9e03e53415d37aa96045")
	h.anotherUser, _ = identity.ParseAddress("0xab5801a7d398351b8be11c439e05c5b3259aec9b")

	ctx := context.Background()
	if _, err := registry.RegisterManufacturer(ctx, h.maker, "Acme Watchworks"); err != nil {
		t.Fatalf("register manufacturer: %v", err)
	}
	if _, err := registry.RegisterUser(ctx, h.user, "collector_jane"); err != nil {
		t.Fatalf("register user: %v", err)
	}
	if _, err := registry.RegisterUser(ctx, h.anotherUser, "collector_sam"); err != nil {
		t.Fatalf("register user: %v", err)
	}
	return h
}

func walletAddress(key *secp256k1.PrivateKey) identity.Address {
	uncompressed := key.PubKey().SerializeUncompressed()
	hash := domainsvcs.Keccak256(uncompressed[1:])
	var addr identity.Address
	copy(addr[:], hash[12:])
	return addr
}

// signedCertificate builds and signs a certificate with the harness's
// manufacturer key.
func (h *harness) signedCertificate(t *testing.T, uniqueID string) *models.SignedCertificate {
	t.Helper()

	metadata := []string{"color:midnight blue", "movement:automatic"}
	hash, err := domainsvcs.HashMetadata(metadata)
	if err != nil {
		t.Fatalf("hash metadata: %v", err)
	}
	cert := models.Certificate{
		Name:         "Chronograph ref. 5711",
		UniqueID:     uniqueID,
		Serial:       "SN-" + uniqueID,
		Date:         1718236800,
		Owner:        h.maker,
		MetadataHash: hash,
		Metadata:     metadata,
	}

	contract, _ := identity.ParseAddress("0x0000000000000000000000000000000000000001")
	domain := domainsvcs.Domain{
		Name:              "CertificateAuth",
		Version:           "1",
		ChainID:           testChainID,
		VerifyingContract: contract,
	}
	digest := domain.Digest(&cert)
	compact := secpecdsa.SignCompact(h.makerKey, digest[:], false)
	sig := make([]byte, 65)
	copy(sig, compact[1:])
	sig[64] = compact[0]

	return &models.SignedCertificate{Certificate: cert, Signature: sig}
}

func TestClaim(t *testing.T) {
	ctx := context.Background()

	t.Run("first claim succeeds", func(t *testing.T) {
		h := newHarness(t)
		sc := h.signedCertificate(t, "WCH-1")

		item, err := h.ledger.Claim(ctx, sc, h.user, testChainID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.Owner != h.user {
			t.Fatalf("expected owner %s, got %s", h.user.Hex(), item.Owner.Hex())
		}
		if item.Manufacturer != h.maker {
			t.Fatalf("expected manufacturer %s, got %s", h.maker.Hex(), item.Manufacturer.Hex())
		}
		if item.State != models.ItemStateOwned {
			t.Fatalf("expected state owned, got %s", item.State)
		}
	})

	t.Run("second claim conflicts", func(t *testing.T) {
		h := newHarness(t)
		sc := h.signedCertificate(t, "WCH-1")

		if _, err := h.ledger.Claim(ctx, sc, h.user, testChainID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, err := h.ledger.Claim(ctx, sc, h.anotherUser, testChainID)
		if !errors.Is(err, ledgerdomain.ErrItemAlreadyClaimed) {
			t.Fatalf("expected ErrItemAlreadyClaimed, got %v", err)
		}
	})

	t.Run("unregistered claimant rejected", func(t *testing.T) {
		h := newHarness(t)
		sc := h.signedCertificate(t, "WCH-1")

		stranger, _ := identity.ParseAddress("0x1111111111111111111111111111111111111111")
		_, err := h.ledger.Claim(ctx, sc, stranger, testChainID)
		if !errors.Is(err, ledgerdomain.ErrClaimantNotRegistered) {
			t.Fatalf("expected ErrClaimantNotRegistered, got %v", err)
		}
		if _, gerr := h.ledger.GetItem(ctx, "WCH-1"); !errors.Is(gerr, ledgerdomain.ErrItemNotFound) {
			t.Fatal("failed claim must not create an item")
		}
	})

	t.Run("wrong chain id rejected", func(t *testing.T) {
		h := newHarness(t)
		sc := h.signedCertificate(t, "WCH-1")

		_, err := h.ledger.Claim(ctx, sc, h.user, 1)
		if !errors.Is(err, ledgerdomain.ErrWrongNetwork) {
			t.Fatalf("expected ErrWrongNetwork, got %v", err)
		}
	})

	t.Run("unknown signer rejected", func(t *testing.T) {
		h := newHarness(t)

		// A certificate signed by a key no registered manufacturer holds.
		rogue, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			t.Fatalf("generate key: %v", err)
		}
		rogueHarness := &harness{makerKey: rogue, maker: walletAddress(rogue)}
		forged := rogueHarness.signedCertificate(t, "WCH-1")

		_, err = h.ledger.Claim(ctx, forged, h.user, testChainID)
		if !errors.Is(err, ledgerdomain.ErrUnknownManufacturer) {
			t.Fatalf("expected ErrUnknownManufacturer, got %v", err)
		}
	})

	t.Run("tampered metadata rejected", func(t *testing.T) {
		h := newHarness(t)
		sc := h.signedCertificate(t, "WCH-1")
		sc.Certificate.Metadata[0] = "color:counterfeit gold"

		_, err := h.ledger.Claim(ctx, sc, h.user, testChainID)
		if !errors.Is(err, ledgerdomain.ErrInvalidSignature) {
			t.Fatalf("expected ErrInvalidSignature, got %v", err)
		}
	})

	t.Run("tampered field rejected", func(t *testing.T) {
		h := newHarness(t)
		sc := h.signedCertificate(t, "WCH-1")
		sc.Certificate.Serial = "SN-FORGED"

		_, err := h.ledger.Claim(ctx, sc, h.user, testChainID)
		if !errors.Is(err, ledgerdomain.ErrUnknownManufacturer) && !errors.Is(err, ledgerdomain.ErrInvalidSignature) {
			t.Fatalf("expected signature failure, got %v", err)
		}
	})
}

func TestClaim_Concurrent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	sc := h.signedCertificate(t, "WCH-RACE")

	claimants := []identity.Address{h.user, h.anotherUser}
	errs := make([]error, len(claimants))
	var wg sync.WaitGroup
	for i, claimant := range claimants {
		wg.Add(1)
		go func(i int, claimant identity.Address) {
			defer wg.Done()
			_, errs[i] = h.ledger.Claim(ctx, sc, claimant, testChainID)
		}(i, claimant)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ledgerdomain.ErrItemAlreadyClaimed):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one winner, got %d wins and %d conflicts", wins, conflicts)
	}
}

func TestVerifyAuthenticity(t *testing.T) {
	ctx := context.Background()

	t.Run("authentic certificate", func(t *testing.T) {
		h := newHarness(t)
		valid, name := h.ledger.VerifyAuthenticity(ctx, h.signedCertificate(t, "WCH-1"), testChainID)
		if !valid || name != "Acme Watchworks" {
			t.Fatalf("expected (true, Acme Watchworks), got (%v, %q)", valid, name)
		}
	})

	t.Run("verification does not touch the ledger", func(t *testing.T) {
		h := newHarness(t)
		h.ledger.VerifyAuthenticity(ctx, h.signedCertificate(t, "WCH-1"), testChainID)
		if _, err := h.ledger.GetItem(ctx, "WCH-1"); !errors.Is(err, ledgerdomain.ErrItemNotFound) {
			t.Fatal("verification created an item record")
		}
	})

	t.Run("all failures collapse to false with no name", func(t *testing.T) {
		h := newHarness(t)

		tampered := h.signedCertificate(t, "WCH-1")
		tampered.Certificate.Name = "Forged"

		wrongChain := h.signedCertificate(t, "WCH-2")

		badSig := h.signedCertificate(t, "WCH-3")
		badSig.Signature = badSig.Signature[:64]

		cases := []struct {
			name    string
			sc      *models.SignedCertificate
			chainID int64
		}{
			{"tampered field", tampered, testChainID},
			{"wrong chain", wrongChain, 1},
			{"malformed signature", badSig, testChainID},
		}
		for _, tt := range cases {
			t.Run(tt.name, func(t *testing.T) {
				valid, name := h.ledger.VerifyAuthenticity(ctx, tt.sc, tt.chainID)
				if valid || name != "" {
					t.Fatalf("expected (false, \"\"), got (%v, %q)", valid, name)
				}
			})
		}
	})
}

func TestCertificateStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("issue then fetch", func(t *testing.T) {
		h := newHarness(t)
		sc := h.signedCertificate(t, "WCH-1")

		if err := h.ledger.IssueCertificate(ctx, sc, h.maker, testChainID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := h.ledger.GetCertificate(ctx, "WCH-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Certificate.Serial != sc.Certificate.Serial {
			t.Fatalf("expected serial %q, got %q", sc.Certificate.Serial, got.Certificate.Serial)
		}
	})

	t.Run("issuer must be the signer", func(t *testing.T) {
		h := newHarness(t)
		sc := h.signedCertificate(t, "WCH-1")

		err := h.ledger.IssueCertificate(ctx, sc, h.user, testChainID)
		if !errors.Is(err, ledgerdomain.ErrInvalidSignature) {
			t.Fatalf("expected ErrInvalidSignature, got %v", err)
		}
	})

	t.Run("duplicate unique id conflicts", func(t *testing.T) {
		h := newHarness(t)
		sc := h.signedCertificate(t, "WCH-1")

		if err := h.ledger.IssueCertificate(ctx, sc, h.maker, testChainID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		err := h.ledger.IssueCertificate(ctx, sc, h.maker, testChainID)
		if !errors.Is(err, ledgerdomain.ErrCertificateExists) {
			t.Fatalf("expected ErrCertificateExists, got %v", err)
		}
	})

	t.Run("claim does not require a stored certificate", func(t *testing.T) {
		h := newHarness(t)
		sc := h.signedCertificate(t, "WCH-UNSAVED")
		if _, err := h.ledger.Claim(ctx, sc, h.user, testChainID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing certificate not found", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.ledger.GetCertificate(ctx, "nope")
		if !errors.Is(err, ledgerdomain.ErrCertificateNotFound) {
			t.Fatalf("expected ErrCertificateNotFound, got %v", err)
		}
	})
}

func TestListOwnedAndOwner(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	for _, id := range []string{"WCH-1", "WCH-2", "WCH-3"} {
		if _, err := h.ledger.Claim(ctx, h.signedCertificate(t, id), h.user, testChainID); err != nil {
			t.Fatalf("claim %s: %v", id, err)
		}
	}

	t.Run("pagination", func(t *testing.T) {
		items, total, err := h.ledger.ListOwned(ctx, h.user, repositories.QueryOpts{Limit: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 3 || len(items) != 2 {
			t.Fatalf("expected total 3 page 2, got total %d page %d", total, len(items))
		}

		rest, _, err := h.ledger.ListOwned(ctx, h.user, repositories.QueryOpts{Limit: 2, Offset: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rest) != 1 {
			t.Fatalf("expected 1 remaining item, got %d", len(rest))
		}
	})

	t.Run("other identity owns nothing", func(t *testing.T) {
		items, total, err := h.ledger.ListOwned(ctx, h.anotherUser, repositories.QueryOpts{Limit: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 0 || len(items) != 0 {
			t.Fatalf("expected empty result, got total %d", total)
		}
	})

	t.Run("current owner", func(t *testing.T) {
		owner, err := h.ledger.CurrentOwner(ctx, "WCH-2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if owner != h.user {
			t.Fatalf("expected %s, got %s", h.user.Hex(), owner.Hex())
		}
	})

	t.Run("unknown item", func(t *testing.T) {
		if _, err := h.ledger.CurrentOwner(ctx, "nope"); !errors.Is(err, ledgerdomain.ErrItemNotFound) {
			t.Fatalf("expected ErrItemNotFound, got %v", err)
		}
	})
}

type stubItemCache struct {
	entries map[string]*pkgcache.CachedItem
}

func (c *stubItemCache) Get(_ context.Context, itemID string) (*pkgcache.CachedItem, error) {
	if item, ok := c.entries[itemID]; ok {
		return item, nil
	}
	return nil, redis.Nil
}

func TestCurrentOwnerCache(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	stub := &stubItemCache{entries: map[string]*pkgcache.CachedItem{}}
	contract, _ := identity.ParseAddress("0x0000000000000000000000000000000000000001")
	svc := NewLedgerService(
		domainsvcs.Domain{
			Name:              "CertificateAuth",
			Version:           "1",
			ChainID:           testChainID,
			VerifyingContract: contract,
		},
		testChainID,
		memory.NewItemRepository(h.store),
		memory.NewCertificateRepository(h.store),
		h.registry,
		stub,
	)

	if _, err := h.ledger.Claim(ctx, h.signedCertificate(t, "WCH-1"), h.user, testChainID); err != nil {
		t.Fatalf("claim: %v", err)
	}

	t.Run("cache hit wins", func(t *testing.T) {
		stub.entries["WCH-1"] = &pkgcache.CachedItem{ItemID: "WCH-1", Owner: h.anotherUser.Hex()}
		owner, err := svc.CurrentOwner(ctx, "WCH-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if owner != h.anotherUser {
			t.Fatalf("expected cached owner %s, got %s", h.anotherUser.Hex(), owner.Hex())
		}
	})

	t.Run("miss falls back without repopulating", func(t *testing.T) {
		delete(stub.entries, "WCH-1")
		for i := 0; i < 2; i++ {
			owner, err := svc.CurrentOwner(ctx, "WCH-1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if owner != h.user {
				t.Fatalf("expected ledger owner %s, got %s", h.user.Hex(), owner.Hex())
			}
		}
		// A dropped entry stays dropped until the worker writes it again.
		if len(stub.entries) != 0 {
			t.Fatal("owner lookup wrote the cache")
		}
	})
}

func TestBuildTypedDataService(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	td, err := h.ledger.BuildTypedData(ctx, &models.Certificate{
		Name:     "Chronograph",
		UniqueID: "WCH-1",
		Serial:   "SN-1",
		Date:     1718236800,
		Owner:    h.maker,
		Metadata: []string{"color:blue"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if td.Primary != "Certificate" {
		t.Fatalf("expected primary type Certificate, got %q", td.Primary)
	}

	t.Run("invalid certificate rejected", func(t *testing.T) {
		_, err := h.ledger.BuildTypedData(ctx, &models.Certificate{UniqueID: "WCH-1"})
		if !errors.Is(err, ledgerdomain.ErrInvalidCertificate) {
			t.Fatalf("expected ErrInvalidCertificate, got %v", err)
		}
	})
}
