package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ghuser/trueauth/pkg/identity"
	registrydomain "github.com/ghuser/trueauth/services/registry/domain"
	"github.com/ghuser/trueauth/services/registry/domain/models"
)

func testAddr(t *testing.T, hex string) identity.Address {
	t.Helper()
	a, err := identity.ParseAddress(hex)
	if err != nil {
		t.Fatalf("parse address %s: %v", hex, err)
	}
	return a
}

func manufacturer(t *testing.T, addrHex, name string) *models.Manufacturer {
	t.Helper()
	return &models.Manufacturer{
		Address:      testAddr(t, addrHex),
		Name:         models.ManufacturerName(name),
		RegisteredAt: time.Now().UTC(),
	}
}

func user(t *testing.T, addrHex, username string) *models.User {
	t.Helper()
	return &models.User{
		Address:      testAddr(t, addrHex),
		Username:     models.Username(username),
		RegisteredAt: time.Now().UTC(),
	}
}

// The repository itself holds the one-role-per-address rule, independent of
// any caller-side check.
func TestCrossRoleUniqueness(t *testing.T) {
	ctx := context.Background()
	wallet := "0x8ba1f109551bd432803012645ac136ddd64dba72"

	t.Run("user insert blocked by manufacturer row", func(t *testing.T) {
		repo := NewRegistryRepository()
		if err := repo.SaveManufacturer(ctx, manufacturer(t, wallet, "Acme Watchworks")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		err := repo.SaveUser(ctx, user(t, wallet, "collector_jane"))
		if !errors.Is(err, registrydomain.ErrAlreadyRegistered) {
			t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
		}
	})

	t.Run("manufacturer insert blocked by user row", func(t *testing.T) {
		repo := NewRegistryRepository()
		if err := repo.SaveUser(ctx, user(t, wallet, "collector_jane")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		err := repo.SaveManufacturer(ctx, manufacturer(t, wallet, "Acme Watchworks"))
		if !errors.Is(err, registrydomain.ErrAlreadyRegistered) {
			t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
		}
	})

	t.Run("concurrent pair grants one role", func(t *testing.T) {
		repo := NewRegistryRepository()

		var wg sync.WaitGroup
		var mErr, uErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			mErr = repo.SaveManufacturer(ctx, manufacturer(t, wallet, "Acme Watchworks"))
		}()
		go func() {
			defer wg.Done()
			uErr = repo.SaveUser(ctx, user(t, wallet, "collector_jane"))
		}()
		wg.Wait()

		if (mErr == nil) == (uErr == nil) {
			t.Fatalf("expected exactly one role granted: manufacturer=%v user=%v", mErr, uErr)
		}
		addr := testAddr(t, wallet)
		_, isManufacturer, _ := repo.GetManufacturer(ctx, addr)
		_, isUser, _ := repo.GetUser(ctx, addr)
		if isManufacturer && isUser {
			t.Fatal("address holds both roles")
		}
	})
}
