// Package memory implements the identity registry repository over in-process
// maps. Used by tests and single-process deployments.
package memory

import (
	"context"
	"sync"

	"github.com/ghuser/trueauth/pkg/identity"
	registrydomain "github.com/ghuser/trueauth/services/registry/domain"
	"github.com/ghuser/trueauth/services/registry/domain/models"
)

// RegistryRepository implements repositories.RegistryRepository over maps
// guarded by a single mutex, so the one-role-per-address and name uniqueness
// checks are atomic with the insert.
type RegistryRepository struct {
	mu                sync.RWMutex
	manufacturers     map[identity.Address]*models.Manufacturer
	users             map[identity.Address]*models.User
	manufacturerNames map[string]identity.Address
	usernames         map[string]identity.Address
}

// NewRegistryRepository returns an empty registry.
func NewRegistryRepository() *RegistryRepository {
	return &RegistryRepository{
		manufacturers:     make(map[identity.Address]*models.Manufacturer),
		users:             make(map[identity.Address]*models.User),
		manufacturerNames: make(map[string]identity.Address),
		usernames:         make(map[string]identity.Address),
	}
}

// SaveManufacturer registers a manufacturer if its address holds no role yet
// and its display name is free.
func (r *RegistryRepository) SaveManufacturer(_ context.Context, m *models.Manufacturer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.registeredLocked(m.Address) {
		return registrydomain.ErrAlreadyRegistered
	}
	key := m.Name.Key()
	if _, taken := r.manufacturerNames[key]; taken {
		return registrydomain.ErrNameTaken
	}

	cp := *m
	r.manufacturers[m.Address] = &cp
	r.manufacturerNames[key] = m.Address
	return nil
}

// SaveUser registers a user if its address holds no role yet and its username
// is free.
func (r *RegistryRepository) SaveUser(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.registeredLocked(u.Address) {
		return registrydomain.ErrAlreadyRegistered
	}
	key := u.Username.Key()
	if _, taken := r.usernames[key]; taken {
		return registrydomain.ErrUsernameTaken
	}

	cp := *u
	r.users[u.Address] = &cp
	r.usernames[key] = u.Address
	return nil
}

func (r *RegistryRepository) registeredLocked(addr identity.Address) bool {
	_, manufacturer := r.manufacturers[addr]
	_, user := r.users[addr]
	return manufacturer || user
}

// GetManufacturer looks up a manufacturer by wallet address.
func (r *RegistryRepository) GetManufacturer(_ context.Context, addr identity.Address) (*models.Manufacturer, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.manufacturers[addr]
	if !ok {
		return nil, false, nil
	}
	cp := *m
	return &cp, true, nil
}

// GetUser looks up a user by wallet address.
func (r *RegistryRepository) GetUser(_ context.Context, addr identity.Address) (*models.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[addr]
	if !ok {
		return nil, false, nil
	}
	cp := *u
	return &cp, true, nil
}
