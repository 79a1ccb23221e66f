package services

import (
	"context"
	"fmt"

	"github.com/ghuser/trueauth/pkg/identity"
	registrydomain "github.com/ghuser/trueauth/services/registry/domain"
	"github.com/ghuser/trueauth/services/registry/domain/models"
	"github.com/ghuser/trueauth/services/registry/domain/repositories"
)

// RegistryService orchestrates manufacturer and user registration and lookup.
// An identity registers at most once, under exactly one role.
type RegistryService struct {
	repo repositories.RegistryRepository
}

// NewRegistryService returns a RegistryService wired with the given repository.
func NewRegistryService(repo repositories.RegistryRepository) *RegistryService {
	return &RegistryService{repo: repo}
}

// RegisterManufacturer binds a display name to the wallet address. The
// address must not hold either role yet and the name must be unused.
func (s *RegistryService) RegisterManufacturer(ctx context.Context, addr identity.Address, name string) (*models.Manufacturer, error) {
	manufacturerName, err := models.NewManufacturerName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", registrydomain.ErrInvalidName, err)
	}

	if err := s.ensureUnregistered(ctx, addr); err != nil {
		return nil, err
	}

	m := models.NewManufacturer(addr, manufacturerName)
	if err := s.repo.SaveManufacturer(ctx, m); err != nil {
		return nil, fmt.Errorf("save manufacturer: %w", err)
	}
	return m, nil
}

// RegisterUser binds a username to the wallet address. The address must not
// hold either role yet and the username must be unused.
func (s *RegistryService) RegisterUser(ctx context.Context, addr identity.Address, username string) (*models.User, error) {
	name, err := models.NewUsername(username)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", registrydomain.ErrInvalidName, err)
	}

	if err := s.ensureUnregistered(ctx, addr); err != nil {
		return nil, err
	}

	u := models.NewUser(addr, name)
	if err := s.repo.SaveUser(ctx, u); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return u, nil
}

// GetManufacturer looks up a manufacturer profile by wallet address.
func (s *RegistryService) GetManufacturer(ctx context.Context, addr identity.Address) (*models.Manufacturer, bool, error) {
	m, found, err := s.repo.GetManufacturer(ctx, addr)
	if err != nil {
		return nil, false, fmt.Errorf("get manufacturer: %w", err)
	}
	return m, found, nil
}

// GetUser looks up a user profile by wallet address.
func (s *RegistryService) GetUser(ctx context.Context, addr identity.Address) (*models.User, bool, error) {
	u, found, err := s.repo.GetUser(ctx, addr)
	if err != nil {
		return nil, false, fmt.Errorf("get user: %w", err)
	}
	return u, found, nil
}

// IsManufacturer reports whether the address is a registered manufacturer.
// The ledger uses this when verifying certificate issuers.
func (s *RegistryService) IsManufacturer(ctx context.Context, addr identity.Address) (bool, error) {
	_, found, err := s.repo.GetManufacturer(ctx, addr)
	if err != nil {
		return false, fmt.Errorf("check manufacturer: %w", err)
	}
	return found, nil
}

// ManufacturerName returns the display name bound to the address, if the
// address is a registered manufacturer.
func (s *RegistryService) ManufacturerName(ctx context.Context, addr identity.Address) (string, bool, error) {
	m, found, err := s.repo.GetManufacturer(ctx, addr)
	if err != nil {
		return "", false, fmt.Errorf("get manufacturer: %w", err)
	}
	if !found {
		return "", false, nil
	}
	return m.Name.String(), true, nil
}

// IsUser reports whether the address is a registered user.
func (s *RegistryService) IsUser(ctx context.Context, addr identity.Address) (bool, error) {
	_, found, err := s.repo.GetUser(ctx, addr)
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return found, nil
}

// ensureUnregistered pre-checks the one-role-per-identity rule for a precise
// error. The repository re-checks atomically with the insert, so a racing
// registration pair still ends with a single role.
func (s *RegistryService) ensureUnregistered(ctx context.Context, addr identity.Address) error {
	if _, found, err := s.repo.GetManufacturer(ctx, addr); err != nil {
		return fmt.Errorf("check manufacturer: %w", err)
	} else if found {
		return registrydomain.ErrAlreadyRegistered
	}
	if _, found, err := s.repo.GetUser(ctx, addr); err != nil {
		return fmt.Errorf("check user: %w", err)
	} else if found {
		return registrydomain.ErrAlreadyRegistered
	}
	return nil
}
