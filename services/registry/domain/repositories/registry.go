package repositories

import (
	"context"

	"github.com/ghuser/trueauth/pkg/identity"
	"github.com/ghuser/trueauth/services/registry/domain/models"
)

// RegistryRepository is the persistence interface for manufacturer and user
// profiles. The domain layer owns this interface; infrastructure implements it.
//
// The Save methods are atomic with respect to both the identity and the name
// uniqueness key: concurrent registrations of the same identity or the same
// name resolve to exactly one success (the loser observes ErrAlreadyRegistered
// or ErrNameTaken/ErrUsernameTaken).
type RegistryRepository interface {
	// SaveManufacturer persists a new manufacturer profile.
	// Returns ErrAlreadyRegistered if the identity already holds a profile and
	// ErrNameTaken if another identity holds the name.
	SaveManufacturer(ctx context.Context, m *models.Manufacturer) error

	// SaveUser persists a new user profile.
	// Returns ErrAlreadyRegistered if the identity already holds a profile and
	// ErrUsernameTaken if another identity holds the username.
	SaveUser(ctx context.Context, u *models.User) error

	// GetManufacturer looks up a manufacturer profile. Absence is not an
	// error: found is false when the identity is not registered.
	GetManufacturer(ctx context.Context, addr identity.Address) (m *models.Manufacturer, found bool, err error)

	// GetUser looks up a user profile. Absence is not an error.
	GetUser(ctx context.Context, addr identity.Address) (u *models.User, found bool, err error)
}
