package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/trueauth/pkg/database"
	"github.com/ghuser/trueauth/pkg/identity"
	registrydomain "github.com/ghuser/trueauth/services/registry/domain"
	"github.com/ghuser/trueauth/services/registry/domain/models"
)

// RegistryRepository implements repositories.RegistryRepository against
// PostgreSQL. Every registration inserts into the shared identities table and
// the role table in one transaction; the identities primary key carries the
// one-role-per-address guarantee across both roles, the name_key indexes carry
// name uniqueness. Constraint names disambiguate which rule tripped.
type RegistryRepository struct {
	db *database.Database
}

// NewRegistryRepository returns a RegistryRepository backed by the given pool.
func NewRegistryRepository(db *database.Database) *RegistryRepository {
	return &RegistryRepository{db: db}
}

// SaveManufacturer registers a manufacturer. Returns ErrAlreadyRegistered if
// the address already holds either role and ErrNameTaken if the display name
// is in use.
func (r *RegistryRepository) SaveManufacturer(ctx context.Context, m *models.Manufacturer) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := claimIdentity(ctx, tx, m.Address, "manufacturer", m.RegisteredAt); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO manufacturers (address, name, name_key, registered_at)
			VALUES ($1, $2, $3, $4)`,
			m.Address.Hex(), m.Name.String(), m.Name.Key(), m.RegisteredAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				if strings.Contains(pgErr.ConstraintName, "name_key") {
					return registrydomain.ErrNameTaken
				}
				return registrydomain.ErrAlreadyRegistered
			}
			return fmt.Errorf("insert manufacturer: %w", err)
		}
		return nil
	})
}

// SaveUser registers a user. Returns ErrAlreadyRegistered if the address
// already holds either role and ErrUsernameTaken if the username is in use.
func (r *RegistryRepository) SaveUser(ctx context.Context, u *models.User) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := claimIdentity(ctx, tx, u.Address, "user", u.RegisteredAt); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (address, username, username_key, registered_at)
			VALUES ($1, $2, $3, $4)`,
			u.Address.Hex(), u.Username.String(), u.Username.Key(), u.RegisteredAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				if strings.Contains(pgErr.ConstraintName, "username_key") {
					return registrydomain.ErrUsernameTaken
				}
				return registrydomain.ErrAlreadyRegistered
			}
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
}

// claimIdentity takes the per-address row in the shared identities table.
// Losing the race to either role surfaces as ErrAlreadyRegistered.
func claimIdentity(ctx context.Context, tx *sql.Tx, addr identity.Address, role string, registeredAt time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO identities (address, role, registered_at)
		VALUES ($1, $2, $3)`,
		addr.Hex(), role, registeredAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return registrydomain.ErrAlreadyRegistered
		}
		return fmt.Errorf("claim identity: %w", err)
	}
	return nil
}

// GetManufacturer looks up a manufacturer by wallet address.
func (r *RegistryRepository) GetManufacturer(ctx context.Context, addr identity.Address) (*models.Manufacturer, bool, error) {
	row := r.db.DB().QueryRowContext(ctx, `
		SELECT address, name, registered_at
		FROM manufacturers
		WHERE address = $1`,
		addr.Hex(),
	)

	var (
		addrHex string
		name    string
		m       models.Manufacturer
	)
	if err := row.Scan(&addrHex, &name, &m.RegisteredAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("query manufacturer: %w", err)
	}

	parsed, err := identity.ParseAddress(addrHex)
	if err != nil {
		return nil, false, fmt.Errorf("parse stored address: %w", err)
	}
	m.Address = parsed
	m.Name = models.ManufacturerName(name)
	return &m, true, nil
}

// GetUser looks up a user by wallet address.
func (r *RegistryRepository) GetUser(ctx context.Context, addr identity.Address) (*models.User, bool, error) {
	row := r.db.DB().QueryRowContext(ctx, `
		SELECT address, username, registered_at
		FROM users
		WHERE address = $1`,
		addr.Hex(),
	)

	var (
		addrHex  string
		username string
		u        models.User
	)
	if err := row.Scan(&addrHex, &username, &u.RegisteredAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("query user: %w", err)
	}

	parsed, err := identity.ParseAddress(addrHex)
	if err != nil {
		return nil, false, fmt.Errorf("parse stored address: %w", err)
	}
	u.Address = parsed
	u.Username = models.Username(username)
	return &u, true, nil
}
