package postgres

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/trueauth/pkg/database"
	"github.com/ghuser/trueauth/pkg/identity"
	ledgerdomain "github.com/ghuser/trueauth/services/ledger/domain"
	"github.com/ghuser/trueauth/services/ledger/domain/models"
)

// CertificateRepository implements repositories.CertificateRepository against
// PostgreSQL.
type CertificateRepository struct {
	db *database.Database
}

// NewCertificateRepository returns a CertificateRepository backed by the
// given pool.
func NewCertificateRepository(db *database.Database) *CertificateRepository {
	return &CertificateRepository{db: db}
}

// Save persists an issued certificate and its signature. Returns
// ErrCertificateExists when one is already stored for the unique id.
func (r *CertificateRepository) Save(ctx context.Context, sc *models.SignedCertificate) error {
	metadata, err := json.Marshal(sc.Certificate.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	_, err = r.db.DB().ExecContext(ctx, `
		INSERT INTO certificates (unique_id, name, serial, date, owner, metadata_hash, metadata, signature, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`,
		sc.Certificate.UniqueID, sc.Certificate.Name, sc.Certificate.Serial,
		sc.Certificate.Date, sc.Certificate.Owner.Hex(),
		sc.Certificate.MetadataHashHex(), metadata,
		"0x"+hex.EncodeToString(sc.Signature),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ledgerdomain.ErrCertificateExists
		}
		return fmt.Errorf("insert certificate: %w", err)
	}
	return nil
}

// GetByUniqueID retrieves a saved certificate. Returns ErrCertificateNotFound
// if absent.
func (r *CertificateRepository) GetByUniqueID(ctx context.Context, uniqueID string) (*models.SignedCertificate, error) {
	row := r.db.DB().QueryRowContext(ctx, `
		SELECT unique_id, name, serial, date, owner, metadata_hash, metadata, signature
		FROM certificates
		WHERE unique_id = $1`,
		uniqueID,
	)

	var (
		sc           models.SignedCertificate
		ownerHex     string
		hashHex      string
		metadata     []byte
		signatureHex string
	)
	if err := row.Scan(
		&sc.Certificate.UniqueID, &sc.Certificate.Name, &sc.Certificate.Serial,
		&sc.Certificate.Date, &ownerHex, &hashHex, &metadata, &signatureHex,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledgerdomain.ErrCertificateNotFound
		}
		return nil, fmt.Errorf("query certificate: %w", err)
	}

	owner, err := identity.ParseAddress(ownerHex)
	if err != nil {
		return nil, fmt.Errorf("parse stored owner: %w", err)
	}
	hash, err := models.ParseMetadataHash(hashHex)
	if err != nil {
		return nil, fmt.Errorf("parse stored metadata hash: %w", err)
	}
	signature, err := models.ParseSignature(signatureHex)
	if err != nil {
		return nil, fmt.Errorf("parse stored signature: %w", err)
	}
	if err := json.Unmarshal(metadata, &sc.Certificate.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	sc.Certificate.Owner = owner
	sc.Certificate.MetadataHash = hash
	sc.Signature = signature
	return &sc, nil
}
