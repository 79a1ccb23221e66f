package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/trueauth/pkg/database"
	"github.com/ghuser/trueauth/pkg/events"
	"github.com/ghuser/trueauth/pkg/identity"
	ledgerdomain "github.com/ghuser/trueauth/services/ledger/domain"
	ledgermodels "github.com/ghuser/trueauth/services/ledger/domain/models"
	transferdomain "github.com/ghuser/trueauth/services/transfer/domain"
	domainevents "github.com/ghuser/trueauth/services/transfer/domain/events"
	"github.com/ghuser/trueauth/services/transfer/domain/models"
)

// CodeRepository implements repositories.CodeRepository against PostgreSQL.
// Every mutation runs in a transaction that first locks the item row with
// SELECT ... FOR UPDATE, so two code operations for the same item, or a code
// operation racing a claim, serialize on that row. Transfer facts commit in
// the same transaction through the outbox.
type CodeRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewCodeRepository returns a CodeRepository backed by the given pool and
// event bus.
func NewCodeRepository(db *database.Database, bus *events.EventBus) *CodeRepository {
	return &CodeRepository{db: db, bus: bus}
}

// Issue records a new transfer code after re-checking ownership and the
// one-active-code-per-item rule under the item lock.
func (r *CodeRepository) Issue(ctx context.Context, code *models.TransferCode) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		owner, err := lockItem(ctx, tx, code.ItemID)
		if err != nil {
			return err
		}
		if owner != code.Owner {
			return transferdomain.ErrUnauthorized
		}

		var active int
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM transfer_codes
			WHERE item_id = $1 AND state = $2`,
			code.ItemID, string(models.CodeStateIssued),
		).Scan(&active); err != nil {
			return fmt.Errorf("count active codes: %w", err)
		}
		if active > 0 {
			return transferdomain.ErrDuplicateActiveCode
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO transfer_codes (token, item_id, owner, recipient, state, created_at, expires_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			code.Token, code.ItemID, code.Owner.Hex(), code.Recipient.Hex(),
			string(code.State), code.CreatedAt, code.ExpiresAt,
		); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return transferdomain.ErrDuplicateActiveCode
			}
			return fmt.Errorf("insert transfer code: %w", err)
		}

		if err := setItemState(ctx, tx, code.ItemID, ledgermodels.ItemStateTransferPending); err != nil {
			return err
		}
		return r.publish(tx, domainevents.TopicCodeGenerated, domainevents.TransferEvent{
			EventID:    uuid.New(),
			Version:    1,
			ItemID:     code.ItemID,
			From:       code.Owner.Hex(),
			To:         code.Recipient.Hex(),
			Kind:       domainevents.KindCodeGenerated,
			Token:      &code.Token,
			OccurredAt: code.CreatedAt,
		})
	})
}

// Revoke cancels an unconsumed code on behalf of its origin owner.
func (r *CodeRepository) Revoke(ctx context.Context, token string, requester identity.Address) (*models.TransferCode, error) {
	var revoked *models.TransferCode
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		code, err := lockCode(ctx, tx, token)
		if err != nil {
			return err
		}
		if code.Owner != requester {
			return transferdomain.ErrUnauthorized
		}
		if code.State != models.CodeStateIssued {
			return transferdomain.ErrCodeNotActive
		}
		if _, err := lockItem(ctx, tx, code.ItemID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE transfer_codes SET state = $1 WHERE token = $2`,
			string(models.CodeStateRevoked), token,
		); err != nil {
			return fmt.Errorf("revoke transfer code: %w", err)
		}
		code.State = models.CodeStateRevoked

		if err := setItemState(ctx, tx, code.ItemID, ledgermodels.ItemStateOwned); err != nil {
			return err
		}
		revoked = code
		return r.publish(tx, domainevents.TopicCodeRevoked, domainevents.TransferEvent{
			EventID:    uuid.New(),
			Version:    1,
			ItemID:     code.ItemID,
			From:       code.Owner.Hex(),
			To:         code.Recipient.Hex(),
			Kind:       domainevents.KindCodeRevoked,
			OccurredAt: time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}
	return revoked, nil
}

// Redeem consumes an active, unexpired code and reassigns the item to the
// claimant, all under the item lock.
func (r *CodeRepository) Redeem(ctx context.Context, token string, claimant identity.Address, now time.Time) (*models.TransferCode, error) {
	var redeemed *models.TransferCode
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		code, err := lockCode(ctx, tx, token)
		if err != nil {
			return err
		}
		if code.State != models.CodeStateIssued {
			return transferdomain.ErrCodeNotActive
		}
		if code.ExpiredAt(now) {
			return transferdomain.ErrCodeExpired
		}
		if code.Recipient != claimant {
			return transferdomain.ErrWrongRecipient
		}
		owner, err := lockItem(ctx, tx, code.ItemID)
		if err != nil {
			return err
		}
		// A code minted by a previous owner is dead regardless of its state.
		if owner != code.Owner {
			return transferdomain.ErrCodeNotActive
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE transfer_codes SET state = $1 WHERE token = $2`,
			string(models.CodeStateRedeemed), token,
		); err != nil {
			return fmt.Errorf("redeem transfer code: %w", err)
		}
		code.State = models.CodeStateRedeemed

		if _, err := tx.ExecContext(ctx, `
			UPDATE items SET owner = $1 WHERE item_id = $2`,
			claimant.Hex(), code.ItemID,
		); err != nil {
			return fmt.Errorf("reassign item owner: %w", err)
		}
		if err := setItemState(ctx, tx, code.ItemID, ledgermodels.ItemStateOwned); err != nil {
			return err
		}
		redeemed = code
		return r.publish(tx, domainevents.TopicCodeRedeemed, domainevents.TransferEvent{
			EventID:    uuid.New(),
			Version:    1,
			ItemID:     code.ItemID,
			From:       code.Owner.Hex(),
			To:         code.Recipient.Hex(),
			Kind:       domainevents.KindCodeRedeemed,
			OccurredAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return redeemed, nil
}

// FindByItem lists all codes ever issued for an item, newest first.
func (r *CodeRepository) FindByItem(ctx context.Context, itemID string) ([]*models.TransferCode, error) {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT token, item_id, owner, recipient, state, created_at, expires_at
		FROM transfer_codes
		WHERE item_id = $1
		ORDER BY created_at DESC`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("query transfer codes: %w", err)
	}
	defer rows.Close()

	codes := []*models.TransferCode{}
	for rows.Next() {
		code, err := scanCode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer code: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfer codes: %w", err)
	}
	return codes, nil
}

func (r *CodeRepository) publish(tx *sql.Tx, topic string, event domainevents.TransferEvent) error {
	if r.bus == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", event.EventID.String())
	msg.Metadata.Set("event_version", "1")
	p, err := r.bus.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	return p.Publish(topic, msg)
}

// lockItem takes the per-item row lock and returns the current owner. All
// transfer mutations and ownership reassignments pass through this lock.
func lockItem(ctx context.Context, tx *sql.Tx, itemID string) (identity.Address, error) {
	var ownerHex string
	err := tx.QueryRowContext(ctx, `
		SELECT owner FROM items WHERE item_id = $1 FOR UPDATE`,
		itemID,
	).Scan(&ownerHex)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return identity.Address{}, ledgerdomain.ErrItemNotFound
		}
		return identity.Address{}, fmt.Errorf("lock item: %w", err)
	}
	owner, err := identity.ParseAddress(ownerHex)
	if err != nil {
		return identity.Address{}, fmt.Errorf("parse stored owner: %w", err)
	}
	return owner, nil
}

func lockCode(ctx context.Context, tx *sql.Tx, token string) (*models.TransferCode, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT token, item_id, owner, recipient, state, created_at, expires_at
		FROM transfer_codes
		WHERE token = $1
		FOR UPDATE`,
		token,
	)
	code, err := scanCode(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transferdomain.ErrCodeNotActive
		}
		return nil, fmt.Errorf("lock transfer code: %w", err)
	}
	return code, nil
}

func setItemState(ctx context.Context, tx *sql.Tx, itemID string, state ledgermodels.ItemState) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE items SET state = $1 WHERE item_id = $2`,
		string(state), itemID,
	); err != nil {
		return fmt.Errorf("update item state: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCode(row rowScanner) (*models.TransferCode, error) {
	var (
		code         models.TransferCode
		ownerHex     string
		recipientHex string
		state        string
	)
	if err := row.Scan(
		&code.Token, &code.ItemID, &ownerHex, &recipientHex,
		&state, &code.CreatedAt, &code.ExpiresAt,
	); err != nil {
		return nil, err
	}
	owner, err := identity.ParseAddress(ownerHex)
	if err != nil {
		return nil, fmt.Errorf("parse stored owner: %w", err)
	}
	recipient, err := identity.ParseAddress(recipientHex)
	if err != nil {
		return nil, fmt.Errorf("parse stored recipient: %w", err)
	}
	code.Owner = owner
	code.Recipient = recipient
	code.State = models.CodeState(state)
	return &code, nil
}
