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
	domainevents "github.com/ghuser/trueauth/services/ledger/domain/events"
	"github.com/ghuser/trueauth/services/ledger/domain/models"
	"github.com/ghuser/trueauth/services/ledger/domain/repositories"
)

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
// The primary key on item_id carries the claim-once guarantee; a claim and
// its ItemClaimedEvent commit in one transaction through the outbox.
type ItemRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewItemRepository returns an ItemRepository backed by the given connection
// pool and event bus. The bus publishes ItemClaimedEvents after a successful
// claim.
func NewItemRepository(database *database.Database, bus *events.EventBus) *ItemRepository {
	return &ItemRepository{db: database, bus: bus}
}

// CreateClaimed inserts a freshly claimed item and publishes the claim fact
// within the same transaction. Returns ErrItemAlreadyClaimed when a record
// for the item id already exists.
func (r *ItemRepository) CreateClaimed(ctx context.Context, item *models.Item) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		metadata, err := json.Marshal(item.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO items (item_id, name, serial, date, owner, manufacturer, metadata, state, claimed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			item.ItemID, item.Name, item.Serial, item.Date,
			item.Owner.Hex(), item.Manufacturer.Hex(), metadata,
			string(item.State), item.ClaimedAt,
		); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return ledgerdomain.ErrItemAlreadyClaimed
			}
			return fmt.Errorf("insert item: %w", err)
		}

		if r.bus != nil {
			if err := r.publishClaimed(tx, item); err != nil {
				return fmt.Errorf("publish item claimed: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves an item record. Returns ErrItemNotFound if absent.
func (r *ItemRepository) GetByID(ctx context.Context, itemID string) (*models.Item, error) {
	row := r.db.DB().QueryRowContext(ctx, `
		SELECT item_id, name, serial, date, owner, manufacturer, metadata, state, claimed_at
		FROM items
		WHERE item_id = $1`,
		itemID,
	)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledgerdomain.ErrItemNotFound
		}
		return nil, fmt.Errorf("query item: %w", err)
	}
	return item, nil
}

// FindByOwner retrieves a paginated list of items currently owned by the
// identity, newest claim first, together with the total count.
func (r *ItemRepository) FindByOwner(ctx context.Context, owner identity.Address, opts repositories.QueryOpts) ([]*models.Item, int, error) {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT item_id, name, serial, date, owner, manufacturer, metadata, state, claimed_at
		FROM items
		WHERE owner = $1
		ORDER BY claimed_at DESC
		LIMIT $2 OFFSET $3`,
		owner.Hex(), opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := []*models.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate items: %w", err)
	}

	var total int
	if err := r.db.DB().QueryRowContext(ctx, `
		SELECT COUNT(*) FROM items WHERE owner = $1`,
		owner.Hex(),
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}
	return items, total, nil
}

func (r *ItemRepository) publishClaimed(tx *sql.Tx, item *models.Item) error {
	event := domainevents.ItemClaimedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ItemID:     item.ItemID,
		To:         item.Owner.Hex(),
		Kind:       domainevents.KindItemClaimed,
		OccurredAt: item.ClaimedAt,
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
	return p.Publish(domainevents.TopicItemClaimed, msg)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var (
		item            models.Item
		ownerHex        string
		manufacturerHex string
		metadata        []byte
		state           string
		claimedAt       time.Time
	)
	if err := row.Scan(
		&item.ItemID, &item.Name, &item.Serial, &item.Date,
		&ownerHex, &manufacturerHex, &metadata, &state, &claimedAt,
	); err != nil {
		return nil, err
	}

	owner, err := identity.ParseAddress(ownerHex)
	if err != nil {
		return nil, fmt.Errorf("parse stored owner: %w", err)
	}
	manufacturer, err := identity.ParseAddress(manufacturerHex)
	if err != nil {
		return nil, fmt.Errorf("parse stored manufacturer: %w", err)
	}
	if err := json.Unmarshal(metadata, &item.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	item.Owner = owner
	item.Manufacturer = manufacturer
	item.State = models.ItemState(state)
	item.ClaimedAt = claimedAt
	return &item, nil
}
