package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicItemClaimed is the Watermill topic published when an item is claimed
// for the first time.
const TopicItemClaimed = "ledger.item.claimed"

// ItemClaimedEvent is the fact record emitted after a successful claim. The
// notification collaborator consumes it; ledger state never depends on it.
// From is empty on first claim — there is no previous owner.
type ItemClaimedEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	ItemID     string    `json:"item_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
}

// KindItemClaimed is the eventKind value carried in ItemClaimedEvent.
const KindItemClaimed = "item_claimed"
