package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics for transfer fact records.
const (
	TopicCodeGenerated = "transfer.code.generated"
	TopicCodeRevoked   = "transfer.code.revoked"
	TopicCodeRedeemed  = "transfer.code.redeemed"
)

// eventKind values carried in TransferEvent.
const (
	KindCodeGenerated = "code_generated"
	KindCodeRevoked   = "code_revoked"
	KindCodeRedeemed  = "code_redeemed"
)

// TransferEvent is the fact record emitted after a transfer-code operation
// succeeds: {itemId, from, to, kind, token-or-null}. The notification
// collaborator persists and fans it out; the ledger stays correct if it
// never does — at most a UI notification is lost.
//
// Token is set only on generation: the recipient needs it to redeem. It is
// nil on revoke/redeem records so consumed tokens never travel again.
type TransferEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	ItemID     string    `json:"item_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Kind       string    `json:"kind"`
	Token      *string   `json:"token"`
	OccurredAt time.Time `json:"occurred_at"`
}
