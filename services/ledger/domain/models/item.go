package models

import (
	"time"

	"github.com/ghuser/trueauth/pkg/identity"
)

// ItemState is the lifecycle state of an item record.
type ItemState string

const (
	// ItemStateOwned is the rest state: the item has exactly one owner and
	// no active transfer code.
	ItemStateOwned ItemState = "owned"

	// ItemStateTransferPending means an active transfer code exists for the
	// item. Entered and exited only through the transfer-code operations.
	ItemStateTransferPending ItemState = "transfer_pending"
)

// Item is the authoritative ownership record for one physical item, keyed by
// the certificate's unique identifier. Items are created only by a successful
// claim — a certificate may exist with no item record (unclaimed).
type Item struct {
	ItemID       string
	Name         string
	Serial       string
	Date         int64
	Owner        identity.Address
	Manufacturer identity.Address
	Metadata     []string
	State        ItemState
	ClaimedAt    time.Time
}

// NewClaimedItem constructs the item record produced by a successful claim.
func NewClaimedItem(cert Certificate, manufacturer, owner identity.Address) *Item {
	return &Item{
		ItemID:       cert.UniqueID,
		Name:         cert.Name,
		Serial:       cert.Serial,
		Date:         cert.Date,
		Owner:        owner,
		Manufacturer: manufacturer,
		Metadata:     cert.Metadata,
		State:        ItemStateOwned,
		ClaimedAt:    time.Now().UTC(),
	}
}
