package deals

import (
	"encoding/hex"
	"strconv"

	"dealchain/core/types"
)

const (
	// EventTypeDealCreated is emitted when a merchant registers a new deal.
	EventTypeDealCreated = "deals.created"
	// EventTypeDealUpdated is emitted when a merchant mutates the active
	// flag or price of an existing deal.
	EventTypeDealUpdated = "deals.updated"
)

type dealEvent struct {
	evt *types.Event
}

func (e *dealEvent) EventType() string {
	if e == nil || e.evt == nil {
		return ""
	}
	return e.evt.Type
}

// Event exposes the canonical payload for subscribers.
func (e *dealEvent) Event() *types.Event {
	if e == nil {
		return nil
	}
	return e.evt
}

func newDealEvent(eventType string, d *Deal) *dealEvent {
	attrs := make(map[string]string)
	if d != nil {
		attrs["id"] = hex.EncodeToString(d.ID[:])
		attrs["merchant"] = hex.EncodeToString(d.Merchant[:])
		attrs["title"] = d.Title
		attrs["category"] = d.Category
		attrs["discountPercent"] = strconv.FormatUint(uint64(d.DiscountPercent), 10)
		attrs["maxSupply"] = strconv.FormatUint(d.MaxSupply, 10)
		attrs["currentSupply"] = strconv.FormatUint(d.CurrentSupply, 10)
		attrs["expiry"] = strconv.FormatInt(d.Expiry, 10)
		attrs["active"] = strconv.FormatBool(d.Active)
		if d.Price != nil {
			attrs["price"] = d.Price.String()
		}
	}
	return &dealEvent{evt: &types.Event{Type: eventType, Attributes: attrs}}
}
