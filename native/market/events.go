package market

import (
	"encoding/hex"
	"strconv"

	"dealchain/core/types"
)

const (
	// EventTypeCouponListed is emitted when a listing opens.
	EventTypeCouponListed = "market.listed"
	// EventTypeCouponSold is emitted when a buyer settles a listing.
	EventTypeCouponSold = "market.sold"
	// EventTypeCouponDelisted is emitted when the seller closes a listing.
	EventTypeCouponDelisted = "market.delisted"
)

type marketEvent struct {
	evt *types.Event
}

func (e *marketEvent) EventType() string {
	if e == nil || e.evt == nil {
		return ""
	}
	return e.evt.Type
}

// Event exposes the canonical payload for subscribers.
func (e *marketEvent) Event() *types.Event {
	if e == nil {
		return nil
	}
	return e.evt
}

func newListingEvent(eventType string, l *Listing, buyer *[20]byte) *marketEvent {
	attrs := make(map[string]string)
	if l != nil {
		attrs["coupon"] = hex.EncodeToString(l.Coupon[:])
		attrs["seller"] = hex.EncodeToString(l.Seller[:])
		attrs["active"] = strconv.FormatBool(l.Active)
		if l.Price != nil {
			attrs["price"] = l.Price.String()
		}
	}
	if buyer != nil {
		attrs["buyer"] = hex.EncodeToString(buyer[:])
		fee, sellerAmount := SplitPrice(l.Price)
		attrs["platformFee"] = fee.String()
		attrs["sellerAmount"] = sellerAmount.String()
	}
	return &marketEvent{evt: &types.Event{Type: eventType, Attributes: attrs}}
}
