package coupons

import (
	"encoding/hex"
	"strconv"

	"dealchain/core/types"
)

const (
	// EventTypeCouponMinted is emitted when a coupon is issued against a deal.
	EventTypeCouponMinted = "coupons.minted"
	// EventTypeCouponRedeemed is emitted when the merchant redeems a coupon.
	EventTypeCouponRedeemed = "coupons.redeemed"
	// EventTypeCouponTransferred is emitted on a gift transfer.
	EventTypeCouponTransferred = "coupons.transferred"
)

type couponEvent struct {
	evt *types.Event
}

func (e *couponEvent) EventType() string {
	if e == nil || e.evt == nil {
		return ""
	}
	return e.evt.Type
}

// Event exposes the canonical payload for subscribers.
func (e *couponEvent) Event() *types.Event {
	if e == nil {
		return nil
	}
	return e.evt
}

func newCouponEvent(eventType string, c *Coupon) *couponEvent {
	attrs := make(map[string]string)
	if c != nil {
		attrs["id"] = hex.EncodeToString(c.ID[:])
		attrs["deal"] = hex.EncodeToString(c.Deal[:])
		attrs["owner"] = hex.EncodeToString(c.Owner[:])
		attrs["asset"] = hex.EncodeToString(c.Asset[:])
		attrs["serial"] = strconv.FormatUint(c.Serial, 10)
		attrs["redeemed"] = strconv.FormatBool(c.Redeemed)
		attrs["mintedAt"] = strconv.FormatInt(c.MintedAt, 10)
		if c.Redeemed {
			attrs["redeemedAt"] = strconv.FormatInt(c.RedeemedAt, 10)
		}
	}
	return &couponEvent{evt: &types.Event{Type: eventType, Attributes: attrs}}
}
