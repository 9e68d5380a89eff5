package state

import (
	"fmt"

	"dealchain/native/coupons"
)

type storedCoupon struct {
	ID         [32]byte
	Deal       [32]byte
	Owner      [20]byte
	Asset      [32]byte
	Serial     uint64
	Redeemed   bool
	MintedAt   uint64
	RedeemedAt uint64
}

// CouponPut persists a coupon record.
func (m *Manager) CouponPut(coupon *coupons.Coupon) error {
	if coupon == nil {
		return fmt.Errorf("state: nil coupon")
	}
	return m.kvPut(prefixedID(couponPrefix, coupon.ID), &storedCoupon{
		ID:         coupon.ID,
		Deal:       coupon.Deal,
		Owner:      coupon.Owner,
		Asset:      coupon.Asset,
		Serial:     coupon.Serial,
		Redeemed:   coupon.Redeemed,
		MintedAt:   uint64(coupon.MintedAt),
		RedeemedAt: uint64(coupon.RedeemedAt),
	})
}

// CouponGet loads a coupon record by identifier.
func (m *Manager) CouponGet(id [32]byte) (*coupons.Coupon, bool, error) {
	stored := new(storedCoupon)
	ok, err := m.kvGet(prefixedID(couponPrefix, id), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &coupons.Coupon{
		ID:         stored.ID,
		Deal:       stored.Deal,
		Owner:      stored.Owner,
		Asset:      stored.Asset,
		Serial:     stored.Serial,
		Redeemed:   stored.Redeemed,
		MintedAt:   int64(stored.MintedAt),
		RedeemedAt: int64(stored.RedeemedAt),
	}, true, nil
}
