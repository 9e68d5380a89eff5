package market

import "errors"

var (
	ErrInvalidPrice    = errors.New("market: price must be positive")
	ErrCouponNotFound  = errors.New("market: coupon not found")
	ErrAlreadyRedeemed = errors.New("market: coupon already redeemed")
	ErrNotOwner        = errors.New("market: caller is not the owner")
	ErrCouponStaked    = errors.New("market: coupon is staked")
	ErrListingExists   = errors.New("market: coupon already has an active listing")
	ErrListingNotFound = errors.New("market: listing not found")
	ErrListingInactive = errors.New("market: listing is not active")
	ErrInvalidListing  = errors.New("market: listing seller no longer owns the coupon")
	ErrSelfPurchase    = errors.New("market: cannot buy own listing")
)
