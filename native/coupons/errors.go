package coupons

import "errors"

var (
	ErrDealNotFound         = errors.New("coupons: deal not found")
	ErrDealInactive         = errors.New("coupons: deal is not active")
	ErrMaxSupplyReached     = errors.New("coupons: maximum supply reached")
	ErrDealExpired          = errors.New("coupons: deal has expired")
	ErrCouponNotFound       = errors.New("coupons: coupon not found")
	ErrAlreadyRedeemed      = errors.New("coupons: coupon already redeemed")
	ErrNotOwner             = errors.New("coupons: caller does not own the coupon")
	ErrUnauthorizedMerchant = errors.New("coupons: caller is not the deal merchant")
	ErrCouponStaked         = errors.New("coupons: coupon is staked")
	ErrInvalidRecipient     = errors.New("coupons: invalid transfer recipient")
	ErrMetadataURITooLong   = errors.New("coupons: metadata uri too long")
)
