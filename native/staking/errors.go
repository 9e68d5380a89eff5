package staking

import "errors"

var (
	ErrPoolExists       = errors.New("staking: rewards pool already initialized")
	ErrPoolNotFound     = errors.New("staking: rewards pool not initialized")
	ErrInvalidRate      = errors.New("staking: reward rate must be non-negative")
	ErrCouponNotFound   = errors.New("staking: coupon not found")
	ErrAlreadyRedeemed  = errors.New("staking: coupon already redeemed")
	ErrNotOwner         = errors.New("staking: caller is not the owner")
	ErrAlreadyStaked    = errors.New("staking: coupon already staked")
	ErrNotStaked        = errors.New("staking: coupon is not staked")
	ErrNoRewardsToClaim = errors.New("staking: no rewards to claim")
	ErrCounterOverflow  = errors.New("staking: stake counter overflow")
)
