package core

import (
	"math/big"

	"dealchain/native/coupons"
	"dealchain/native/deals"
	"dealchain/native/feedback"
	"dealchain/native/market"
	"dealchain/native/staking"
)

// Read-only accessors. Queries never open a transition; they observe the last
// committed state.

// GetDeal loads a deal by identifier.
func (p *Processor) GetDeal(id [32]byte) (*deals.Deal, bool, error) {
	return p.manager.DealGet(id)
}

// GetCoupon loads a coupon by identifier.
func (p *Processor) GetCoupon(id [32]byte) (*coupons.Coupon, bool, error) {
	return p.manager.CouponGet(id)
}

// GetListing loads the listing slot for a coupon.
func (p *Processor) GetListing(couponID [32]byte) (*market.Listing, bool, error) {
	return p.manager.ListingGet(market.ListingID(couponID))
}

// GetRating loads a user's rating for a deal.
func (p *Processor) GetRating(dealID [32]byte, user [20]byte) (*feedback.Rating, bool, error) {
	return p.manager.RatingGet(feedback.RatingID(dealID, user))
}

// GetRewardsPool loads the singleton staking pool.
func (p *Processor) GetRewardsPool() (*staking.RewardsPool, bool, error) {
	return p.manager.PoolGet()
}

// GetStakedCoupon loads the stake record for a coupon.
func (p *Processor) GetStakedCoupon(couponID [32]byte) (*staking.StakedCoupon, bool, error) {
	return p.manager.StakedGet(staking.StakedID(couponID))
}

// Balance returns the fungible balance of an address.
func (p *Processor) Balance(addr [20]byte) (*big.Int, error) {
	return p.manager.Balance(addr)
}
