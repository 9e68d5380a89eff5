package state

import (
	"fmt"
	"math/big"

	"dealchain/native/market"
)

type storedListing struct {
	ID        [32]byte
	Coupon    [32]byte
	Seller    [20]byte
	Price     *big.Int
	Active    bool
	CreatedAt uint64
}

// ListingPut persists a listing record.
func (m *Manager) ListingPut(listing *market.Listing) error {
	if listing == nil {
		return fmt.Errorf("state: nil listing")
	}
	if listing.Price == nil || listing.Price.Sign() < 0 {
		return fmt.Errorf("state: listing price must be non-negative")
	}
	return m.kvPut(prefixedID(listingPrefix, listing.ID), &storedListing{
		ID:        listing.ID,
		Coupon:    listing.Coupon,
		Seller:    listing.Seller,
		Price:     listing.Price,
		Active:    listing.Active,
		CreatedAt: uint64(listing.CreatedAt),
	})
}

// ListingGet loads a listing record by identifier.
func (m *Manager) ListingGet(id [32]byte) (*market.Listing, bool, error) {
	stored := new(storedListing)
	ok, err := m.kvGet(prefixedID(listingPrefix, id), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	price := big.NewInt(0)
	if stored.Price != nil {
		price = stored.Price
	}
	return &market.Listing{
		ID:        stored.ID,
		Coupon:    stored.Coupon,
		Seller:    stored.Seller,
		Price:     price,
		Active:    stored.Active,
		CreatedAt: int64(stored.CreatedAt),
	}, true, nil
}
