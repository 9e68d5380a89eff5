package state

import (
	"math/big"

	"dealchain/native/deals"
)

type storedDeal struct {
	ID              [32]byte
	Merchant        [20]byte
	Title           string
	Description     string
	DiscountPercent uint8
	MaxSupply       uint64
	CurrentSupply   uint64
	Expiry          uint64
	Category        string
	Price           *big.Int
	Active          bool
	TotalRatings    uint64
	RatingSum       uint64
	CreatedAt       uint64
}

// DealPut validates and persists a deal record.
func (m *Manager) DealPut(deal *deals.Deal) error {
	sanitized, err := deals.SanitizeDeal(deal)
	if err != nil {
		return err
	}
	return m.kvPut(prefixedID(dealPrefix, sanitized.ID), &storedDeal{
		ID:              sanitized.ID,
		Merchant:        sanitized.Merchant,
		Title:           sanitized.Title,
		Description:     sanitized.Description,
		DiscountPercent: sanitized.DiscountPercent,
		MaxSupply:       sanitized.MaxSupply,
		CurrentSupply:   sanitized.CurrentSupply,
		Expiry:          uint64(sanitized.Expiry),
		Category:        sanitized.Category,
		Price:           sanitized.Price,
		Active:          sanitized.Active,
		TotalRatings:    sanitized.TotalRatings,
		RatingSum:       sanitized.RatingSum,
		CreatedAt:       uint64(sanitized.CreatedAt),
	})
}

// DealGet loads a deal record by identifier.
func (m *Manager) DealGet(id [32]byte) (*deals.Deal, bool, error) {
	stored := new(storedDeal)
	ok, err := m.kvGet(prefixedID(dealPrefix, id), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	price := big.NewInt(0)
	if stored.Price != nil {
		price = stored.Price
	}
	return &deals.Deal{
		ID:              stored.ID,
		Merchant:        stored.Merchant,
		Title:           stored.Title,
		Description:     stored.Description,
		DiscountPercent: stored.DiscountPercent,
		MaxSupply:       stored.MaxSupply,
		CurrentSupply:   stored.CurrentSupply,
		Expiry:          int64(stored.Expiry),
		Category:        stored.Category,
		Price:           price,
		Active:          stored.Active,
		TotalRatings:    stored.TotalRatings,
		RatingSum:       stored.RatingSum,
		CreatedAt:       int64(stored.CreatedAt),
	}, true, nil
}
