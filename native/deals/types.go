package deals

import (
	"fmt"
	"math/big"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

const (
	// MaxTitleLength bounds the deal title accepted at creation.
	MaxTitleLength = 100
	// MaxDescriptionLength bounds the free-form deal description.
	MaxDescriptionLength = 500
	// MaxCategoryLength bounds the deal category label.
	MaxCategoryLength = 50
)

var dealPrefix = []byte("deal:")

// Deal captures a merchant's time-bounded discount offer with a capped coupon
// issuance count. The identifier is derived from the merchant address and the
// title, so a merchant can never register two deals under the same title.
type Deal struct {
	ID              [32]byte
	Merchant        [20]byte
	Title           string
	Description     string
	DiscountPercent uint8
	MaxSupply       uint64
	CurrentSupply   uint64
	Expiry          int64
	Category        string
	Price           *big.Int
	Active          bool
	TotalRatings    uint64
	RatingSum       uint64
	CreatedAt       int64
}

// DealID derives the deterministic record identifier for a deal. The merchant
// address is fixed-width and the variable-length title is the final preimage
// component, which keeps the derivation injective.
func DealID(merchant [20]byte, title string) [32]byte {
	return ethcrypto.Keccak256Hash(dealPrefix, merchant[:], []byte(title))
}

// Clone returns a deep copy of the deal so callers can mutate the copy without
// affecting the stored instance.
func (d *Deal) Clone() *Deal {
	if d == nil {
		return nil
	}
	clone := *d
	if d.Price != nil {
		clone.Price = new(big.Int).Set(d.Price)
	} else {
		clone.Price = big.NewInt(0)
	}
	return &clone
}

// SanitizeDeal validates field bounds and returns a cloned, normalised deal.
// The original value is never mutated.
func SanitizeDeal(d *Deal) (*Deal, error) {
	if d == nil {
		return nil, fmt.Errorf("deals: nil deal")
	}
	clone := d.Clone()
	clone.Title = strings.TrimSpace(clone.Title)
	clone.Category = strings.TrimSpace(clone.Category)
	if clone.Title == "" || len(clone.Title) > MaxTitleLength {
		return nil, ErrInvalidTitle
	}
	if len(clone.Description) > MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}
	if len(clone.Category) > MaxCategoryLength {
		return nil, ErrCategoryTooLong
	}
	if clone.DiscountPercent > 100 {
		return nil, ErrInvalidDiscount
	}
	if clone.MaxSupply == 0 {
		return nil, ErrInvalidSupply
	}
	if clone.CurrentSupply > clone.MaxSupply {
		return nil, fmt.Errorf("deals: current supply %d exceeds max %d", clone.CurrentSupply, clone.MaxSupply)
	}
	if clone.Price.Sign() < 0 {
		return nil, ErrInvalidPrice
	}
	return clone, nil
}

// CreateParams carries the caller-supplied fields for a new deal.
type CreateParams struct {
	Title           string
	Description     string
	DiscountPercent uint8
	MaxSupply       uint64
	Expiry          int64
	Category        string
	Price           *big.Int
}

// Update describes a partial deal mutation. Nil fields are left untouched; no
// other deal field is mutable after creation.
type Update struct {
	Active *bool
	Price  *big.Int
}
