package market

import (
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

const (
	// platformFeeNumerator / platformFeeDenominator encode the 2.5% platform
	// cut taken on every sale, floored by integer division.
	platformFeeNumerator   = 25
	platformFeeDenominator = 1000
)

var listingPrefix = []byte("listing:")

// Listing is an offer to sell one coupon at a fixed price. A coupon has at
// most one listing slot: the record is keyed by the coupon identifier, and a
// closed listing may be overwritten by a fresh one.
type Listing struct {
	ID        [32]byte
	Coupon    [32]byte
	Seller    [20]byte
	Price     *big.Int
	Active    bool
	CreatedAt int64
}

// ListingID derives the record identifier for the listing slot of a coupon.
func ListingID(coupon [32]byte) [32]byte {
	return ethcrypto.Keccak256Hash(listingPrefix, coupon[:])
}

// SplitPrice splits a sale price into the platform fee and the seller
// proceeds. The two always sum exactly to the price: the fee is floored and
// the seller receives the remainder.
func SplitPrice(price *big.Int) (fee, seller *big.Int) {
	if price == nil || price.Sign() <= 0 {
		return big.NewInt(0), big.NewInt(0)
	}
	fee = new(big.Int).Mul(price, big.NewInt(platformFeeNumerator))
	fee.Div(fee, big.NewInt(platformFeeDenominator))
	seller = new(big.Int).Sub(price, fee)
	return fee, seller
}

// Clone returns a deep copy of the listing safe for caller mutation.
func (l *Listing) Clone() *Listing {
	if l == nil {
		return nil
	}
	clone := *l
	if l.Price != nil {
		clone.Price = new(big.Int).Set(l.Price)
	} else {
		clone.Price = big.NewInt(0)
	}
	return &clone
}
