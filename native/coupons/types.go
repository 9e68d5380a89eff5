package coupons

import (
	"encoding/binary"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// MaxMetadataURILength bounds the caller-supplied metadata URI attached to a
// freshly issued coupon asset.
const MaxMetadataURILength = 200

// MetadataSymbol is the fixed symbol attached to every coupon asset.
const MetadataSymbol = "DEAL"

var couponPrefix = []byte("coupon:")

// Coupon is a unique, ownable, one-time-redeemable token minted against a
// deal. Serial records the deal supply counter at mint time and doubles as the
// identifier salt, so two mints against the same deal can never collide.
type Coupon struct {
	ID         [32]byte
	Deal       [32]byte
	Owner      [20]byte
	Asset      [32]byte
	Serial     uint64
	Redeemed   bool
	MintedAt   int64
	RedeemedAt int64
}

// CouponID derives the deterministic record identifier for the coupon minted
// at the given supply position of a deal.
func CouponID(deal [32]byte, serial uint64) [32]byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], serial)
	return ethcrypto.Keccak256Hash(couponPrefix, deal[:], buf[:])
}

// MetadataName formats the display name attached to the coupon asset. Serials
// are zero-based internally but presented one-based to users.
func MetadataName(title string, serial uint64) string {
	return fmt.Sprintf("%s - Coupon #%d", title, serial+1)
}

// Clone returns a copy of the coupon safe for caller mutation.
func (c *Coupon) Clone() *Coupon {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
