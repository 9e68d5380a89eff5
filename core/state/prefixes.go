package state

import "encoding/binary"

// Raw storage preimages per record namespace. The manager hashes these with
// keccak256 before they reach the backend; the preimages keep one
// variable-length component at most, always last, so the mapping from record
// identity to storage key stays injective.
var (
	accountPrefix = []byte("account:")
	dealPrefix    = []byte("deal-record:")
	couponPrefix  = []byte("coupon-record:")
	ratingPrefix  = []byte("rating-record:")
	commentPrefix = []byte("comment-record:")
	listingPrefix = []byte("listing-record:")
	stakedPrefix  = []byte("staked-record:")
	assetPrefix   = []byte("asset-record:")

	rewardsPoolKey   = []byte("rewards-pool")
	assetSequenceKey = []byte("asset-sequence")
)

func prefixedID(prefix []byte, id [32]byte) []byte {
	buf := make([]byte, len(prefix)+len(id))
	copy(buf, prefix)
	copy(buf[len(prefix):], id[:])
	return buf
}

func prefixedAddr(prefix []byte, addr [20]byte) []byte {
	buf := make([]byte, len(prefix)+len(addr))
	copy(buf, prefix)
	copy(buf[len(prefix):], addr[:])
	return buf
}

func prefixedUint64(prefix []byte, n uint64) []byte {
	buf := make([]byte, len(prefix)+8)
	copy(buf, prefix)
	binary.LittleEndian.PutUint64(buf[len(prefix):], n)
	return buf
}
