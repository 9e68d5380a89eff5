package feedback

import (
	"encoding/binary"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

const (
	// MinRating and MaxRating bound the accepted star values.
	MinRating = 1
	MaxRating = 5
	// MaxCommentLength bounds the comment body.
	MaxCommentLength = 500
)

var (
	ratingPrefix  = []byte("rating:")
	commentPrefix = []byte("comment:")
)

// Rating records one user's star vote for a deal. There is exactly one record
// per (deal, user) pair; re-votes update it in place.
type Rating struct {
	ID        [32]byte
	Deal      [32]byte
	User      [20]byte
	Rating    uint8
	CreatedAt int64
	UpdatedAt int64
}

// Comment is an immutable remark attached to a deal. The author-supplied
// timestamp is part of the identity, so an author can post many comments as
// long as the timestamps differ.
type Comment struct {
	ID        [32]byte
	Deal      [32]byte
	Author    [20]byte
	Content   string
	CreatedAt int64
}

// RatingID derives the record identifier for a (deal, user) rating.
func RatingID(deal [32]byte, user [20]byte) [32]byte {
	return ethcrypto.Keccak256Hash(ratingPrefix, deal[:], user[:])
}

// CommentID derives the record identifier for a (deal, author, timestamp)
// comment.
func CommentID(deal [32]byte, author [20]byte, timestamp int64) [32]byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(timestamp))
	return ethcrypto.Keccak256Hash(commentPrefix, deal[:], author[:], buf[:])
}

// Clone returns a copy of the rating safe for caller mutation.
func (r *Rating) Clone() *Rating {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

// Clone returns a copy of the comment safe for caller mutation.
func (c *Comment) Clone() *Comment {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
