package state

import (
	"fmt"

	"dealchain/native/feedback"
)

type storedRating struct {
	ID        [32]byte
	Deal      [32]byte
	User      [20]byte
	Rating    uint8
	CreatedAt uint64
	UpdatedAt uint64
}

type storedComment struct {
	ID        [32]byte
	Deal      [32]byte
	Author    [20]byte
	Content   string
	CreatedAt uint64
}

// RatingPut persists a rating record, overwriting any previous vote by the
// same user.
func (m *Manager) RatingPut(rating *feedback.Rating) error {
	if rating == nil {
		return fmt.Errorf("state: nil rating")
	}
	return m.kvPut(prefixedID(ratingPrefix, rating.ID), &storedRating{
		ID:        rating.ID,
		Deal:      rating.Deal,
		User:      rating.User,
		Rating:    rating.Rating,
		CreatedAt: uint64(rating.CreatedAt),
		UpdatedAt: uint64(rating.UpdatedAt),
	})
}

// RatingGet loads a rating record by identifier.
func (m *Manager) RatingGet(id [32]byte) (*feedback.Rating, bool, error) {
	stored := new(storedRating)
	ok, err := m.kvGet(prefixedID(ratingPrefix, id), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &feedback.Rating{
		ID:        stored.ID,
		Deal:      stored.Deal,
		User:      stored.User,
		Rating:    stored.Rating,
		CreatedAt: int64(stored.CreatedAt),
		UpdatedAt: int64(stored.UpdatedAt),
	}, true, nil
}

// CommentPut persists an immutable comment record.
func (m *Manager) CommentPut(comment *feedback.Comment) error {
	if comment == nil {
		return fmt.Errorf("state: nil comment")
	}
	return m.kvPut(prefixedID(commentPrefix, comment.ID), &storedComment{
		ID:        comment.ID,
		Deal:      comment.Deal,
		Author:    comment.Author,
		Content:   comment.Content,
		CreatedAt: uint64(comment.CreatedAt),
	})
}

// CommentHas reports whether a comment record exists.
func (m *Manager) CommentHas(id [32]byte) (bool, error) {
	return m.kvHas(prefixedID(commentPrefix, id))
}

// CommentGet loads a comment record by identifier.
func (m *Manager) CommentGet(id [32]byte) (*feedback.Comment, bool, error) {
	stored := new(storedComment)
	ok, err := m.kvGet(prefixedID(commentPrefix, id), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &feedback.Comment{
		ID:        stored.ID,
		Deal:      stored.Deal,
		Author:    stored.Author,
		Content:   stored.Content,
		CreatedAt: int64(stored.CreatedAt),
	}, true, nil
}
