package feedback

import (
	"errors"
	"math"
	"strings"
	"time"

	"dealchain/core/events"
	"dealchain/native/deals"
)

var errNilState = errors.New("feedback engine: state not configured")

type engineState interface {
	DealGet(id [32]byte) (*deals.Deal, bool, error)
	DealPut(*deals.Deal) error
	RatingGet(id [32]byte) (*Rating, bool, error)
	RatingPut(*Rating) error
	CommentHas(id [32]byte) (bool, error)
	CommentPut(*Comment) error
}

// Engine implements deal ratings and comments.
//
// Re-votes use upsert semantics: the previous star value is subtracted from
// the deal's rating sum and the new one added, and the rating count is only
// incremented for a genuinely new record. The aggregate therefore always
// equals the sum over live rating records, no matter how often a user votes.
type Engine struct {
	state   engineState
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine creates a feedback engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEmitter configures the event emitter. Passing nil resets to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source, primarily for deterministic tests.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) emit(evt *feedbackEvent) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

func addUint64(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrCounterOverflow
	}
	return a + b, nil
}

// RateDeal records or updates the caller's star rating for a deal and keeps
// the deal's aggregate counters consistent.
func (e *Engine) RateDeal(user [20]byte, dealID [32]byte, rating uint8) (*Rating, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if rating < MinRating || rating > MaxRating {
		return nil, ErrInvalidRating
	}
	deal, ok, err := e.state.DealGet(dealID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDealNotFound
	}
	now := e.now()
	id := RatingID(dealID, user)
	existing, found, err := e.state.RatingGet(id)
	if err != nil {
		return nil, err
	}
	record := &Rating{
		ID:        id,
		Deal:      dealID,
		User:      user,
		Rating:    rating,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if found {
		// Upsert: swap the old contribution for the new one.
		if deal.RatingSum < uint64(existing.Rating) {
			return nil, ErrCounterOverflow
		}
		deal.RatingSum -= uint64(existing.Rating)
		if deal.RatingSum, err = addUint64(deal.RatingSum, uint64(rating)); err != nil {
			return nil, err
		}
		record.CreatedAt = existing.CreatedAt
	} else {
		if deal.TotalRatings, err = addUint64(deal.TotalRatings, 1); err != nil {
			return nil, err
		}
		if deal.RatingSum, err = addUint64(deal.RatingSum, uint64(rating)); err != nil {
			return nil, err
		}
	}
	if err := e.state.RatingPut(record); err != nil {
		return nil, err
	}
	if err := e.state.DealPut(deal); err != nil {
		return nil, err
	}
	e.emit(newRatingEvent(record, deal))
	return record.Clone(), nil
}

// AddComment attaches an immutable comment to a deal. A second comment from
// the same author at the same timestamp is rejected rather than overwritten.
func (e *Engine) AddComment(author [20]byte, dealID [32]byte, timestamp int64, content string) (*Comment, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if len(content) > MaxCommentLength {
		return nil, ErrCommentTooLong
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyComment
	}
	if timestamp <= 0 {
		return nil, ErrInvalidTimestamp
	}
	if _, ok, err := e.state.DealGet(dealID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrDealNotFound
	}
	id := CommentID(dealID, author, timestamp)
	exists, err := e.state.CommentHas(id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCommentExists
	}
	comment := &Comment{
		ID:        id,
		Deal:      dealID,
		Author:    author,
		Content:   content,
		CreatedAt: timestamp,
	}
	if err := e.state.CommentPut(comment); err != nil {
		return nil, err
	}
	e.emit(newCommentEvent(comment))
	return comment.Clone(), nil
}
