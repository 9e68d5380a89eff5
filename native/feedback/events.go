package feedback

import (
	"encoding/hex"
	"strconv"

	"dealchain/core/types"
	"dealchain/native/deals"
)

const (
	// EventTypeDealRated is emitted when a user casts or updates a rating.
	EventTypeDealRated = "feedback.rated"
	// EventTypeCommentAdded is emitted when a comment is attached to a deal.
	EventTypeCommentAdded = "feedback.commented"
)

type feedbackEvent struct {
	evt *types.Event
}

func (e *feedbackEvent) EventType() string {
	if e == nil || e.evt == nil {
		return ""
	}
	return e.evt.Type
}

// Event exposes the canonical payload for subscribers.
func (e *feedbackEvent) Event() *types.Event {
	if e == nil {
		return nil
	}
	return e.evt
}

func newRatingEvent(r *Rating, d *deals.Deal) *feedbackEvent {
	attrs := make(map[string]string)
	if r != nil {
		attrs["deal"] = hex.EncodeToString(r.Deal[:])
		attrs["user"] = hex.EncodeToString(r.User[:])
		attrs["rating"] = strconv.FormatUint(uint64(r.Rating), 10)
	}
	if d != nil {
		attrs["totalRatings"] = strconv.FormatUint(d.TotalRatings, 10)
		attrs["ratingSum"] = strconv.FormatUint(d.RatingSum, 10)
	}
	return &feedbackEvent{evt: &types.Event{Type: EventTypeDealRated, Attributes: attrs}}
}

func newCommentEvent(c *Comment) *feedbackEvent {
	attrs := make(map[string]string)
	if c != nil {
		attrs["deal"] = hex.EncodeToString(c.Deal[:])
		attrs["author"] = hex.EncodeToString(c.Author[:])
		attrs["createdAt"] = strconv.FormatInt(c.CreatedAt, 10)
	}
	return &feedbackEvent{evt: &types.Event{Type: EventTypeCommentAdded, Attributes: attrs}}
}
