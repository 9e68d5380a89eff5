package feedback

import "errors"

var (
	ErrInvalidRating    = errors.New("feedback: rating must be between 1 and 5")
	ErrDealNotFound     = errors.New("feedback: deal not found")
	ErrCommentTooLong   = errors.New("feedback: comment exceeds 500 characters")
	ErrEmptyComment     = errors.New("feedback: comment must not be empty")
	ErrInvalidTimestamp = errors.New("feedback: timestamp must be positive")
	ErrCommentExists    = errors.New("feedback: comment already exists for this timestamp")
	ErrCounterOverflow  = errors.New("feedback: rating counter overflow")
)
