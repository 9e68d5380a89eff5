package deals

import "errors"

var (
	ErrInvalidDiscount    = errors.New("deals: discount percent above 100")
	ErrInvalidSupply      = errors.New("deals: max supply must be positive")
	ErrInvalidExpiry      = errors.New("deals: expiry must be in the future")
	ErrInvalidTitle       = errors.New("deals: title empty or too long")
	ErrDescriptionTooLong = errors.New("deals: description too long")
	ErrCategoryTooLong    = errors.New("deals: category too long")
	ErrInvalidPrice       = errors.New("deals: price must be non-negative")
	ErrDealExists         = errors.New("deals: deal already exists")
	ErrDealNotFound       = errors.New("deals: deal not found")
	ErrUnauthorized       = errors.New("deals: caller is not the deal merchant")
)
