package deals

import (
	"errors"
	"math/big"
	"time"

	"dealchain/core/events"
)

var errNilState = errors.New("deals engine: state not configured")

type engineState interface {
	DealPut(*Deal) error
	DealGet(id [32]byte) (*Deal, bool, error)
}

// Engine implements the deal registry transitions. State access and event
// emission are pluggable so the engine can run against the ledger manager in
// production and lightweight mocks in tests.
type Engine struct {
	state   engineState
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine creates a deal registry engine with a no-op emitter.
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

func (e *Engine) emit(evt *dealEvent) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

// Create registers a new deal for the calling merchant. The caller becomes the
// deal's merchant; the supply counter starts at zero and the deal is active.
func (e *Engine) Create(merchant [20]byte, params CreateParams) (*Deal, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if params.DiscountPercent > 100 {
		return nil, ErrInvalidDiscount
	}
	if params.MaxSupply == 0 {
		return nil, ErrInvalidSupply
	}
	now := e.now()
	if params.Expiry <= now {
		return nil, ErrInvalidExpiry
	}
	price := big.NewInt(0)
	if params.Price != nil {
		price = new(big.Int).Set(params.Price)
	}
	deal := &Deal{
		Merchant:        merchant,
		Title:           params.Title,
		Description:     params.Description,
		DiscountPercent: params.DiscountPercent,
		MaxSupply:       params.MaxSupply,
		CurrentSupply:   0,
		Expiry:          params.Expiry,
		Category:        params.Category,
		Price:           price,
		Active:          true,
		TotalRatings:    0,
		RatingSum:       0,
		CreatedAt:       now,
	}
	sanitized, err := SanitizeDeal(deal)
	if err != nil {
		return nil, err
	}
	sanitized.ID = DealID(merchant, sanitized.Title)
	if _, ok, err := e.state.DealGet(sanitized.ID); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrDealExists
	}
	if err := e.state.DealPut(sanitized); err != nil {
		return nil, err
	}
	e.emit(newDealEvent(EventTypeDealCreated, sanitized))
	return sanitized.Clone(), nil
}

// Update applies a partial mutation to an existing deal. Only the merchant may
// call it; absent fields are untouched.
func (e *Engine) Update(caller [20]byte, id [32]byte, update Update) (*Deal, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	deal, ok, err := e.state.DealGet(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDealNotFound
	}
	if deal.Merchant != caller {
		return nil, ErrUnauthorized
	}
	if update.Active != nil {
		deal.Active = *update.Active
	}
	if update.Price != nil {
		if update.Price.Sign() < 0 {
			return nil, ErrInvalidPrice
		}
		deal.Price = new(big.Int).Set(update.Price)
	}
	if err := e.state.DealPut(deal); err != nil {
		return nil, err
	}
	e.emit(newDealEvent(EventTypeDealUpdated, deal))
	return deal.Clone(), nil
}
