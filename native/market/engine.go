package market

import (
	"errors"
	"math/big"
	"time"

	"dealchain/core/events"
	"dealchain/native/coupons"
)

var (
	errNilState          = errors.New("market engine: state not configured")
	errNilPlatformWallet = errors.New("market engine: platform wallet not configured")
)

type engineState interface {
	CouponGet(id [32]byte) (*coupons.Coupon, bool, error)
	CouponPut(*coupons.Coupon) error
	ListingGet(id [32]byte) (*Listing, bool, error)
	ListingPut(*Listing) error
	IsStaked(coupon [32]byte) (bool, error)
	Transfer(from, to [20]byte, amount *big.Int) error
}

// Engine implements the peer-to-peer coupon marketplace: fixed-price listings,
// purchases with a platform fee split, and delisting.
type Engine struct {
	state          engineState
	emitter        events.Emitter
	platformWallet [20]byte
	nowFn          func() int64
}

// NewEngine creates a marketplace engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetPlatformWallet configures the address that receives the sale fee cut.
func (e *Engine) SetPlatformWallet(addr [20]byte) { e.platformWallet = addr }

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

func (e *Engine) emit(evt *marketEvent) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) loadCoupon(id [32]byte) (*coupons.Coupon, error) {
	coupon, ok, err := e.state.CouponGet(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// List opens a fixed-price listing for a coupon the caller owns. A coupon can
// carry at most one active listing; a closed slot is reused.
func (e *Engine) List(seller [20]byte, couponID [32]byte, price *big.Int) (*Listing, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if price == nil || price.Sign() <= 0 {
		return nil, ErrInvalidPrice
	}
	coupon, err := e.loadCoupon(couponID)
	if err != nil {
		return nil, err
	}
	if coupon.Redeemed {
		return nil, ErrAlreadyRedeemed
	}
	if coupon.Owner != seller {
		return nil, ErrNotOwner
	}
	staked, err := e.state.IsStaked(couponID)
	if err != nil {
		return nil, err
	}
	if staked {
		return nil, ErrCouponStaked
	}
	id := ListingID(couponID)
	if existing, ok, err := e.state.ListingGet(id); err != nil {
		return nil, err
	} else if ok && existing.Active {
		return nil, ErrListingExists
	}
	listing := &Listing{
		ID:        id,
		Coupon:    couponID,
		Seller:    seller,
		Price:     new(big.Int).Set(price),
		Active:    true,
		CreatedAt: e.now(),
	}
	if err := e.state.ListingPut(listing); err != nil {
		return nil, err
	}
	e.emit(newListingEvent(EventTypeCouponListed, listing, nil))
	return listing.Clone(), nil
}

// Buy settles an active listing: the buyer pays the seller and the platform
// fee wallet, and ownership moves to the buyer while the listing closes. The
// payments and the record mutations are one atomic unit.
func (e *Engine) Buy(buyer [20]byte, couponID [32]byte) (*Listing, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	listing, ok, err := e.state.ListingGet(ListingID(couponID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrListingNotFound
	}
	if !listing.Active {
		return nil, ErrListingInactive
	}
	coupon, err := e.loadCoupon(couponID)
	if err != nil {
		return nil, err
	}
	if coupon.Redeemed {
		return nil, ErrAlreadyRedeemed
	}
	// The listing goes stale when the coupon changed hands out-of-band.
	if coupon.Owner != listing.Seller {
		return nil, ErrInvalidListing
	}
	if buyer == listing.Seller {
		return nil, ErrSelfPurchase
	}
	staked, err := e.state.IsStaked(couponID)
	if err != nil {
		return nil, err
	}
	if staked {
		return nil, ErrCouponStaked
	}
	if e.platformWallet == ([20]byte{}) {
		return nil, errNilPlatformWallet
	}
	fee, sellerAmount := SplitPrice(listing.Price)
	if sellerAmount.Sign() > 0 {
		if err := e.state.Transfer(buyer, listing.Seller, sellerAmount); err != nil {
			return nil, err
		}
	}
	if fee.Sign() > 0 {
		if err := e.state.Transfer(buyer, e.platformWallet, fee); err != nil {
			return nil, err
		}
	}
	coupon.Owner = buyer
	if err := e.state.CouponPut(coupon); err != nil {
		return nil, err
	}
	listing.Active = false
	if err := e.state.ListingPut(listing); err != nil {
		return nil, err
	}
	e.emit(newListingEvent(EventTypeCouponSold, listing, &buyer))
	return listing.Clone(), nil
}

// Delist closes an active listing without moving funds.
func (e *Engine) Delist(seller [20]byte, couponID [32]byte) (*Listing, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	listing, ok, err := e.state.ListingGet(ListingID(couponID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrListingNotFound
	}
	if !listing.Active {
		return nil, ErrListingInactive
	}
	if listing.Seller != seller {
		return nil, ErrNotOwner
	}
	listing.Active = false
	if err := e.state.ListingPut(listing); err != nil {
		return nil, err
	}
	e.emit(newListingEvent(EventTypeCouponDelisted, listing, nil))
	return listing.Clone(), nil
}
