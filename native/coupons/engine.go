package coupons

import (
	"errors"
	"time"

	"math/big"

	"dealchain/core/events"
	"dealchain/native/deals"
)

var (
	errNilState  = errors.New("coupons engine: state not configured")
	errNilIssuer = errors.New("coupons engine: asset issuer not configured")
)

type engineState interface {
	DealGet(id [32]byte) (*deals.Deal, bool, error)
	DealPut(*deals.Deal) error
	CouponPut(*Coupon) error
	CouponGet(id [32]byte) (*Coupon, bool, error)
	IsStaked(coupon [32]byte) (bool, error)
	Transfer(from, to [20]byte, amount *big.Int) error
}

// AssetIssuer is the collaborator that mints a unique non-fungible asset and
// attaches descriptive metadata to it. Every Issue call yields a fresh
// reference.
type AssetIssuer interface {
	IssueAsset(owner [20]byte) ([32]byte, error)
	SetAssetMetadata(asset [32]byte, name, symbol, uri string) error
}

// Engine implements the coupon lifecycle: mint against a deal, one-way
// redemption by the merchant, and gift transfers between owners.
type Engine struct {
	state   engineState
	issuer  AssetIssuer
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine creates a coupon engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetIssuer configures the asset issuance collaborator.
func (e *Engine) SetIssuer(issuer AssetIssuer) { e.issuer = issuer }

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

func (e *Engine) emit(evt *couponEvent) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) loadCoupon(id [32]byte) (*Coupon, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	coupon, ok, err := e.state.CouponGet(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// Mint issues a new coupon against the referenced deal. Payment (when the deal
// carries a price), asset issuance, coupon creation and the supply increment
// form one atomic unit: any failure aborts the whole transition.
func (e *Engine) Mint(user [20]byte, dealID [32]byte, metadataURI string) (*Coupon, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if e.issuer == nil {
		return nil, errNilIssuer
	}
	if len(metadataURI) > MaxMetadataURILength {
		return nil, ErrMetadataURITooLong
	}
	deal, ok, err := e.state.DealGet(dealID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDealNotFound
	}
	if !deal.Active {
		return nil, ErrDealInactive
	}
	if deal.CurrentSupply >= deal.MaxSupply {
		return nil, ErrMaxSupplyReached
	}
	now := e.now()
	if now >= deal.Expiry {
		return nil, ErrDealExpired
	}
	if deal.Price != nil && deal.Price.Sign() > 0 {
		if err := e.state.Transfer(user, deal.Merchant, deal.Price); err != nil {
			return nil, err
		}
	}
	asset, err := e.issuer.IssueAsset(user)
	if err != nil {
		return nil, err
	}
	serial := deal.CurrentSupply
	if err := e.issuer.SetAssetMetadata(asset, MetadataName(deal.Title, serial), MetadataSymbol, metadataURI); err != nil {
		return nil, err
	}
	coupon := &Coupon{
		ID:       CouponID(dealID, serial),
		Deal:     dealID,
		Owner:    user,
		Asset:    asset,
		Serial:   serial,
		Redeemed: false,
		MintedAt: now,
	}
	if err := e.state.CouponPut(coupon); err != nil {
		return nil, err
	}
	deal.CurrentSupply = serial + 1
	if err := e.state.DealPut(deal); err != nil {
		return nil, err
	}
	e.emit(newCouponEvent(EventTypeCouponMinted, coupon))
	return coupon.Clone(), nil
}

// Redeem marks the coupon as used. Only the merchant of the underlying deal
// may redeem, the deal must not have expired, and the redeemed flag is a
// one-way latch.
func (e *Engine) Redeem(merchant [20]byte, couponID [32]byte) (*Coupon, error) {
	coupon, err := e.loadCoupon(couponID)
	if err != nil {
		return nil, err
	}
	deal, ok, err := e.state.DealGet(coupon.Deal)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDealNotFound
	}
	if coupon.Redeemed {
		return nil, ErrAlreadyRedeemed
	}
	now := e.now()
	if now >= deal.Expiry {
		return nil, ErrDealExpired
	}
	if deal.Merchant != merchant {
		return nil, ErrUnauthorizedMerchant
	}
	staked, err := e.state.IsStaked(couponID)
	if err != nil {
		return nil, err
	}
	if staked {
		return nil, ErrCouponStaked
	}
	coupon.Redeemed = true
	coupon.RedeemedAt = now
	if err := e.state.CouponPut(coupon); err != nil {
		return nil, err
	}
	e.emit(newCouponEvent(EventTypeCouponRedeemed, coupon))
	return coupon.Clone(), nil
}

// Transfer hands the coupon to a new owner without moving funds. It is the
// gift/administrative path; paid transfers go through the marketplace.
func (e *Engine) Transfer(owner [20]byte, couponID [32]byte, newOwner [20]byte) (*Coupon, error) {
	coupon, err := e.loadCoupon(couponID)
	if err != nil {
		return nil, err
	}
	if coupon.Redeemed {
		return nil, ErrAlreadyRedeemed
	}
	if coupon.Owner != owner {
		return nil, ErrNotOwner
	}
	if newOwner == ([20]byte{}) || newOwner == owner {
		return nil, ErrInvalidRecipient
	}
	staked, err := e.state.IsStaked(couponID)
	if err != nil {
		return nil, err
	}
	if staked {
		return nil, ErrCouponStaked
	}
	coupon.Owner = newOwner
	if err := e.state.CouponPut(coupon); err != nil {
		return nil, err
	}
	e.emit(newCouponEvent(EventTypeCouponTransferred, coupon))
	return coupon.Clone(), nil
}
