package core

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"dealchain/core/events"
	"dealchain/core/state"
	"dealchain/native/coupons"
	"dealchain/native/deals"
	"dealchain/native/feedback"
	"dealchain/native/market"
	"dealchain/native/staking"
	"dealchain/observability"
)

// Identity roles a transition may require. A transition is rejected before any
// state access when the caller did not assert a proof for a required role.
const (
	RoleMerchant = "merchant"
	RoleUser     = "user"
	RoleSeller   = "seller"
	RoleBuyer    = "buyer"
	RoleStaker   = "staker"
	RoleAdmin    = "admin"
	RoleAuthor   = "author"
)

// ErrUnauthorizedRole is returned when a required identity proof is missing.
var ErrUnauthorizedRole = errors.New("core: missing identity proof")

// Processor exposes the named transitions of the deal economy. Every call is
// one atomic unit of work: the ledger overlay is committed only when the
// transition succeeds, queued events are published only after commit, and the
// wall clock is read exactly once per transition.
type Processor struct {
	manager *state.Manager
	sink    events.Emitter
	queue   *events.Queue

	deals    *deals.Engine
	coupons  *coupons.Engine
	feedback *feedback.Engine
	market   *market.Engine
	staking  *staking.Engine

	nowFn     func() int64
	pinnedNow int64
}

// ProcessorOption customises processor construction.
type ProcessorOption func(*Processor)

// WithEmitter directs committed events to the provided sink.
func WithEmitter(sink events.Emitter) ProcessorOption {
	return func(p *Processor) { p.sink = sink }
}

// WithNowFunc overrides the transition clock, primarily for tests.
func WithNowFunc(now func() int64) ProcessorOption {
	return func(p *Processor) {
		if now != nil {
			p.nowFn = now
		}
	}
}

// WithPlatformWallet configures the marketplace fee recipient.
func WithPlatformWallet(addr [20]byte) ProcessorOption {
	return func(p *Processor) { p.market.SetPlatformWallet(addr) }
}

// NewProcessor wires the native engines against the ledger manager.
func NewProcessor(manager *state.Manager, opts ...ProcessorOption) *Processor {
	p := &Processor{
		manager:  manager,
		sink:     events.NoopEmitter{},
		queue:    &events.Queue{},
		deals:    deals.NewEngine(),
		coupons:  coupons.NewEngine(),
		feedback: feedback.NewEngine(),
		market:   market.NewEngine(),
		staking:  staking.NewEngine(),
		nowFn:    func() int64 { return time.Now().Unix() },
	}
	clock := func() int64 { return p.pinnedNow }
	p.deals.SetState(manager)
	p.deals.SetEmitter(p.queue)
	p.deals.SetNowFunc(clock)
	p.coupons.SetState(manager)
	p.coupons.SetIssuer(manager)
	p.coupons.SetEmitter(p.queue)
	p.coupons.SetNowFunc(clock)
	p.feedback.SetState(manager)
	p.feedback.SetEmitter(p.queue)
	p.feedback.SetNowFunc(clock)
	p.market.SetState(manager)
	p.market.SetEmitter(p.queue)
	p.market.SetNowFunc(clock)
	p.staking.SetState(manager)
	p.staking.SetEmitter(p.queue)
	p.staking.SetNowFunc(clock)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type roleProof struct {
	role string
	addr [20]byte
}

// run executes one transition body inside a buffered ledger overlay.
func (p *Processor) run(name string, proofs []roleProof, fn func() error) error {
	started := time.Now()
	for _, proof := range proofs {
		if proof.addr == ([20]byte{}) {
			observability.Transitions().Observe(name, "unauthorized", time.Since(started))
			return fmt.Errorf("%w: %s", ErrUnauthorizedRole, proof.role)
		}
	}
	if err := p.manager.Begin(); err != nil {
		observability.Transitions().Observe(name, "error", time.Since(started))
		return err
	}
	p.pinnedNow = p.nowFn()
	if err := fn(); err != nil {
		p.manager.Revert()
		p.queue.Drop()
		observability.Transitions().Observe(name, "rejected", time.Since(started))
		return err
	}
	if err := p.manager.Commit(); err != nil {
		p.manager.Revert()
		p.queue.Drop()
		observability.Transitions().Observe(name, "error", time.Since(started))
		return err
	}
	p.queue.Flush(p.sink)
	observability.Transitions().Observe(name, "ok", time.Since(started))
	return nil
}

// CreateDeal registers a new deal owned by the calling merchant.
func (p *Processor) CreateDeal(merchant [20]byte, params deals.CreateParams) (*deals.Deal, error) {
	var out *deals.Deal
	err := p.run("create_deal", []roleProof{{RoleMerchant, merchant}}, func() error {
		var err error
		out, err = p.deals.Create(merchant, params)
		return err
	})
	return out, err
}

// UpdateDeal applies a partial update to a deal the caller owns.
func (p *Processor) UpdateDeal(merchant [20]byte, dealID [32]byte, update deals.Update) (*deals.Deal, error) {
	var out *deals.Deal
	err := p.run("update_deal", []roleProof{{RoleMerchant, merchant}}, func() error {
		var err error
		out, err = p.deals.Update(merchant, dealID, update)
		return err
	})
	return out, err
}

// MintCoupon mints a coupon against a deal for the calling user.
func (p *Processor) MintCoupon(user [20]byte, dealID [32]byte, metadataURI string) (*coupons.Coupon, error) {
	var out *coupons.Coupon
	err := p.run("mint_coupon", []roleProof{{RoleUser, user}}, func() error {
		var err error
		out, err = p.coupons.Mint(user, dealID, metadataURI)
		return err
	})
	return out, err
}

// RedeemCoupon redeems a coupon on behalf of the deal merchant.
func (p *Processor) RedeemCoupon(merchant [20]byte, couponID [32]byte) (*coupons.Coupon, error) {
	var out *coupons.Coupon
	err := p.run("redeem_coupon", []roleProof{{RoleMerchant, merchant}}, func() error {
		var err error
		out, err = p.coupons.Redeem(merchant, couponID)
		return err
	})
	return out, err
}

// TransferCoupon gifts a coupon to a new owner.
func (p *Processor) TransferCoupon(owner [20]byte, couponID [32]byte, newOwner [20]byte) (*coupons.Coupon, error) {
	var out *coupons.Coupon
	err := p.run("transfer_coupon", []roleProof{{RoleUser, owner}}, func() error {
		var err error
		out, err = p.coupons.Transfer(owner, couponID, newOwner)
		return err
	})
	return out, err
}

// RateDeal casts or updates the caller's star rating for a deal.
func (p *Processor) RateDeal(user [20]byte, dealID [32]byte, rating uint8) (*feedback.Rating, error) {
	var out *feedback.Rating
	err := p.run("rate_deal", []roleProof{{RoleUser, user}}, func() error {
		var err error
		out, err = p.feedback.RateDeal(user, dealID, rating)
		return err
	})
	return out, err
}

// AddComment attaches an immutable comment to a deal.
func (p *Processor) AddComment(author [20]byte, dealID [32]byte, timestamp int64, content string) (*feedback.Comment, error) {
	var out *feedback.Comment
	err := p.run("add_comment", []roleProof{{RoleAuthor, author}}, func() error {
		var err error
		out, err = p.feedback.AddComment(author, dealID, timestamp, content)
		return err
	})
	return out, err
}

// ListCoupon opens a fixed-price listing for a coupon the caller owns.
func (p *Processor) ListCoupon(seller [20]byte, couponID [32]byte, price *big.Int) (*market.Listing, error) {
	var out *market.Listing
	err := p.run("list_coupon", []roleProof{{RoleSeller, seller}}, func() error {
		var err error
		out, err = p.market.List(seller, couponID, price)
		return err
	})
	return out, err
}

// BuyCoupon settles an active listing for the calling buyer.
func (p *Processor) BuyCoupon(buyer [20]byte, couponID [32]byte) (*market.Listing, error) {
	var out *market.Listing
	err := p.run("buy_coupon", []roleProof{{RoleBuyer, buyer}}, func() error {
		var err error
		out, err = p.market.Buy(buyer, couponID)
		return err
	})
	return out, err
}

// DelistCoupon closes the caller's active listing.
func (p *Processor) DelistCoupon(seller [20]byte, couponID [32]byte) (*market.Listing, error) {
	var out *market.Listing
	err := p.run("delist_coupon", []roleProof{{RoleSeller, seller}}, func() error {
		var err error
		out, err = p.market.Delist(seller, couponID)
		return err
	})
	return out, err
}

// InitializeRewardsPool creates the singleton staking pool.
func (p *Processor) InitializeRewardsPool(admin [20]byte, ratePerDay *big.Int) (*staking.RewardsPool, error) {
	var out *staking.RewardsPool
	err := p.run("initialize_rewards_pool", []roleProof{{RoleAdmin, admin}}, func() error {
		var err error
		out, err = p.staking.InitializePool(admin, ratePerDay)
		return err
	})
	return out, err
}

// StakeCoupon locks a coupon for reward accrual.
func (p *Processor) StakeCoupon(staker [20]byte, couponID [32]byte) (*staking.StakedCoupon, error) {
	var out *staking.StakedCoupon
	err := p.run("stake_coupon", []roleProof{{RoleStaker, staker}}, func() error {
		var err error
		out, err = p.staking.Stake(staker, couponID)
		return err
	})
	return out, err
}

// UnstakeCoupon releases a staked coupon and pays any accrued rewards.
func (p *Processor) UnstakeCoupon(staker [20]byte, couponID [32]byte) (*big.Int, error) {
	var out *big.Int
	err := p.run("unstake_coupon", []roleProof{{RoleStaker, staker}}, func() error {
		var err error
		out, err = p.staking.Unstake(staker, couponID)
		return err
	})
	return out, err
}

// ClaimRewards pays accrued rewards without unstaking.
func (p *Processor) ClaimRewards(staker [20]byte, couponID [32]byte) (*big.Int, error) {
	var out *big.Int
	err := p.run("claim_rewards", []roleProof{{RoleStaker, staker}}, func() error {
		var err error
		out, err = p.staking.Claim(staker, couponID)
		return err
	})
	return out, err
}

// FundAccount credits an address, used for genesis allocation and for topping
// up the staking pool vault.
func (p *Processor) FundAccount(admin [20]byte, addr [20]byte, amount *big.Int) error {
	return p.run("fund_account", []roleProof{{RoleAdmin, admin}}, func() error {
		return p.manager.Credit(addr, amount)
	})
}
