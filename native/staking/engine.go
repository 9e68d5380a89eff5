package staking

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"dealchain/core/events"
	"dealchain/native/coupons"
)

var errNilState = errors.New("staking engine: state not configured")

type engineState interface {
	CouponGet(id [32]byte) (*coupons.Coupon, bool, error)
	PoolGet() (*RewardsPool, bool, error)
	PoolPut(*RewardsPool) error
	StakedGet(id [32]byte) (*StakedCoupon, bool, error)
	StakedPut(*StakedCoupon) error
	StakedDelete(id [32]byte) error
	Transfer(from, to [20]byte, amount *big.Int) error
}

// Engine implements coupon staking against the singleton rewards pool. A
// coupon cycles Unstaked -> Staked -> Unstaked; each cycle creates and then
// destroys one staked record, keeping the pool counter in lockstep.
type Engine struct {
	state   engineState
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine creates a staking engine with a no-op emitter.
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

func (e *Engine) emit(evt *stakingEvent) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) loadPool() (*RewardsPool, error) {
	pool, ok, err := e.state.PoolGet()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPoolNotFound
	}
	return pool, nil
}

// InitializePool creates the singleton rewards pool with the caller as admin.
func (e *Engine) InitializePool(admin [20]byte, ratePerDay *big.Int) (*RewardsPool, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if ratePerDay != nil && ratePerDay.Sign() < 0 {
		return nil, ErrInvalidRate
	}
	if _, ok, err := e.state.PoolGet(); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrPoolExists
	}
	rate := big.NewInt(0)
	if ratePerDay != nil {
		rate = new(big.Int).Set(ratePerDay)
	}
	pool := &RewardsPool{
		TotalStaked:      0,
		RewardRatePerDay: rate,
		Admin:            admin,
		CreatedAt:        e.now(),
	}
	if err := e.state.PoolPut(pool); err != nil {
		return nil, err
	}
	e.emit(newPoolEvent(pool))
	return pool.Clone(), nil
}

// Stake locks an unredeemed coupon the caller owns and starts reward accrual.
func (e *Engine) Stake(staker [20]byte, couponID [32]byte) (*StakedCoupon, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	pool, err := e.loadPool()
	if err != nil {
		return nil, err
	}
	coupon, ok, err := e.state.CouponGet(couponID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCouponNotFound
	}
	if coupon.Redeemed {
		return nil, ErrAlreadyRedeemed
	}
	if coupon.Owner != staker {
		return nil, ErrNotOwner
	}
	id := StakedID(couponID)
	if _, ok, err := e.state.StakedGet(id); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrAlreadyStaked
	}
	now := e.now()
	staked := &StakedCoupon{
		ID:          id,
		Coupon:      couponID,
		Staker:      staker,
		StakedAt:    now,
		LastClaimAt: now,
	}
	if err := e.state.StakedPut(staked); err != nil {
		return nil, err
	}
	if pool.TotalStaked == math.MaxUint64 {
		return nil, ErrCounterOverflow
	}
	pool.TotalStaked++
	if err := e.state.PoolPut(pool); err != nil {
		return nil, err
	}
	e.emit(newStakedEvent(EventTypeCouponStaked, staked, nil))
	return staked.Clone(), nil
}

// Unstake releases a staked coupon, paying out any whole-day accrual since
// the last claim. A zero accrual is valid and simply transfers nothing.
func (e *Engine) Unstake(staker [20]byte, couponID [32]byte) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	staked, ok, err := e.state.StakedGet(StakedID(couponID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotStaked
	}
	if staked.Staker != staker {
		return nil, ErrNotOwner
	}
	pool, err := e.loadPool()
	if err != nil {
		return nil, err
	}
	now := e.now()
	rewards := Rewards(now-staked.LastClaimAt, pool.RewardRatePerDay)
	if rewards.Sign() > 0 {
		if err := e.state.Transfer(PoolVaultAddress(), staker, rewards); err != nil {
			return nil, err
		}
	}
	if err := e.state.StakedDelete(staked.ID); err != nil {
		return nil, err
	}
	if pool.TotalStaked == 0 {
		return nil, fmt.Errorf("staking: pool counter out of sync with staked records")
	}
	pool.TotalStaked--
	if err := e.state.PoolPut(pool); err != nil {
		return nil, err
	}
	e.emit(newStakedEvent(EventTypeCouponUnstaked, staked, rewards))
	return rewards, nil
}

// Claim pays the accrued rewards and resets the accrual clock while keeping
// the coupon staked. Unlike Unstake, a zero accrual is rejected.
func (e *Engine) Claim(staker [20]byte, couponID [32]byte) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	staked, ok, err := e.state.StakedGet(StakedID(couponID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotStaked
	}
	if staked.Staker != staker {
		return nil, ErrNotOwner
	}
	pool, err := e.loadPool()
	if err != nil {
		return nil, err
	}
	now := e.now()
	rewards := Rewards(now-staked.LastClaimAt, pool.RewardRatePerDay)
	if rewards.Sign() == 0 {
		return nil, ErrNoRewardsToClaim
	}
	if err := e.state.Transfer(PoolVaultAddress(), staker, rewards); err != nil {
		return nil, err
	}
	staked.LastClaimAt = now
	if err := e.state.StakedPut(staked); err != nil {
		return nil, err
	}
	e.emit(newStakedEvent(EventTypeRewardsClaimed, staked, rewards))
	return rewards, nil
}
