package staking

import (
	"encoding/hex"
	"math/big"
	"strconv"

	"dealchain/core/types"
)

const (
	// EventTypePoolInitialized is emitted once when the pool is created.
	EventTypePoolInitialized = "staking.pool_initialized"
	// EventTypeCouponStaked is emitted when a coupon is locked for accrual.
	EventTypeCouponStaked = "staking.staked"
	// EventTypeCouponUnstaked is emitted when a coupon is released.
	EventTypeCouponUnstaked = "staking.unstaked"
	// EventTypeRewardsClaimed is emitted on a successful claim.
	EventTypeRewardsClaimed = "staking.claimed"
)

type stakingEvent struct {
	evt *types.Event
}

func (e *stakingEvent) EventType() string {
	if e == nil || e.evt == nil {
		return ""
	}
	return e.evt.Type
}

// Event exposes the canonical payload for subscribers.
func (e *stakingEvent) Event() *types.Event {
	if e == nil {
		return nil
	}
	return e.evt
}

func newPoolEvent(p *RewardsPool) *stakingEvent {
	attrs := make(map[string]string)
	if p != nil {
		attrs["admin"] = hex.EncodeToString(p.Admin[:])
		attrs["totalStaked"] = strconv.FormatUint(p.TotalStaked, 10)
		if p.RewardRatePerDay != nil {
			attrs["rewardRatePerDay"] = p.RewardRatePerDay.String()
		}
	}
	return &stakingEvent{evt: &types.Event{Type: EventTypePoolInitialized, Attributes: attrs}}
}

func newStakedEvent(eventType string, s *StakedCoupon, rewards *big.Int) *stakingEvent {
	attrs := make(map[string]string)
	if s != nil {
		attrs["coupon"] = hex.EncodeToString(s.Coupon[:])
		attrs["staker"] = hex.EncodeToString(s.Staker[:])
		attrs["stakedAt"] = strconv.FormatInt(s.StakedAt, 10)
		attrs["lastClaimAt"] = strconv.FormatInt(s.LastClaimAt, 10)
	}
	if rewards != nil {
		attrs["rewards"] = rewards.String()
	}
	return &stakingEvent{evt: &types.Event{Type: eventType, Attributes: attrs}}
}
