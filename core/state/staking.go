package state

import (
	"fmt"
	"math/big"

	"dealchain/native/staking"
)

type storedRewardsPool struct {
	TotalStaked      uint64
	RewardRatePerDay *big.Int
	Admin            [20]byte
	CreatedAt        uint64
}

type storedStakedCoupon struct {
	ID          [32]byte
	Coupon      [32]byte
	Staker      [20]byte
	StakedAt    uint64
	LastClaimAt uint64
}

// PoolPut persists the singleton rewards pool record.
func (m *Manager) PoolPut(pool *staking.RewardsPool) error {
	if pool == nil {
		return fmt.Errorf("state: nil rewards pool")
	}
	rate := pool.RewardRatePerDay
	if rate == nil {
		rate = big.NewInt(0)
	}
	if rate.Sign() < 0 {
		return fmt.Errorf("state: reward rate must be non-negative")
	}
	return m.kvPut(rewardsPoolKey, &storedRewardsPool{
		TotalStaked:      pool.TotalStaked,
		RewardRatePerDay: rate,
		Admin:            pool.Admin,
		CreatedAt:        uint64(pool.CreatedAt),
	})
}

// PoolGet loads the singleton rewards pool record.
func (m *Manager) PoolGet() (*staking.RewardsPool, bool, error) {
	stored := new(storedRewardsPool)
	ok, err := m.kvGet(rewardsPoolKey, stored)
	if err != nil || !ok {
		return nil, false, err
	}
	rate := big.NewInt(0)
	if stored.RewardRatePerDay != nil {
		rate = stored.RewardRatePerDay
	}
	return &staking.RewardsPool{
		TotalStaked:      stored.TotalStaked,
		RewardRatePerDay: rate,
		Admin:            stored.Admin,
		CreatedAt:        int64(stored.CreatedAt),
	}, true, nil
}

// StakedPut persists a staked coupon record.
func (m *Manager) StakedPut(staked *staking.StakedCoupon) error {
	if staked == nil {
		return fmt.Errorf("state: nil staked coupon")
	}
	return m.kvPut(prefixedID(stakedPrefix, staked.ID), &storedStakedCoupon{
		ID:          staked.ID,
		Coupon:      staked.Coupon,
		Staker:      staked.Staker,
		StakedAt:    uint64(staked.StakedAt),
		LastClaimAt: uint64(staked.LastClaimAt),
	})
}

// StakedGet loads a staked coupon record by identifier.
func (m *Manager) StakedGet(id [32]byte) (*staking.StakedCoupon, bool, error) {
	stored := new(storedStakedCoupon)
	ok, err := m.kvGet(prefixedID(stakedPrefix, id), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &staking.StakedCoupon{
		ID:          stored.ID,
		Coupon:      stored.Coupon,
		Staker:      stored.Staker,
		StakedAt:    int64(stored.StakedAt),
		LastClaimAt: int64(stored.LastClaimAt),
	}, true, nil
}

// StakedDelete destroys a staked coupon record.
func (m *Manager) StakedDelete(id [32]byte) error {
	return m.kvDelete(prefixedID(stakedPrefix, id))
}

// IsStaked reports whether a coupon currently has a live staked record.
func (m *Manager) IsStaked(coupon [32]byte) (bool, error) {
	return m.kvHas(prefixedID(stakedPrefix, staking.StakedID(coupon)))
}
