package staking

import (
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// SecondsPerDay is the accrual granularity: partial days earn nothing.
const SecondsPerDay = 86400

var (
	stakedPrefix  = []byte("staked:")
	poolVaultSeed = []byte("staking/pool-vault")
)

// RewardsPool is the singleton configuration and funding source for staking
// rewards. TotalStaked always equals the number of live staked records.
type RewardsPool struct {
	TotalStaked      uint64
	RewardRatePerDay *big.Int
	Admin            [20]byte
	CreatedAt        int64
}

// StakedCoupon marks a coupon as locked for reward accrual. The record exists
// exactly while the coupon is staked; unstaking destroys it.
type StakedCoupon struct {
	ID          [32]byte
	Coupon      [32]byte
	Staker      [20]byte
	StakedAt    int64
	LastClaimAt int64
}

// StakedID derives the record identifier for the stake slot of a coupon.
func StakedID(coupon [32]byte) [32]byte {
	return ethcrypto.Keccak256Hash(stakedPrefix, coupon[:])
}

// PoolVaultAddress returns the well-known module account that holds the
// reward budget. Payouts are ordinary transfers out of this account, so an
// underfunded pool fails a claim instead of minting value.
func PoolVaultAddress() [20]byte {
	var addr [20]byte
	copy(addr[:], ethcrypto.Keccak256(poolVaultSeed)[12:])
	return addr
}

// Rewards computes the accrued payout for the elapsed stake time. Accrual is
// floored to whole days and clamped to zero for non-positive elapsed time.
func Rewards(elapsedSeconds int64, ratePerDay *big.Int) *big.Int {
	if elapsedSeconds <= 0 || ratePerDay == nil || ratePerDay.Sign() <= 0 {
		return big.NewInt(0)
	}
	days := elapsedSeconds / SecondsPerDay
	if days == 0 {
		return big.NewInt(0)
	}
	return new(big.Int).Mul(big.NewInt(days), ratePerDay)
}

// Clone returns a deep copy of the pool safe for caller mutation.
func (p *RewardsPool) Clone() *RewardsPool {
	if p == nil {
		return nil
	}
	clone := *p
	if p.RewardRatePerDay != nil {
		clone.RewardRatePerDay = new(big.Int).Set(p.RewardRatePerDay)
	} else {
		clone.RewardRatePerDay = big.NewInt(0)
	}
	return &clone
}

// Clone returns a copy of the staked record safe for caller mutation.
func (s *StakedCoupon) Clone() *StakedCoupon {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}
