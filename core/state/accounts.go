package state

import (
	"errors"
	"math/big"

	"dealchain/core/types"
)

var (
	// ErrInsufficientBalance is returned when a transfer would overdraw the
	// source account. No partial amount is ever moved.
	ErrInsufficientBalance = errors.New("state: insufficient balance")
	// ErrInvalidAmount is returned for nil or negative transfer amounts.
	ErrInvalidAmount = errors.New("state: amount must be non-negative")
)

type storedAccount struct {
	Nonce   uint64
	Balance *big.Int
}

// GetAccount loads the account for an address, returning a zero-balance
// account when none exists yet.
func (m *Manager) GetAccount(addr [20]byte) (*types.Account, error) {
	stored := new(storedAccount)
	ok, err := m.kvGet(prefixedAddr(accountPrefix, addr), stored)
	if err != nil {
		return nil, err
	}
	account := &types.Account{}
	if ok {
		account.Nonce = stored.Nonce
		account.Balance = stored.Balance
	}
	account.EnsureDefaults()
	return account, nil
}

// PutAccount persists the account for an address.
func (m *Manager) PutAccount(addr [20]byte, account *types.Account) error {
	if account == nil {
		account = &types.Account{}
	}
	account.EnsureDefaults()
	if account.Balance.Sign() < 0 {
		return ErrInvalidAmount
	}
	return m.kvPut(prefixedAddr(accountPrefix, addr), &storedAccount{
		Nonce:   account.Nonce,
		Balance: account.Balance,
	})
}

// Balance returns the fungible balance of an address.
func (m *Manager) Balance(addr [20]byte) (*big.Int, error) {
	account, err := m.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	return account.Balance, nil
}

// Credit adds funds to an address. It exists for genesis allocation and for
// funding module vaults; transitions move value exclusively via Transfer.
func (m *Manager) Credit(addr [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	account, err := m.GetAccount(addr)
	if err != nil {
		return err
	}
	account.Balance = new(big.Int).Add(account.Balance, amount)
	return m.PutAccount(addr, account)
}

// Transfer atomically moves balance between two accounts. It fails without
// effect when the source balance is insufficient; a zero amount is a no-op.
func (m *Manager) Transfer(from, to [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		return nil
	}
	fromAccount, err := m.GetAccount(from)
	if err != nil {
		return err
	}
	if fromAccount.Balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if from == to {
		return nil
	}
	toAccount, err := m.GetAccount(to)
	if err != nil {
		return err
	}
	fromAccount.Balance = new(big.Int).Sub(fromAccount.Balance, amount)
	toAccount.Balance = new(big.Int).Add(toAccount.Balance, amount)
	if err := m.PutAccount(from, fromAccount); err != nil {
		return err
	}
	return m.PutAccount(to, toAccount)
}
