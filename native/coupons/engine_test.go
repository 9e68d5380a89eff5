package coupons

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"dealchain/native/deals"
)

type assetMetadata struct {
	name   string
	symbol string
	uri    string
}

type mockState struct {
	deals    map[[32]byte]*deals.Deal
	coupons  map[[32]byte]*Coupon
	staked   map[[32]byte]bool
	balances map[[20]byte]*big.Int
}

func newMockState() *mockState {
	return &mockState{
		deals:    make(map[[32]byte]*deals.Deal),
		coupons:  make(map[[32]byte]*Coupon),
		staked:   make(map[[32]byte]bool),
		balances: make(map[[20]byte]*big.Int),
	}
}

func (m *mockState) DealGet(id [32]byte) (*deals.Deal, bool, error) {
	d, ok := m.deals[id]
	if !ok {
		return nil, false, nil
	}
	return d.Clone(), true, nil
}

func (m *mockState) DealPut(d *deals.Deal) error {
	m.deals[d.ID] = d.Clone()
	return nil
}

func (m *mockState) CouponPut(c *Coupon) error {
	m.coupons[c.ID] = c.Clone()
	return nil
}

func (m *mockState) CouponGet(id [32]byte) (*Coupon, bool, error) {
	c, ok := m.coupons[id]
	if !ok {
		return nil, false, nil
	}
	return c.Clone(), true, nil
}

func (m *mockState) IsStaked(coupon [32]byte) (bool, error) {
	return m.staked[coupon], nil
}

func (m *mockState) balance(addr [20]byte) *big.Int {
	if b, ok := m.balances[addr]; ok {
		return b
	}
	return big.NewInt(0)
}

var errInsufficientFunds = errors.New("mock state: insufficient funds")

func (m *mockState) Transfer(from, to [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return nil
	}
	balance := m.balance(from)
	if balance.Cmp(amount) < 0 {
		return errInsufficientFunds
	}
	m.balances[from] = new(big.Int).Sub(balance, amount)
	m.balances[to] = new(big.Int).Add(m.balance(to), amount)
	return nil
}

type mockIssuer struct {
	next     uint64
	metadata map[[32]byte]assetMetadata
}

func newMockIssuer() *mockIssuer {
	return &mockIssuer{metadata: make(map[[32]byte]assetMetadata)}
}

func (m *mockIssuer) IssueAsset(owner [20]byte) ([32]byte, error) {
	var asset [32]byte
	asset[0] = byte(m.next)
	asset[31] = 0xAA
	m.next++
	return asset, nil
}

func (m *mockIssuer) SetAssetMetadata(asset [32]byte, name, symbol, uri string) error {
	m.metadata[asset] = assetMetadata{name: name, symbol: symbol, uri: uri}
	return nil
}

func newTestAddress(fill byte) [20]byte {
	var addr [20]byte
	for i := range addr {
		addr[i] = fill
	}
	return addr
}

type testEnv struct {
	engine   *Engine
	state    *mockState
	issuer   *mockIssuer
	merchant [20]byte
	deal     *deals.Deal
	now      int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		state:    newMockState(),
		issuer:   newMockIssuer(),
		merchant: newTestAddress(0x01),
		now:      1_000,
	}
	env.engine = NewEngine()
	env.engine.SetState(env.state)
	env.engine.SetIssuer(env.issuer)
	env.engine.SetNowFunc(func() int64 { return env.now })

	env.deal = &deals.Deal{
		ID:              deals.DealID(env.merchant, "Free coffee"),
		Merchant:        env.merchant,
		Title:           "Free coffee",
		DiscountPercent: 100,
		MaxSupply:       2,
		Expiry:          10_000,
		Active:          true,
		Price:           big.NewInt(100),
		CreatedAt:       500,
	}
	if err := env.state.DealPut(env.deal); err != nil {
		t.Fatalf("seed deal: %v", err)
	}
	return env
}

func TestMintCoupon(t *testing.T) {
	env := newTestEnv(t)
	user := newTestAddress(0x02)
	env.state.balances[user] = big.NewInt(250)

	coupon, err := env.engine.Mint(user, env.deal.ID, "ipfs://coupon/0")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if coupon.ID != CouponID(env.deal.ID, 0) {
		t.Fatalf("unexpected coupon id")
	}
	if coupon.Serial != 0 {
		t.Fatalf("first coupon must carry serial 0, got %d", coupon.Serial)
	}
	if coupon.Owner != user {
		t.Fatalf("coupon owner mismatch")
	}
	if coupon.Redeemed {
		t.Fatalf("fresh coupon must not be redeemed")
	}
	if coupon.MintedAt != env.now {
		t.Fatalf("unexpected mint time %d", coupon.MintedAt)
	}

	stored, ok := env.state.deals[env.deal.ID]
	if !ok || stored.CurrentSupply != 1 {
		t.Fatalf("deal supply not incremented")
	}
	if got := env.state.balance(user); got.Cmp(big.NewInt(150)) != 0 {
		t.Fatalf("buyer balance after payment: %s", got)
	}
	if got := env.state.balance(env.merchant); got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("merchant balance after payment: %s", got)
	}

	meta, ok := env.issuer.metadata[coupon.Asset]
	if !ok {
		t.Fatalf("asset metadata missing")
	}
	if meta.name != "Free coffee - Coupon #1" {
		t.Fatalf("metadata name: %q", meta.name)
	}
	if meta.symbol != MetadataSymbol || meta.uri != "ipfs://coupon/0" {
		t.Fatalf("metadata fields: %+v", meta)
	}
}

func TestMintCouponSupplyCap(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 2; i++ {
		user := newTestAddress(byte(0x10 + i))
		env.state.balances[user] = big.NewInt(100)
		if _, err := env.engine.Mint(user, env.deal.ID, ""); err != nil {
			t.Fatalf("mint %d: %v", i, err)
		}
	}
	user := newTestAddress(0x20)
	env.state.balances[user] = big.NewInt(100)
	if _, err := env.engine.Mint(user, env.deal.ID, ""); !errors.Is(err, ErrMaxSupplyReached) {
		t.Fatalf("mint beyond supply: got %v want %v", err, ErrMaxSupplyReached)
	}
}

func TestMintCouponSerialsUnique(t *testing.T) {
	env := newTestEnv(t)
	user := newTestAddress(0x02)
	env.state.balances[user] = big.NewInt(1_000)

	first, err := env.engine.Mint(user, env.deal.ID, "")
	if err != nil {
		t.Fatalf("mint first: %v", err)
	}
	second, err := env.engine.Mint(user, env.deal.ID, "")
	if err != nil {
		t.Fatalf("mint second: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("consecutive mints must yield distinct coupon ids")
	}
	if second.Serial != first.Serial+1 {
		t.Fatalf("serials must be consecutive: %d then %d", first.Serial, second.Serial)
	}
}

func TestMintCouponPreconditions(t *testing.T) {
	env := newTestEnv(t)
	user := newTestAddress(0x02)
	env.state.balances[user] = big.NewInt(1_000)

	var missing [32]byte
	missing[0] = 0xFF
	if _, err := env.engine.Mint(user, missing, ""); !errors.Is(err, ErrDealNotFound) {
		t.Fatalf("missing deal: got %v want %v", err, ErrDealNotFound)
	}

	uri := make([]byte, MaxMetadataURILength+1)
	for i := range uri {
		uri[i] = 'u'
	}
	if _, err := env.engine.Mint(user, env.deal.ID, string(uri)); !errors.Is(err, ErrMetadataURITooLong) {
		t.Fatalf("oversized uri: got %v want %v", err, ErrMetadataURITooLong)
	}

	env.deal.Active = false
	if err := env.state.DealPut(env.deal); err != nil {
		t.Fatalf("deactivate deal: %v", err)
	}
	if _, err := env.engine.Mint(user, env.deal.ID, ""); !errors.Is(err, ErrDealInactive) {
		t.Fatalf("inactive deal: got %v want %v", err, ErrDealInactive)
	}
	env.deal.Active = true
	if err := env.state.DealPut(env.deal); err != nil {
		t.Fatalf("reactivate deal: %v", err)
	}

	env.now = env.deal.Expiry
	if _, err := env.engine.Mint(user, env.deal.ID, ""); !errors.Is(err, ErrDealExpired) {
		t.Fatalf("expired deal: got %v want %v", err, ErrDealExpired)
	}
	env.now = 1_000

	poor := newTestAddress(0x03)
	env.state.balances[poor] = big.NewInt(50)
	if _, err := env.engine.Mint(poor, env.deal.ID, ""); !errors.Is(err, errInsufficientFunds) {
		t.Fatalf("underfunded mint: got %v", err)
	}
	if env.state.deals[env.deal.ID].CurrentSupply != 0 {
		t.Fatalf("failed mint must not move the supply counter")
	}
}

func TestRedeemCoupon(t *testing.T) {
	env := newTestEnv(t)
	user := newTestAddress(0x02)
	env.state.balances[user] = big.NewInt(100)

	coupon, err := env.engine.Mint(user, env.deal.ID, "")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	env.now = 2_000
	redeemed, err := env.engine.Redeem(env.merchant, coupon.ID)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if !redeemed.Redeemed || redeemed.RedeemedAt != 2_000 {
		t.Fatalf("redeemed flags: %+v", redeemed)
	}

	if _, err := env.engine.Redeem(env.merchant, coupon.ID); !errors.Is(err, ErrAlreadyRedeemed) {
		t.Fatalf("second redeem: got %v want %v", err, ErrAlreadyRedeemed)
	}
}

func TestRedeemCouponGuards(t *testing.T) {
	env := newTestEnv(t)
	user := newTestAddress(0x02)
	env.state.balances[user] = big.NewInt(100)

	coupon, err := env.engine.Mint(user, env.deal.ID, "")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := env.engine.Redeem(newTestAddress(0x09), coupon.ID); !errors.Is(err, ErrUnauthorizedMerchant) {
		t.Fatalf("foreign redeem: got %v want %v", err, ErrUnauthorizedMerchant)
	}

	env.state.staked[coupon.ID] = true
	if _, err := env.engine.Redeem(env.merchant, coupon.ID); !errors.Is(err, ErrCouponStaked) {
		t.Fatalf("staked redeem: got %v want %v", err, ErrCouponStaked)
	}
	env.state.staked[coupon.ID] = false

	env.now = env.deal.Expiry + 1
	if _, err := env.engine.Redeem(env.merchant, coupon.ID); !errors.Is(err, ErrDealExpired) {
		t.Fatalf("expired redeem: got %v want %v", err, ErrDealExpired)
	}
}

func TestTransferCoupon(t *testing.T) {
	env := newTestEnv(t)
	owner := newTestAddress(0x02)
	recipient := newTestAddress(0x03)
	env.state.balances[owner] = big.NewInt(100)

	coupon, err := env.engine.Mint(owner, env.deal.ID, "")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	moved, err := env.engine.Transfer(owner, coupon.ID, recipient)
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if moved.Owner != recipient {
		t.Fatalf("ownership not moved")
	}

	// The old owner lost control, the new owner may pass it on.
	if _, err := env.engine.Transfer(owner, coupon.ID, newTestAddress(0x04)); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("transfer by stale owner: got %v want %v", err, ErrNotOwner)
	}
	if _, err := env.engine.Transfer(recipient, coupon.ID, owner); err != nil {
		t.Fatalf("transfer back: %v", err)
	}
}

func TestTransferCouponGuards(t *testing.T) {
	env := newTestEnv(t)
	owner := newTestAddress(0x02)
	env.state.balances[owner] = big.NewInt(100)

	coupon, err := env.engine.Mint(owner, env.deal.ID, "")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := env.engine.Transfer(owner, coupon.ID, owner); !errors.Is(err, ErrInvalidRecipient) {
		t.Fatalf("self transfer: got %v want %v", err, ErrInvalidRecipient)
	}
	if _, err := env.engine.Transfer(owner, coupon.ID, [20]byte{}); !errors.Is(err, ErrInvalidRecipient) {
		t.Fatalf("zero recipient: got %v want %v", err, ErrInvalidRecipient)
	}

	env.state.staked[coupon.ID] = true
	if _, err := env.engine.Transfer(owner, coupon.ID, newTestAddress(0x03)); !errors.Is(err, ErrCouponStaked) {
		t.Fatalf("staked transfer: got %v want %v", err, ErrCouponStaked)
	}
	env.state.staked[coupon.ID] = false

	env.now = 2_000
	if _, err := env.engine.Redeem(env.merchant, coupon.ID); err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if _, err := env.engine.Transfer(owner, coupon.ID, newTestAddress(0x03)); !errors.Is(err, ErrAlreadyRedeemed) {
		t.Fatalf("redeemed transfer: got %v want %v", err, ErrAlreadyRedeemed)
	}
}

func TestMetadataName(t *testing.T) {
	for serial, want := range map[uint64]string{
		0: "Lunch special - Coupon #1",
		9: "Lunch special - Coupon #10",
	} {
		if got := MetadataName("Lunch special", serial); got != want {
			t.Fatalf("serial %d: got %q want %q", serial, got, want)
		}
	}
	if got := MetadataName("X", 2); got != fmt.Sprintf("X - Coupon #%d", 3) {
		t.Fatalf("one-based numbering broken: %q", got)
	}
}
