package deals

import (
	"bytes"
	"errors"
	"math/big"
	"testing"
)

type mockState struct {
	deals map[[32]byte]*Deal
}

func newMockState() *mockState {
	return &mockState{deals: make(map[[32]byte]*Deal)}
}

func (m *mockState) DealPut(d *Deal) error {
	sanitized, err := SanitizeDeal(d)
	if err != nil {
		return err
	}
	m.deals[sanitized.ID] = sanitized.Clone()
	return nil
}

func (m *mockState) DealGet(id [32]byte) (*Deal, bool, error) {
	d, ok := m.deals[id]
	if !ok {
		return nil, false, nil
	}
	return d.Clone(), true, nil
}

func newTestAddress(fill byte) [20]byte {
	var addr [20]byte
	copy(addr[:], bytes.Repeat([]byte{fill}, 20))
	return addr
}

func newTestEngine(t *testing.T, now int64) (*Engine, *mockState) {
	t.Helper()
	state := newMockState()
	engine := NewEngine()
	engine.SetState(state)
	engine.SetNowFunc(func() int64 { return now })
	return engine, state
}

func validParams() CreateParams {
	return CreateParams{
		Title:           "Half price burgers",
		Description:     "50% off any burger",
		DiscountPercent: 50,
		MaxSupply:       100,
		Expiry:          2_000,
		Category:        "food",
		Price:           big.NewInt(500),
	}
}

func TestCreateDeal(t *testing.T) {
	engine, state := newTestEngine(t, 1_000)
	merchant := newTestAddress(0x01)

	deal, err := engine.Create(merchant, validParams())
	if err != nil {
		t.Fatalf("create deal: %v", err)
	}
	if deal.ID != DealID(merchant, "Half price burgers") {
		t.Fatalf("unexpected deal id")
	}
	if !deal.Active {
		t.Fatalf("new deal must be active")
	}
	if deal.CurrentSupply != 0 || deal.TotalRatings != 0 || deal.RatingSum != 0 {
		t.Fatalf("counters must start at zero")
	}
	if deal.CreatedAt != 1_000 {
		t.Fatalf("unexpected creation time: %d", deal.CreatedAt)
	}
	if _, ok := state.deals[deal.ID]; !ok {
		t.Fatalf("deal not persisted")
	}
}

func TestCreateDealValidation(t *testing.T) {
	engine, state := newTestEngine(t, 1_000)
	merchant := newTestAddress(0x01)

	cases := []struct {
		name   string
		mutate func(*CreateParams)
		want   error
	}{
		{"discount above 100", func(p *CreateParams) { p.DiscountPercent = 101 }, ErrInvalidDiscount},
		{"zero supply", func(p *CreateParams) { p.MaxSupply = 0 }, ErrInvalidSupply},
		{"expiry in the past", func(p *CreateParams) { p.Expiry = 999 }, ErrInvalidExpiry},
		{"expiry now", func(p *CreateParams) { p.Expiry = 1_000 }, ErrInvalidExpiry},
		{"empty title", func(p *CreateParams) { p.Title = "  " }, ErrInvalidTitle},
		{"title too long", func(p *CreateParams) { p.Title = string(bytes.Repeat([]byte{'x'}, MaxTitleLength+1)) }, ErrInvalidTitle},
		{"description too long", func(p *CreateParams) { p.Description = string(bytes.Repeat([]byte{'x'}, MaxDescriptionLength+1)) }, ErrDescriptionTooLong},
		{"category too long", func(p *CreateParams) { p.Category = string(bytes.Repeat([]byte{'x'}, MaxCategoryLength+1)) }, ErrCategoryTooLong},
		{"negative price", func(p *CreateParams) { p.Price = big.NewInt(-1) }, ErrInvalidPrice},
	}
	for _, tc := range cases {
		params := validParams()
		tc.mutate(&params)
		if _, err := engine.Create(merchant, params); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v want %v", tc.name, err, tc.want)
		}
	}
	if len(state.deals) != 0 {
		t.Fatalf("rejected creations must not persist records")
	}
}

func TestCreateDealDuplicate(t *testing.T) {
	engine, _ := newTestEngine(t, 1_000)
	merchant := newTestAddress(0x01)

	if _, err := engine.Create(merchant, validParams()); err != nil {
		t.Fatalf("create deal: %v", err)
	}
	if _, err := engine.Create(merchant, validParams()); !errors.Is(err, ErrDealExists) {
		t.Fatalf("duplicate create: got %v want %v", err, ErrDealExists)
	}

	// A different merchant may reuse the title.
	if _, err := engine.Create(newTestAddress(0x02), validParams()); err != nil {
		t.Fatalf("create same title for other merchant: %v", err)
	}
}

func TestUpdateDeal(t *testing.T) {
	engine, _ := newTestEngine(t, 1_000)
	merchant := newTestAddress(0x01)

	deal, err := engine.Create(merchant, validParams())
	if err != nil {
		t.Fatalf("create deal: %v", err)
	}

	inactive := false
	updated, err := engine.Update(merchant, deal.ID, Update{Active: &inactive})
	if err != nil {
		t.Fatalf("update deal: %v", err)
	}
	if updated.Active {
		t.Fatalf("active flag not applied")
	}
	if updated.Price.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("absent price field must stay untouched")
	}

	updated, err = engine.Update(merchant, deal.ID, Update{Price: big.NewInt(750)})
	if err != nil {
		t.Fatalf("update price: %v", err)
	}
	if updated.Price.Cmp(big.NewInt(750)) != 0 {
		t.Fatalf("price not applied")
	}
	if updated.Active {
		t.Fatalf("absent active field must stay untouched")
	}
}

func TestUpdateDealAuthorization(t *testing.T) {
	engine, _ := newTestEngine(t, 1_000)
	merchant := newTestAddress(0x01)

	deal, err := engine.Create(merchant, validParams())
	if err != nil {
		t.Fatalf("create deal: %v", err)
	}

	active := false
	if _, err := engine.Update(newTestAddress(0x02), deal.ID, Update{Active: &active}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("foreign update: got %v want %v", err, ErrUnauthorized)
	}
	if _, err := engine.Update(merchant, DealID(merchant, "missing"), Update{Active: &active}); !errors.Is(err, ErrDealNotFound) {
		t.Fatalf("missing deal: got %v want %v", err, ErrDealNotFound)
	}
	if _, err := engine.Update(merchant, deal.ID, Update{Price: big.NewInt(-5)}); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("negative price: got %v want %v", err, ErrInvalidPrice)
	}
}
