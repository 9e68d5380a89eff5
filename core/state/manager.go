package state

import (
	"errors"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"dealchain/storage"
)

// ErrTransitionOpen is returned by Begin when a transition is already in
// progress.
var ErrTransitionOpen = errors.New("state: transition already open")

// Manager is the ledger store: named records RLP-encoded under keccak-hashed
// keys on a pluggable key-value backend. Mutations made between Begin and
// Commit are buffered in an overlay, so a reverted transition leaves the
// backend byte-identical to its pre-transition state.
//
// Manager is not safe for concurrent use; transitions are externally
// serialized.
type Manager struct {
	db      storage.Database
	writes  map[string][]byte
	deletes map[string]struct{}
	open    bool
}

// NewManager creates a ledger manager on top of the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{
		db:      db,
		writes:  make(map[string][]byte),
		deletes: make(map[string]struct{}),
	}
}

// Begin opens a buffered transition. All subsequent mutations stay in the
// overlay until Commit.
func (m *Manager) Begin() error {
	if m.open {
		return ErrTransitionOpen
	}
	m.open = true
	return nil
}

// Commit flushes the overlay to the backing database and closes the
// transition. Commit outside a transition is a no-op.
func (m *Manager) Commit() error {
	for key, value := range m.writes {
		if err := m.db.Put([]byte(key), value); err != nil {
			return fmt.Errorf("state: commit write: %w", err)
		}
	}
	for key := range m.deletes {
		if err := m.db.Delete([]byte(key)); err != nil {
			return fmt.Errorf("state: commit delete: %w", err)
		}
	}
	m.reset()
	return nil
}

// Revert drops the overlay and closes the transition. Nothing reaches the
// backing database.
func (m *Manager) Revert() {
	m.reset()
}

func (m *Manager) reset() {
	m.writes = make(map[string][]byte)
	m.deletes = make(map[string]struct{})
	m.open = false
}

func storageKey(key []byte) []byte {
	return ethcrypto.Keccak256(key)
}

func (m *Manager) kvPut(key []byte, value interface{}) error {
	if len(key) == 0 {
		return fmt.Errorf("state: key must not be empty")
	}
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	hashed := storageKey(key)
	if !m.open {
		return m.db.Put(hashed, encoded)
	}
	delete(m.deletes, string(hashed))
	m.writes[string(hashed)] = encoded
	return nil
}

func (m *Manager) kvGet(key []byte, out interface{}) (bool, error) {
	if len(key) == 0 {
		return false, fmt.Errorf("state: key must not be empty")
	}
	hashed := storageKey(key)
	var data []byte
	if buffered, ok := m.writes[string(hashed)]; ok {
		data = buffered
	} else if _, deleted := m.deletes[string(hashed)]; deleted {
		return false, nil
	} else {
		stored, err := m.db.Get(hashed)
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		data = stored
	}
	if len(data) == 0 {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Manager) kvHas(key []byte) (bool, error) {
	if len(key) == 0 {
		return false, fmt.Errorf("state: key must not be empty")
	}
	hashed := storageKey(key)
	if _, ok := m.writes[string(hashed)]; ok {
		return true, nil
	}
	if _, deleted := m.deletes[string(hashed)]; deleted {
		return false, nil
	}
	return m.db.Has(hashed)
}

func (m *Manager) kvDelete(key []byte) error {
	if len(key) == 0 {
		return fmt.Errorf("state: key must not be empty")
	}
	hashed := storageKey(key)
	if !m.open {
		return m.db.Delete(hashed)
	}
	delete(m.writes, string(hashed))
	m.deletes[string(hashed)] = struct{}{}
	return nil
}
