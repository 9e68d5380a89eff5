package state

import (
	"errors"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// ErrAssetNotFound is returned when metadata is attached to an unknown asset.
var ErrAssetNotFound = errors.New("state: asset not found")

// Asset is a unique, non-fungible unit issued for a coupon. The reference is
// derived from a monotonic issuance sequence, so no two Issue calls ever
// yield the same reference.
type Asset struct {
	Ref      [32]byte
	Owner    [20]byte
	Sequence uint64
	Name     string
	Symbol   string
	URI      string
}

type storedAsset struct {
	Owner    [20]byte
	Sequence uint64
	Name     string
	Symbol   string
	URI      string
}

// IssueAsset mints a fresh non-fungible unit owned by the given address and
// returns its unique reference.
func (m *Manager) IssueAsset(owner [20]byte) ([32]byte, error) {
	var sequence uint64
	if _, err := m.kvGet(assetSequenceKey, &sequence); err != nil {
		return [32]byte{}, err
	}
	ref := ethcrypto.Keccak256Hash(prefixedUint64(assetPrefix, sequence))
	if err := m.kvPut(prefixedID(assetPrefix, ref), &storedAsset{Owner: owner, Sequence: sequence}); err != nil {
		return [32]byte{}, err
	}
	if err := m.kvPut(assetSequenceKey, sequence+1); err != nil {
		return [32]byte{}, err
	}
	return ref, nil
}

// SetAssetMetadata attaches descriptive metadata to an issued asset.
func (m *Manager) SetAssetMetadata(ref [32]byte, name, symbol, uri string) error {
	stored := new(storedAsset)
	ok, err := m.kvGet(prefixedID(assetPrefix, ref), stored)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAssetNotFound
	}
	stored.Name = strings.TrimSpace(name)
	stored.Symbol = strings.TrimSpace(symbol)
	stored.URI = strings.TrimSpace(uri)
	return m.kvPut(prefixedID(assetPrefix, ref), stored)
}

// AssetGet loads an issued asset by reference.
func (m *Manager) AssetGet(ref [32]byte) (*Asset, bool, error) {
	stored := new(storedAsset)
	ok, err := m.kvGet(prefixedID(assetPrefix, ref), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &Asset{
		Ref:      ref,
		Owner:    stored.Owner,
		Sequence: stored.Sequence,
		Name:     stored.Name,
		Symbol:   stored.Symbol,
		URI:      stored.URI,
	}, true, nil
}
