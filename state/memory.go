// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import "sync"

// MemorySource is a minimal in-memory Source, sufficient for tests and
// single-node development; it is not a production state machine.
type MemorySource struct {
	mu       sync.RWMutex
	accounts map[string]uint64 // address -> expected next nonce
}

// NewMemorySource constructs an empty MemorySource.
func NewMemorySource() *MemorySource {
	return &MemorySource{accounts: make(map[string]uint64)}
}

// SetExpectedNonce creates or updates addr's expected nonce, as a real
// state machine would after applying a transaction.
func (m *MemorySource) SetExpectedNonce(addr string, nonce uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[addr] = nonce
}

// ExpectedNonce implements Source.
func (m *MemorySource) ExpectedNonce(addr string) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	nonce, ok := m.accounts[addr]
	if !ok {
		return 0, ErrUnknownAccount
	}
	return nonce, nil
}

// AccountExists implements Source.
func (m *MemorySource) AccountExists(addr string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.accounts[addr]
	return ok, nil
}
