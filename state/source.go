// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package state defines the minimal canonical-state surface the mempool
// needs — account existence and the next expected nonce — without
// importing a full state machine or persistence layer (out of scope for
// this core).
package state

import "errors"

// ErrUnknownAccount is returned by ExpectedNonce for an address with no
// account record.
var ErrUnknownAccount = errors.New("state: unknown account")

// Source is the canonical-state collaborator the mempool consults for
// nonce-ordering and account-existence checks. A production node backs
// this with its real account/state tree; this core only depends on the
// interface.
type Source interface {
	// ExpectedNonce returns the next nonce canonical state expects from
	// addr, or ErrUnknownAccount if addr has no account record yet (a
	// brand-new account's expected nonce is 0).
	ExpectedNonce(addr string) (uint64, error)
	// AccountExists reports whether addr has any canonical state.
	AccountExists(addr string) (bool, error)
}
