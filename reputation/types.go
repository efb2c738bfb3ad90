// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package reputation implements the per-node reputation ledger that backs
// leader selection and validator eligibility: bounded score updates, decay,
// malicious-behavior slashing, and beacon-seeded weighted selection.
package reputation

import (
	"time"

	"github.com/luxfi/ids"
)

// MaliciousKind enumerates the fixed set of slashable behaviors. Numeric
// penalties are policy (Config), not wire data.
type MaliciousKind int

const (
	DoubleSigning MaliciousKind = iota
	InvalidBlockProposal
	FailedReveal
	InvalidCommit
	Unresponsive
	Spam
)

func (k MaliciousKind) String() string {
	switch k {
	case DoubleSigning:
		return "DoubleSigning"
	case InvalidBlockProposal:
		return "InvalidBlockProposal"
	case FailedReveal:
		return "FailedReveal"
	case InvalidCommit:
		return "InvalidCommit"
	case Unresponsive:
		return "Unresponsive"
	case Spam:
		return "Spam"
	default:
		return "Unknown"
	}
}

// Event is one recorded reputation change.
type Event struct {
	Timestamp time.Time
	Delta     float64
	Reason    string
}

// Snapshot is a read-only view of a node's reputation entry. No Ledger
// method returns one.
type Snapshot struct {
	NodeID         ids.NodeID
	Score          float64
	LastUpdate     time.Time
	History        []Event
	MaliciousCount map[MaliciousKind]int
}
