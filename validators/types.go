// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package validators tracks the reputation-gated candidate pool the
// consensus engine draws its eligible snapshot from: no BLS keys, stake
// weights, or subnets — just node type and the ledger's own score.
package validators

import "github.com/luxfi/ids"

// NodeType biases selection priors without overriding reputation gating.
type NodeType int

const (
	Light NodeType = iota
	Full
	Super
)

func (t NodeType) String() string {
	switch t {
	case Light:
		return "Light"
	case Full:
		return "Full"
	case Super:
		return "Super"
	default:
		return "Unknown"
	}
}

// Candidate is a validator candidate as seen by the Set: identity, node
// type, and its last-known reputation/stake. Reputation here is a cached
// read for display purposes; the ledger (not this struct) is the source
// of truth consulted at selection time.
type Candidate struct {
	NodeID        ids.NodeID
	NodeType      NodeType
	Reputation    float64
	StakeOrWeight uint64
}

// Set is a read-only view over a validator candidate pool.
type Set interface {
	Len() int
	Has(nodeID ids.NodeID) bool
	Get(nodeID ids.NodeID) (Candidate, bool)
	List() []Candidate
}

// SetCallbackListener is notified of candidate-pool changes, mirroring
// the teacher's validator-set callback idiom.
type SetCallbackListener interface {
	OnValidatorAdded(nodeID ids.NodeID, candidate Candidate)
	OnValidatorRemoved(nodeID ids.NodeID)
}
