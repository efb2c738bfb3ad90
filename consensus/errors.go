// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import (
	"fmt"

	"github.com/luxfi/ids"
)

// Kind enumerates the engine's structured error taxonomy, ported from the
// original consensus errors.rs enum.
type Kind int

const (
	InvalidCommit Kind = iota
	InvalidReveal
	DuplicateCommit
	DuplicateReveal
	DoubleSigningDetected
	InsufficientReveals
	InsufficientNodes
	RoundTimeout
	PhaseTimeout
	NoActiveRound
	InvalidPhase
	LeaderSelectionFailed
	ReputationTooLow
	Internal
)

func (k Kind) String() string {
	switch k {
	case InvalidCommit:
		return "InvalidCommit"
	case InvalidReveal:
		return "InvalidReveal"
	case DuplicateCommit:
		return "DuplicateCommit"
	case DuplicateReveal:
		return "DuplicateReveal"
	case DoubleSigningDetected:
		return "DoubleSigningDetected"
	case InsufficientReveals:
		return "InsufficientReveals"
	case InsufficientNodes:
		return "InsufficientNodes"
	case RoundTimeout:
		return "RoundTimeout"
	case PhaseTimeout:
		return "PhaseTimeout"
	case NoActiveRound:
		return "NoActiveRound"
	case InvalidPhase:
		return "InvalidPhase"
	case LeaderSelectionFailed:
		return "LeaderSelectionFailed"
	case ReputationTooLow:
		return "ReputationTooLow"
	case Internal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Error is the engine's structured error type. Zero-value fields not
// relevant to Kind are simply unset.
type Error struct {
	Kind       Kind
	NodeID     ids.NodeID
	Message    string
	Actual     int
	Required   int
	Reputation float64
	Threshold  float64
}

func (e *Error) Error() string {
	switch e.Kind {
	case InsufficientReveals:
		return fmt.Sprintf("insufficient reveals: %d < %d", e.Actual, e.Required)
	case ReputationTooLow:
		return fmt.Sprintf("reputation too low: %.2f < %.2f", e.Reputation, e.Threshold)
	case DuplicateCommit, DuplicateReveal, DoubleSigningDetected:
		return fmt.Sprintf("%s from node: %s", e.Kind, e.NodeID)
	default:
		if e.Message != "" {
			return fmt.Sprintf("%s: %s", e.Kind, e.Message)
		}
		return e.Kind.String()
	}
}

// Is reports whether target is an *Error with the same Kind, enabling
// errors.Is(err, &consensus.Error{Kind: consensus.InvalidPhase}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, nodeID ids.NodeID, message string) *Error {
	return &Error{Kind: kind, NodeID: nodeID, Message: message}
}
