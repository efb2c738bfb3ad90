// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reputation

import "time"

// Config holds the reputation ledger's tunable parameters.
type Config struct {
	// InitialReputation is the score assigned to a node on first reference.
	InitialReputation float64
	// MaxReputation and MinReputation bound every entry's score.
	MaxReputation float64
	MinReputation float64
	// DecayRate is the linear amount subtracted per full DecayInterval
	// elapsed since an entry's LastUpdate.
	DecayRate float64
	// DecayInterval is the wall-clock period a DecayRate applies over.
	DecayInterval time.Duration
	// ReputationThreshold is the eligibility cutoff on a 0..1 scale,
	// applied against MaxReputation to derive an absolute score cutoff.
	ReputationThreshold float64
	// SelectionFloor is subtracted from each score before weighted
	// selection. A node whose score is at or below it gets the fixed
	// epsilonWeight instead, so it retains a vanishingly small but
	// nonzero chance of selection.
	SelectionFloor float64
	// HistoryDepth caps the number of retained (timestamp, delta, reason)
	// events per node.
	HistoryDepth int
	// MaliciousPenalties maps each MaliciousKind to its fixed negative
	// delta. DoubleSigning must, alone, be severe enough to drop any
	// starting score below EligibilityScore().
	MaliciousPenalties map[MaliciousKind]float64
}

// DefaultConfig returns the production defaults, grounded in the original
// QNet reputation_audit.rs fixture values.
func DefaultConfig() Config {
	return Config{
		InitialReputation:   70.0,
		MaxReputation:       100.0,
		MinReputation:       0.0,
		DecayRate:           1.0,
		DecayInterval:       time.Hour,
		ReputationThreshold: 0.70,
		SelectionFloor:      1.0,
		HistoryDepth:        64,
		MaliciousPenalties: map[MaliciousKind]float64{
			DoubleSigning:        -100.0, // alone, drops any score below threshold
			InvalidBlockProposal: -20.0,
			FailedReveal:         -5.0,
			InvalidCommit:        -10.0,
			Unresponsive:         -3.0,
			Spam:                 -2.0,
		},
	}
}

// EligibilityScore returns the absolute score cutoff derived from
// ReputationThreshold and MaxReputation.
func (c Config) EligibilityScore() float64 {
	return c.ReputationThreshold * c.MaxReputation
}

// PenaltyFor returns the configured delta for a malicious kind, falling
// back to a conservative default if the config map omits it.
func (c Config) PenaltyFor(kind MaliciousKind) float64 {
	if d, ok := c.MaliciousPenalties[kind]; ok {
		return d
	}
	return -1.0
}
