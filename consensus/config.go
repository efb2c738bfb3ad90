// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import (
	"time"

	"github.com/luxfi/qnet-consensus/version"
)

// Config holds the commit-reveal engine's tunable parameters.
type Config struct {
	// MinParticipants is the absolute lower bound on valid reveals for a
	// round to finalize; must be ≥ 3f+1 for the Byzantine tolerance the
	// caller intends (default 4 = 3·1+1).
	MinParticipants int
	// MaxParticipants is the configured upper bound on a round's eligible
	// snapshot size. BeginRound does not check the snapshot against it.
	MaxParticipants int
	// MaxValidatorsPerRound bounds validator sampling when
	// EnableValidatorSampling is set.
	MaxValidatorsPerRound int
	// EnableValidatorSampling selects top-K by reputation instead of the
	// full eligible set when sizing a round's participant pool upstream.
	EnableValidatorSampling bool
	// RewardDelta is applied to every valid revealer on a successful
	// finalize.
	RewardDelta float64
	// RotationBlocks sizes the window MacroSnapshot summarizes (the last
	// RotationBlocks rounds); MacroblockInterval records the matching
	// wall-clock cadence and is not read by MacroSnapshot. Ported from the
	// original's ROTATION_INTERVAL_BLOCKS / MACROBLOCK_INTERVAL_SECONDS
	// constants.
	RotationBlocks     int
	MacroblockInterval time.Duration
	// ProtocolVersion is stamped onto every RoundResult this engine
	// produces, so downstream consumers (gossip, macroblock checkpoints)
	// can tell which build of the consensus core finalized a round.
	ProtocolVersion version.Application
}

// DefaultConfig returns the production defaults: min_participants = 4
// (3f+1, f=1), a +2.0 reveal reward, and the original QNet macroblock
// cadence of 30 rounds / 90 seconds.
func DefaultConfig() Config {
	return Config{
		MinParticipants:         4,
		MaxParticipants:         256,
		MaxValidatorsPerRound:   64,
		EnableValidatorSampling: false,
		RewardDelta:             2.0,
		RotationBlocks:          30,
		MacroblockInterval:      90 * time.Second,
		ProtocolVersion:         *version.DefaultVersion(),
	}
}
