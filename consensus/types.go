// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package consensus implements the commit-reveal engine: a single-writer-
// per-round state machine that gates participation by a frozen eligible
// snapshot, verifies reveals against their commits, and aggregates the
// next round's beacon from the sorted reveal set.
package consensus

import (
	"time"

	"github.com/luxfi/ids"
	"github.com/luxfi/qnet-consensus/set"
	"github.com/luxfi/qnet-consensus/utils/constants"
	"github.com/luxfi/qnet-consensus/version"
)

// Phase is the commit-reveal round's current state.
type Phase int

const (
	Idle Phase = iota
	CommitPhase
	RevealPhase
	Finalized
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "Idle"
	case CommitPhase:
		return "Commit"
	case RevealPhase:
		return "Reveal"
	case Finalized:
		return "Finalized"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Commit binds a node to a secret value ahead of the reveal phase.
type Commit struct {
	RoundID    uint64
	NodeID     ids.NodeID
	CommitHash [constants.HashLen]byte
	Timestamp  time.Time
}

// Reveal is the pre-image matching a prior Commit.
type Reveal struct {
	RoundID   uint64
	NodeID    ids.NodeID
	Value     []byte
	Nonce     [constants.HashLen]byte
	Timestamp time.Time
}

// RoundResult is the terminal outcome of a finalized or failed round.
type RoundResult struct {
	RoundID         uint64
	Success         bool
	Leader          ids.NodeID
	Participants    []ids.NodeID
	BeaconOut       [constants.HashLen]byte
	FinalizedAt     time.Time
	Duration        time.Duration
	FailureKind     Kind // zero value when Success is true
	ProtocolVersion version.Application
}

// RoundView is a read-only snapshot of the current round, safe to hand to
// callers without exposing the engine's internal maps.
type RoundView struct {
	RoundID        uint64
	Phase          Phase
	OpenedAt       time.Time
	CommitDeadline time.Time
	RevealDeadline time.Time
	BeaconIn       []byte
	Leader         ids.NodeID
	Commits        map[ids.NodeID]Commit
	Reveals        map[ids.NodeID]Reveal
	Eligible       []ids.NodeID
}

// MacroResult aggregates the last N finalized/failed rounds into a
// macroblock-style checkpoint, ported from the original's
// MacroConsensusResult.
type MacroResult struct {
	FromRound   uint64
	ToRound     uint64
	Rounds      []RoundResult
	NextLeader  ids.NodeID
	GeneratedAt time.Time
}

type round struct {
	roundID        uint64
	phase          Phase
	openedAt       time.Time
	commitDeadline time.Time
	revealDeadline time.Time
	beaconIn       []byte
	leader         ids.NodeID
	eligible       set.Set[ids.NodeID]
	commits        map[ids.NodeID]Commit
	reveals        map[ids.NodeID]Reveal
	doubleSigners  set.Set[ids.NodeID]
}

func newRound(roundID uint64, beacon []byte, eligible []ids.NodeID, now time.Time) *round {
	return &round{
		roundID:       roundID,
		phase:         Idle,
		openedAt:      now,
		beaconIn:      beacon,
		eligible:      set.Of(eligible...),
		commits:       make(map[ids.NodeID]Commit),
		reveals:       make(map[ids.NodeID]Reveal),
		doubleSigners: set.Set[ids.NodeID]{},
	}
}

func (r *round) view() RoundView {
	commits := make(map[ids.NodeID]Commit, len(r.commits))
	for k, v := range r.commits {
		commits[k] = v
	}
	reveals := make(map[ids.NodeID]Reveal, len(r.reveals))
	for k, v := range r.reveals {
		reveals[k] = v
	}
	eligible := r.eligible.List()
	return RoundView{
		RoundID:        r.roundID,
		Phase:          r.phase,
		OpenedAt:       r.openedAt,
		CommitDeadline: r.commitDeadline,
		RevealDeadline: r.revealDeadline,
		BeaconIn:       r.beaconIn,
		Leader:         r.leader,
		Commits:        commits,
		Reveals:        reveals,
		Eligible:       eligible,
	}
}
