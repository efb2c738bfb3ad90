// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import (
	"sync"
	"time"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/qnet-consensus/leader"
	"github.com/luxfi/qnet-consensus/reputation"
	"github.com/luxfi/qnet-consensus/timing"
	"github.com/luxfi/qnet-consensus/utils"
	"github.com/luxfi/qnet-consensus/utils/constants"
	"github.com/luxfi/qnet-consensus/utils/formatting"
	"github.com/luxfi/qnet-consensus/version"
)

// historyCap bounds the in-memory finalized/failed round history used by
// MacroSnapshot; old entries are dropped once exceeded.
const historyCap = 1024

// PhaseTransition describes a transition TryAdvance performed. Result is
// set only when To is Finalized or Failed.
type PhaseTransition struct {
	From   Phase
	To     Phase
	Result *RoundResult
}

// Engine is the single-writer-per-round commit-reveal state machine. All
// mutation is serialized under one mutex, matching the "dedicated
// coordinator owns the round state" model spec.md §5 describes; the
// contract is the transition table, not this particular control-flow
// shape.
type Engine struct {
	mu      sync.Mutex
	cfg     Config
	ledger  *reputation.Ledger
	sel     *leader.Selector
	timing  *timing.Controller
	log     log.Logger
	metrics *engineMetrics

	cur             *round
	quorum          *quorumTracker
	lastObservation time.Time
	history         []RoundResult
	protocolVersion version.Application
}

// NewEngine constructs an Engine. logger and reg may be nil.
func NewEngine(cfg Config, ledger *reputation.Ledger, sel *leader.Selector, tc *timing.Controller, logger log.Logger, reg prometheus.Registerer) (*Engine, error) {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	m, err := newEngineMetrics(reg)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:             cfg,
		ledger:          ledger,
		sel:             sel,
		timing:          tc,
		log:             logger,
		metrics:         m,
		quorum:          newQuorumTracker(cfg.MinParticipants),
		protocolVersion: cfg.ProtocolVersion,
	}, nil
}

// clampClock enforces monotonic progress: a clock regression is clamped
// to the last observed instant rather than propagated.
func (e *Engine) clampClock(now time.Time) time.Time {
	if now.Before(e.lastObservation) {
		now = e.lastObservation
	}
	e.lastObservation = now
	return now
}

// CurrentPhase returns Idle when no round is active.
func (e *Engine) CurrentPhase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cur == nil {
		return Idle
	}
	return e.cur.phase
}

// RoundSnapshot returns a read-only view of the in-progress round, and
// false if no round is active (Idle between rounds).
func (e *Engine) RoundSnapshot() (RoundView, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cur == nil {
		return RoundView{}, false
	}
	return e.cur.view(), true
}

// BeginRound opens a new round. eligible is frozen for the round's
// lifetime: concurrent reputation changes never alter who is seated.
func (e *Engine) BeginRound(roundID uint64, beacon []byte, eligible []ids.NodeID, now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cur != nil && e.cur.phase != Finalized && e.cur.phase != Failed {
		return newError(InvalidPhase, ids.EmptyNodeID, "round already in progress")
	}

	now = e.clampClock(now)
	r := newRound(roundID, beacon, eligible, now)
	e.quorum.Reset()

	if len(eligible) == 0 {
		e.recordOpenFailureLocked(r, InsufficientNodes, now)
		e.log.Warn("round opened failed: empty eligible snapshot", "round", roundID)
		return newError(InsufficientNodes, ids.EmptyNodeID, "empty eligible snapshot")
	}

	leaderID, ok := e.sel.SelectLeader(eligible, beacon)
	if !ok {
		e.recordOpenFailureLocked(r, LeaderSelectionFailed, now)
		return newError(LeaderSelectionFailed, ids.EmptyNodeID, "no selectable leader")
	}
	r.leader = leaderID

	commitDur, revealDur := e.timing.Suggest()
	r.commitDeadline = now.Add(commitDur)
	r.revealDeadline = r.commitDeadline.Add(revealDur)
	r.phase = CommitPhase

	e.cur = r
	e.metrics.roundsStarted.Inc()
	e.log.Info("round started", "round", roundID, "leader", leaderID.String(), "eligible", len(eligible))
	return nil
}

// recordOpenFailureLocked marks a round Failed before it ever reaches
// Commit (empty snapshot or no selectable leader), records it to history,
// and resets the engine to Idle. Caller must hold e.mu.
func (e *Engine) recordOpenFailureLocked(r *round, kind Kind, now time.Time) {
	r.phase = Failed
	result := RoundResult{
		RoundID:         r.roundID,
		Success:         false,
		FailureKind:     kind,
		FinalizedAt:     now,
		Duration:        now.Sub(r.openedAt),
		ProtocolVersion: e.protocolVersion,
	}
	e.history = append(e.history, result)
	if len(e.history) > historyCap {
		e.history = e.history[len(e.history)-historyCap:]
	}
	e.metrics.roundsFailed.Inc()
	e.cur = nil
}

// SubmitCommit is accepted iff the round is in Commit phase, now is
// within the commit deadline, the node is in the eligible snapshot, and
// it has no prior commit this round. A conflicting-hash resubmission is
// double-signing; a byte-identical resubmission is rejected as a
// duplicate (not treated as idempotent).
func (e *Engine) SubmitCommit(c Commit, now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := e.cur
	if r == nil {
		return newError(NoActiveRound, c.NodeID, "")
	}
	now = e.clampClock(now)
	if r.phase != CommitPhase {
		return newError(InvalidPhase, c.NodeID, "not in commit phase")
	}
	if now.After(r.commitDeadline) {
		return newError(PhaseTimeout, c.NodeID, "commit deadline passed")
	}
	if !r.eligible.Contains(c.NodeID) {
		return newError(ReputationTooLow, c.NodeID, "not in eligible snapshot")
	}

	if existing, ok := r.commits[c.NodeID]; ok {
		if existing.CommitHash == c.CommitHash {
			e.ledger.RecordMalicious(c.NodeID, reputation.InvalidCommit)
			return newError(DuplicateCommit, c.NodeID, "duplicate commit")
		}
		r.doubleSigners.Add(c.NodeID)
		e.ledger.RecordMalicious(c.NodeID, reputation.DoubleSigning)
		e.metrics.doubleSigns.Inc()
		e.log.Warn("double signing detected", "node", c.NodeID.String(), "round", r.roundID,
			"prior_commit_hash", hex32(existing.CommitHash), "new_commit_hash", hex32(c.CommitHash))
		return newError(DoubleSigningDetected, c.NodeID, "conflicting commit hash in this round")
	}

	r.commits[c.NodeID] = c
	if len(r.commits) >= len(r.eligible) {
		e.advanceToRevealLocked(now)
	}
	return nil
}

// SubmitReveal is accepted iff the round is in Reveal phase, now is
// within the reveal deadline, a matching non-double-signing commit
// exists, and the preimage hashes to that commit's commit_hash.
func (e *Engine) SubmitReveal(rv Reveal, now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := e.cur
	if r == nil {
		return newError(NoActiveRound, rv.NodeID, "")
	}
	now = e.clampClock(now)
	if r.phase != RevealPhase {
		return newError(InvalidPhase, rv.NodeID, "not in reveal phase")
	}
	if now.After(r.revealDeadline) {
		return newError(PhaseTimeout, rv.NodeID, "reveal deadline passed")
	}
	if r.doubleSigners.Contains(rv.NodeID) {
		return newError(InvalidReveal, rv.NodeID, "node excluded for double signing")
	}
	c, ok := r.commits[rv.NodeID]
	if !ok {
		return newError(InvalidReveal, rv.NodeID, "no matching commit")
	}
	if _, already := r.reveals[rv.NodeID]; already {
		e.ledger.RecordMalicious(rv.NodeID, reputation.InvalidCommit)
		return newError(DuplicateReveal, rv.NodeID, "duplicate reveal")
	}
	if ComputeCommitHash(rv.NodeID, rv.Value, rv.Nonce) != c.CommitHash {
		e.ledger.RecordMalicious(rv.NodeID, reputation.InvalidCommit)
		return newError(InvalidReveal, rv.NodeID, "preimage does not match commit_hash")
	}

	r.reveals[rv.NodeID] = rv
	e.quorum.Add(rv.NodeID)
	return nil
}

// TryAdvance performs deadline- and quorum-driven transitions and
// returns the transition taken, or nil if none applied yet.
func (e *Engine) TryAdvance(now time.Time) (*PhaseTransition, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := e.cur
	if r == nil {
		return nil, newError(NoActiveRound, ids.EmptyNodeID, "")
	}
	now = e.clampClock(now)

	switch r.phase {
	case CommitPhase:
		if now.Before(r.commitDeadline) {
			return nil, nil
		}
		return e.advanceToRevealLocked(now), nil

	case RevealPhase:
		qr := e.quorum.Check()
		allCommitsMatched := len(r.reveals) == len(r.commits)
		deadlineHit := !now.Before(r.revealDeadline)

		if !deadlineHit && !(allCommitsMatched && qr.ValidCount >= e.cfg.MinParticipants) {
			return nil, nil
		}
		result := e.finalizeLocked(now)
		to := Finalized
		if !result.Success {
			to = Failed
		}
		return &PhaseTransition{From: RevealPhase, To: to, Result: result}, nil

	default:
		return nil, nil
	}
}

// advanceToRevealLocked transitions Commit to Reveal. Caller must hold
// e.mu and have already verified r.phase == CommitPhase.
func (e *Engine) advanceToRevealLocked(now time.Time) *PhaseTransition {
	r := e.cur
	from := r.phase
	r.phase = RevealPhase
	e.quorum.SetTotalCommits(len(r.commits))
	e.log.Info("round advanced to reveal", "round", r.roundID, "commits", len(r.commits))
	return &PhaseTransition{From: from, To: RevealPhase}
}

// Finalize explicitly drives the Reveal -> Finalized/Failed transition.
// try_advance calls the same internal path when its own conditions are
// met; this entry point lets a caller finalize as soon as it independently
// knows quorum was reached, without waiting for a subsequent poll.
func (e *Engine) Finalize() (*RoundResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := e.cur
	if r == nil || r.phase != RevealPhase {
		return nil, newError(InvalidPhase, ids.EmptyNodeID, "not in reveal phase")
	}
	return e.finalizeLocked(e.lastObservation), nil
}

// finalizeLocked computes the round outcome, applies reputation rewards
// and penalties, records history, and resets the engine to Idle. Caller
// must hold e.mu.
func (e *Engine) finalizeLocked(now time.Time) *RoundResult {
	r := e.cur
	qr := e.quorum.Check()

	result := &RoundResult{
		RoundID:         r.roundID,
		Leader:          r.leader,
		FinalizedAt:     now,
		Duration:        now.Sub(r.openedAt),
		ProtocolVersion: e.protocolVersion,
	}

	if !qr.Achieved {
		result.Success = false
		result.FailureKind = InsufficientReveals
		e.penalizeMissingRevealersLocked(r)
		e.log.Warn("round failed", "round", r.roundID, "valid_reveals", qr.ValidCount, "required_min", qr.RequiredMin, "required_frac", qr.RequiredFrac)
		e.metrics.roundsFailed.Inc()
	} else {
		participants := append([]ids.NodeID(nil), qr.ValidRevealers...)
		utils.Sort(participants, func(i, j int) bool {
			return participants[i].String() < participants[j].String()
		})
		beaconOut := computeBeaconOut(r, participants)

		for _, id := range participants {
			e.ledger.ApplyEvent(id, e.cfg.RewardDelta, "reveal reward")
		}
		e.penalizeMissingRevealersLocked(r)

		result.Success = true
		result.Participants = participants
		result.BeaconOut = beaconOut
		e.log.Info("round finalized", "round", r.roundID, "participants", len(participants), "beacon_out", hex32(beaconOut), "protocol_version", e.protocolVersion.String())
		e.metrics.roundsFinalized.Inc()
	}

	r.phase = Finalized
	if !result.Success {
		r.phase = Failed
	}

	e.timing.RecordRoundDuration(result.Duration)
	e.history = append(e.history, *result)
	if len(e.history) > historyCap {
		e.history = e.history[len(e.history)-historyCap:]
	}
	e.cur = nil
	return result
}

// penalizeMissingRevealersLocked applies FailedReveal malice to every
// committer that never produced a valid reveal, excluding nodes already
// slashed for double signing. Caller must hold e.mu.
func (e *Engine) penalizeMissingRevealersLocked(r *round) {
	for nodeID := range r.commits {
		if r.doubleSigners.Contains(nodeID) {
			continue
		}
		if _, revealed := r.reveals[nodeID]; revealed {
			continue
		}
		e.ledger.RecordMalicious(nodeID, reputation.FailedReveal)
	}
}

// MacroSnapshot summarizes the last RotationBlocks finalized/failed
// rounds into a macroblock-style checkpoint.
func (e *Engine) MacroSnapshot(now time.Time) MacroResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := e.cfg.RotationBlocks
	if n <= 0 || n > len(e.history) {
		n = len(e.history)
	}
	start := len(e.history) - n
	subset := append([]RoundResult(nil), e.history[start:]...)

	result := MacroResult{Rounds: subset, GeneratedAt: now}
	if len(subset) > 0 {
		result.FromRound = subset[0].RoundID
		result.ToRound = subset[len(subset)-1].RoundID
		result.NextLeader = subset[len(subset)-1].Leader
	}
	return result
}

// hex32 renders a 32-byte digest for logging, per spec.md §6's wire
// format convention for commit_hash and beacon_out.
func hex32(b [constants.HashLen]byte) string {
	s, _ := formatting.Encode(formatting.HexNC, b[:])
	return s
}
