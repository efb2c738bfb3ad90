// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package mempool holds pending transactions between admission and block
// assembly: a priority index ordered by (gas_price desc, timestamp asc,
// hash asc) for leader selection, and per-sender nonce-ordered queues
// that enforce the contiguous-run invariant a leader depends on to
// assemble an executable block.
package mempool

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/log"
	"github.com/luxfi/qnet-consensus/mempool/txtypes"
	"github.com/luxfi/qnet-consensus/state"
	"github.com/luxfi/qnet-consensus/utils"
	"github.com/luxfi/qnet-consensus/utils/linked"
	safemath "github.com/luxfi/qnet-consensus/utils/math"
	"github.com/luxfi/qnet-consensus/validator"
)

// Stats summarizes the pool's current contents.
type Stats struct {
	Total         int
	UniqueSenders int
	AvgGasPrice   float64
	OldestAge     time.Duration
}

// Pool is the mempool's admission, ordering and eviction surface.
type Pool struct {
	mu sync.Mutex

	cfg     Config
	log     log.Logger
	metrics *poolMetrics
	val     validator.Validator
	source  state.Source // optional; nil skips the gap-tolerance floor check
	closed  *utils.AtomicBool

	byHash   map[string]txtypes.Transaction
	bySender map[string]*linked.Hashmap[uint64, txtypes.Transaction]
}

// NewPool constructs a Pool. val performs per-transaction admission
// validation; source, if non-nil, supplies the canonical expected nonce
// used to bound a sender's first queued entry within GapTolerance; reg,
// if non-nil, receives the pool's prometheus collectors.
func NewPool(cfg Config, val validator.Validator, source state.Source, logger log.Logger, reg prometheus.Registerer) (*Pool, error) {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	m, err := newPoolMetrics(reg)
	if err != nil {
		return nil, err
	}
	return &Pool{
		cfg:      cfg,
		log:      logger.With("component", "mempool"),
		metrics:  m,
		val:      val,
		source:   source,
		closed:   utils.NewAtomicBool(false),
		byHash:   make(map[string]txtypes.Transaction),
		bySender: make(map[string]*linked.Hashmap[uint64, txtypes.Transaction]),
	}, nil
}

// Close stops the pool from admitting further transactions; queued
// transactions remain readable via Get/ForSender/Top until the caller
// drains them.
func (p *Pool) Close() {
	p.closed.Set(true)
}

// Add validates and admits tx. It performs the synchronous basic check,
// then the asynchronous state-dependent check, before taking the pool
// lock to re-validate admission invariants under a double-check
// pattern: the unlocked validation avoids blocking validation work
// behind the lock, and the locked re-check is the one that actually
// decides admission.
func (p *Pool) Add(ctx context.Context, now time.Time, tx txtypes.Transaction) error {
	if p.closed.Get() {
		p.reject("pool_closed")
		return newError(Internal, tx.Hash, tx.From, tx.Nonce, "pool is closed")
	}
	if basic := p.val.ValidateBasic(tx); !basic.Valid {
		p.reject("invalid_transaction")
		return newError(InvalidTransaction, tx.Hash, tx.From, tx.Nonce, basic.Reason)
	}
	if tx.GasPrice < p.cfg.MinGasPrice {
		p.reject("gas_price_too_low")
		return newError(GasPriceTooLow, tx.Hash, tx.From, tx.Nonce, "below minimum gas price")
	}

	result, err := p.val.Validate(ctx, tx)
	if err != nil {
		p.reject("state_error")
		return newError(StateError, tx.Hash, tx.From, tx.Nonce, err.Error())
	}
	if !result.Valid {
		p.reject("validation_failed")
		return newError(ValidationFailed, tx.Hash, tx.From, tx.Nonce, result.Reason)
	}

	if tx.Timestamp.IsZero() {
		tx.Timestamp = now
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byHash[tx.Hash]; exists {
		p.reject("duplicate")
		return newError(DuplicateTransaction, tx.Hash, tx.From, tx.Nonce, "already present")
	}

	existing := p.bySender[tx.From]
	if err := p.checkNonceLocked(existing, tx.From, tx.Nonce); err != nil {
		p.reject(err.Kind.String())
		return err
	}
	if existing != nil && existing.Len() >= p.cfg.MaxPerSender {
		p.reject("account_limit_exceeded")
		return newError(AccountLimitExceeded, tx.Hash, tx.From, tx.Nonce, "per-sender limit reached")
	}

	if len(p.byHash) >= p.cfg.MaxSize {
		if !p.evictOneLocked(now) {
			p.reject("mempool_full")
			return newError(MempoolFull, tx.Hash, tx.From, tx.Nonce, "at capacity")
		}
	}

	p.byHash[tx.Hash] = tx
	p.senderQueueLocked(tx.From).Put(tx.Nonce, tx)

	p.metrics.admitted.Inc()
	p.metrics.size.Set(float64(len(p.byHash)))
	p.log.Debug("admitted transaction", "hash", tx.Hash, "from", tx.From, "nonce", tx.Nonce)
	return nil
}

// checkNonceLocked enforces the contiguous-run invariant: a sender with
// no queued transactions may start anywhere within [expected,
// expected+GapTolerance], establishing n0; a sender with entries queued
// may only extend the run with the exact next nonce, since the first
// check already bounded how far ahead of canonical state the run began.
func (p *Pool) checkNonceLocked(queue *linked.Hashmap[uint64, txtypes.Transaction], sender string, nonce uint64) *Error {
	if queue == nil || queue.Len() == 0 {
		if p.source == nil {
			return nil
		}
		expected, err := p.source.ExpectedNonce(sender)
		if err != nil {
			if !errors.Is(err, state.ErrUnknownAccount) {
				return newError(StateError, "", sender, nonce, err.Error())
			}
			expected = 0 // brand-new account, per state.Source's documented contract
		}
		if nonce < expected {
			return newError(NonceTooLow, "", sender, nonce, "below canonical expected nonce")
		}
		if nonce > expected+p.cfg.GapTolerance {
			return newError(NonceGap, "", sender, nonce, "exceeds gap tolerance from expected nonce")
		}
		return nil
	}
	frontier, _, _ := queue.NewestEntry()
	switch {
	case nonce <= frontier:
		return newError(NonceTooLow, "", "", nonce, "already covered by queued run")
	case nonce > frontier+1:
		return newError(NonceGap, "", "", nonce, "would break the contiguous run")
	default:
		return nil
	}
}

func (p *Pool) senderQueueLocked(sender string) *linked.Hashmap[uint64, txtypes.Transaction] {
	q, ok := p.bySender[sender]
	if !ok {
		q = linked.NewHashmap[uint64, txtypes.Transaction]()
		p.bySender[sender] = q
	}
	return q
}

// Remove drops hash from the pool, e.g. after inclusion in a finalized
// block.
func (p *Pool) Remove(hash string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removeLocked(hash)
}

func (p *Pool) removeLocked(hash string) {
	tx, ok := p.byHash[hash]
	if !ok {
		return
	}
	delete(p.byHash, hash)
	if q, ok := p.bySender[tx.From]; ok {
		q.Delete(tx.Nonce)
		if q.Len() == 0 {
			delete(p.bySender, tx.From)
		}
	}
	p.metrics.size.Set(float64(len(p.byHash)))
}

// Get returns the transaction with the given hash, if present.
func (p *Pool) Get(hash string) (txtypes.Transaction, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	tx, ok := p.byHash[hash]
	return tx, ok
}

// ForSender returns sender's queued transactions in nonce order.
func (p *Pool) ForSender(sender string) []txtypes.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	q, ok := p.bySender[sender]
	if !ok {
		return nil
	}
	out := make([]txtypes.Transaction, 0, q.Len())
	q.Iterate(func(_ uint64, tx txtypes.Transaction) bool {
		out = append(out, tx)
		return true
	})
	return out
}

// Top returns up to k transactions ordered by (gas_price desc, timestamp
// asc, hash asc), restricted to the executable prefix of each sender's
// queue — entries a leader could actually apply without first closing a
// nonce gap.
func (p *Pool) Top(k int) []txtypes.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()

	executable := make([]txtypes.Transaction, 0, len(p.byHash))
	for sender, q := range p.bySender {
		next, started := uint64(0), false
		if p.source != nil {
			expected, err := p.source.ExpectedNonce(sender)
			if err != nil && !errors.Is(err, state.ErrUnknownAccount) {
				continue
			}
			next, started = expected, true
		}
		q.Iterate(func(nonce uint64, tx txtypes.Transaction) bool {
			if started && nonce != next {
				return false
			}
			executable = append(executable, tx)
			next, started = nonce+1, true
			return true
		})
	}
	sortByPriority(executable)
	if k >= 0 && k < len(executable) {
		executable = executable[:k]
	}
	return executable
}

func sortByPriority(txs []txtypes.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].GasPrice != txs[j].GasPrice {
			return txs[i].GasPrice > txs[j].GasPrice
		}
		if !txs[i].Timestamp.Equal(txs[j].Timestamp) {
			return txs[i].Timestamp.Before(txs[j].Timestamp)
		}
		return txs[i].Hash < txs[j].Hash
	})
}

// Sweep removes expired transactions and, while the pool remains over
// its soft capacity threshold, evicts lowest-priority entries. Callers
// drive this on the cadence named by Config.EvictionInterval.
func (p *Pool) Sweep(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for hash, tx := range p.byHash {
		if now.Sub(tx.Timestamp) > p.cfg.TxTTL {
			p.removeLocked(hash)
			p.metrics.expired.Inc()
			p.log.Debug("expired transaction", "hash", hash, "from", tx.From)
		}
	}

	softLimit := p.cfg.MaxSize * 95 / 100
	for len(p.byHash) > softLimit {
		if !p.evictOneLocked(now) {
			break
		}
	}
}

// evictOneLocked removes the single lowest-priority transaction old
// enough to be eligible, preferring the tail of a sender's queue so the
// executable prefix — the part a leader can actually use — survives.
func (p *Pool) evictOneLocked(now time.Time) bool {
	var (
		candidate txtypes.Transaction
		found     bool
	)
	for _, tx := range p.byHash {
		if now.Sub(tx.Timestamp) < p.cfg.MinEvictionAge {
			continue
		}
		frontier, _, _ := p.bySender[tx.From].NewestEntry()
		if tx.Nonce != frontier {
			continue // only the tail of a sender's run is evictable
		}
		if !found || worsePriority(tx, candidate) {
			candidate, found = tx, true
		}
	}
	if !found {
		return false
	}
	p.removeLocked(candidate.Hash)
	p.metrics.evicted.Inc()
	p.log.Debug("evicted transaction", "hash", candidate.Hash, "from", candidate.From)
	return true
}

// worsePriority reports whether a ranks below b in priority order, i.e.
// a is the better eviction candidate.
func worsePriority(a, b txtypes.Transaction) bool {
	if a.GasPrice != b.GasPrice {
		return a.GasPrice < b.GasPrice
	}
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return a.Hash > b.Hash
}

// Stats reports a point-in-time summary of the pool's contents.
func (p *Pool) Stats(now time.Time) Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Stats{Total: len(p.byHash), UniqueSenders: len(p.bySender)}
	if s.Total == 0 {
		return s
	}
	var gasSum uint64
	oldest := now
	for _, tx := range p.byHash {
		if sum, err := safemath.Add64(gasSum, tx.GasPrice); err == nil {
			gasSum = sum
		}
		if tx.Timestamp.Before(oldest) {
			oldest = tx.Timestamp
		}
	}
	s.AvgGasPrice = float64(gasSum) / float64(s.Total)
	s.OldestAge = now.Sub(oldest)
	return s
}

func (p *Pool) reject(reason string) {
	p.metrics.rejected.WithLabelValues(reason).Inc()
}
