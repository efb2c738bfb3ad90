// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mempool

import (
	"os"
	"strconv"
	"time"
)

// Config holds the mempool's tunable parameters. DefaultConfig reads
// QNET_MEMPOOL_SIZE, QNET_MAX_PER_SENDER and QNET_MEMPOOL_TTL the way the
// original QNet mempool's config.rs does, via os.LookupEnv.
type Config struct {
	// MaxSize is the global transaction capacity.
	MaxSize int
	// MaxPerSender bounds transactions queued for a single sender.
	MaxPerSender int
	// TxTTL is the maximum age of a queued transaction before eviction.
	TxTTL time.Duration
	// MinGasPrice and MaxGasLimit bound admissible per-tx economics.
	MinGasPrice uint64
	MaxGasLimit uint64
	// GapTolerance bounds how far ahead of the sender's expected nonce
	// the first transaction for a not-yet-seen sender may start; once a
	// sender has an entry queued, only the exact next nonce extends it
	// (the contiguous-run invariant admits no interior gaps).
	GapTolerance uint64
	// EvictionInterval is the intended sweep cadence for a caller-driven
	// periodic Sweep.
	EvictionInterval time.Duration
	// MinEvictionAge is the minimum age a transaction must reach before
	// it becomes eligible for capacity-pressure eviction, so a
	// just-admitted transaction is never immediately evicted to make
	// room for another.
	MinEvictionAge time.Duration
	// EnableMetrics mirrors the original's enable_metrics switch.
	EnableMetrics bool
}

// DefaultConfig returns the production defaults, with QNET_MEMPOOL_SIZE,
// QNET_MAX_PER_SENDER and QNET_MEMPOOL_TTL environment overrides applied.
func DefaultConfig() Config {
	return Config{
		MaxSize:          envOrInt("QNET_MEMPOOL_SIZE", 500_000),
		MaxPerSender:     envOrInt("QNET_MAX_PER_SENDER", 1_000),
		TxTTL:            time.Duration(envOrInt("QNET_MEMPOOL_TTL", 1800)) * time.Second,
		MinGasPrice:      1,
		MaxGasLimit:      10_000_000,
		GapTolerance:     2,
		EvictionInterval: 30 * time.Second,
		MinEvictionAge:   5 * time.Second,
		EnableMetrics:    true,
	}
}

func envOrInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}
