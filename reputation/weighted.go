// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reputation

import (
	"math/big"

	"golang.org/x/crypto/sha3"

	safemath "github.com/luxfi/qnet-consensus/utils/math"
)

// selectionPrecision scales floating-point weights into integers so the
// rejection-sampling step below can work over exact big.Int arithmetic.
const selectionPrecision = 1_000_000

// maxRejectionAttempts bounds the re-hash loop; at 2^256 / W odds of a
// single rejection, this is never reached in practice and only guards
// against an adversarial or degenerate W.
const maxRejectionAttempts = 256

var twoTo256 = new(big.Int).Lsh(big.NewInt(1), 256)

// weightedIndex picks an index into weights (scaled integer weights, one
// per candidate, same order as the candidate list) with probability
// proportional to its weight, using beacon as the source of randomness.
// It returns false if every weight is zero.
//
// The uniform value is derived by interpreting SHA3-256(beacon || counter)
// as a big-endian integer and rejecting samples that would bias the
// result modulo the total weight — plain `hash % W` is biased whenever W
// does not divide 2^256, which the reputation-weighted total essentially
// never does.
func weightedIndex(weights []uint64, beacon []byte) (int, bool) {
	var total uint64
	for _, w := range weights {
		sum, err := safemath.Add64(total, w)
		if err != nil {
			// An adversarial or misconfigured weight set overflowed the
			// accumulator; treat it as having no eligible weight rather
			// than wrapping into an arbitrary small total.
			return -1, false
		}
		total = sum
	}
	if total == 0 {
		return -1, false
	}

	r := uniformBelow(beacon, total)
	var cumulative uint64
	for i, w := range weights {
		cumulative += w
		if cumulative > r {
			return i, true
		}
	}
	// Unreachable for a correct cumulative sum, but keep selection total.
	return len(weights) - 1, true
}

// uniformBelow derives a value in [0, bound) from beacon via rejection
// sampling against SHA3-256's 256-bit output space.
func uniformBelow(beacon []byte, bound uint64) uint64 {
	boundBig := new(big.Int).SetUint64(bound)
	// limit is the largest multiple of bound not exceeding 2^256; samples
	// landing at or above it are rejected and re-drawn to avoid bias.
	remainder := new(big.Int).Mod(twoTo256, boundBig)
	limit := new(big.Int).Sub(twoTo256, remainder)

	seed := make([]byte, len(beacon)+8)
	copy(seed, beacon)

	for attempt := 0; attempt < maxRejectionAttempts; attempt++ {
		putCounter(seed[len(beacon):], uint64(attempt))
		digest := sha3.Sum256(seed)
		val := new(big.Int).SetBytes(digest[:])
		if val.Cmp(limit) < 0 {
			return new(big.Int).Mod(val, boundBig).Uint64()
		}
	}
	// Extremely unlikely fallback: accept the final draw's modulo, biased
	// by a negligible amount bounded by maxRejectionAttempts's exhaustion.
	digest := sha3.Sum256(seed)
	val := new(big.Int).SetBytes(digest[:])
	return new(big.Int).Mod(val, boundBig).Uint64()
}

func putCounter(dst []byte, counter uint64) {
	for i := 0; i < 8; i++ {
		dst[i] = byte(counter >> (56 - 8*i))
	}
}

// scaleWeight converts a float64 weight (already floored at the caller)
// into a fixed-point integer for exact rejection-sampling arithmetic.
func scaleWeight(w float64) uint64 {
	if w <= 0 {
		return 0
	}
	return uint64(w * selectionPrecision)
}
