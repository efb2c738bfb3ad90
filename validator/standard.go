// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validator

import (
	"context"
	"errors"

	"github.com/luxfi/qnet-consensus/mempool/txtypes"
	"github.com/luxfi/qnet-consensus/state"
)

// StandardValidator performs the two-stage validation spec.md §4.6
// describes: a synchronous shape check, then an asynchronous check
// against canonical state.
type StandardValidator struct {
	source       state.Source
	minGasPrice  uint64
	maxGasLimit  uint64
}

// NewStandardValidator constructs a StandardValidator backed by source
// for canonical-state lookups.
func NewStandardValidator(source state.Source, minGasPrice, maxGasLimit uint64) *StandardValidator {
	return &StandardValidator{source: source, minGasPrice: minGasPrice, maxGasLimit: maxGasLimit}
}

// ValidateBasic checks field bounds and serialization shape; it never
// touches canonical state.
func (v *StandardValidator) ValidateBasic(tx txtypes.Transaction) ValidationResult {
	if tx.From == "" {
		return Failure("missing sender")
	}
	if tx.GasLimit == 0 || tx.GasLimit > v.maxGasLimit {
		return Failure("gas limit out of bounds")
	}
	if tx.GasPrice < v.minGasPrice {
		return Failure("gas price below minimum")
	}
	if len(tx.Hash) == 0 {
		return Failure("missing hash")
	}
	return Success()
}

// Validate checks account existence, balance sufficiency (delegated to
// the caller's economic layer; this core only checks existence and
// nonce), and nonce against canonical state. It may suspend on source.
func (v *StandardValidator) Validate(ctx context.Context, tx txtypes.Transaction) (ValidationResult, error) {
	if basic := v.ValidateBasic(tx); !basic.Valid {
		return basic, nil
	}

	exists, err := v.source.AccountExists(tx.From)
	if err != nil {
		return ValidationResult{}, err
	}
	if !exists {
		return Failure("unknown sender account"), nil
	}

	expected, err := v.source.ExpectedNonce(tx.From)
	if err != nil && !errors.Is(err, state.ErrUnknownAccount) {
		return ValidationResult{}, err
	}
	if tx.Nonce < expected {
		return Failure("nonce below expected"), nil
	}

	select {
	case <-ctx.Done():
		return ValidationResult{}, ctx.Err()
	default:
	}
	return Success(), nil
}
