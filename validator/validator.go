// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package validator provides per-transaction semantic validation for the
// mempool: a synchronous basic-shape check and an asynchronous
// canonical-state check. Neither StandardValidator nor FastValidator
// inspects or verifies Transaction.Signature.
package validator

import (
	"context"

	"github.com/luxfi/qnet-consensus/mempool/txtypes"
)

// ValidationResult is the outcome of a basic or full validation pass.
type ValidationResult struct {
	Valid  bool
	Reason string
}

// Success is a convenience constructor for a passing ValidationResult.
func Success() ValidationResult {
	return ValidationResult{Valid: true}
}

// Failure is a convenience constructor for a failing ValidationResult.
func Failure(reason string) ValidationResult {
	return ValidationResult{Valid: false, Reason: reason}
}

// Validator is the mempool's pluggable validation capability.
type Validator interface {
	// ValidateBasic performs synchronous, local checks: signature shape,
	// field bounds, serialization. It must never block on I/O.
	ValidateBasic(tx txtypes.Transaction) ValidationResult
	// Validate performs asynchronous checks against canonical state:
	// account existence, balance sufficiency, nonce. It may suspend.
	Validate(ctx context.Context, tx txtypes.Transaction) (ValidationResult, error)
}
