// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validator

import (
	"context"
	"errors"

	"github.com/luxfi/qnet-consensus/mempool/txtypes"
)

// ErrUnsafeValidatorDisallowed is returned by NewFastValidator when the
// caller has not explicitly opted into test-only validators.
var ErrUnsafeValidatorDisallowed = errors.New("validator: FastValidator requires AllowUnsafeValidators")

// FastValidator accepts every transaction without inspection. It exists
// purely to remove validation overhead from load and performance testing
// and must never run in a production path.
type FastValidator struct{}

// NewFastValidator constructs a FastValidator, refusing to do so unless
// allowUnsafeValidators is true — the configuration guard spec.md §4.6
// requires before this validator may be wired into any pool.
func NewFastValidator(allowUnsafeValidators bool) (*FastValidator, error) {
	if !allowUnsafeValidators {
		return nil, ErrUnsafeValidatorDisallowed
	}
	return &FastValidator{}, nil
}

// ValidateBasic always succeeds.
func (*FastValidator) ValidateBasic(txtypes.Transaction) ValidationResult {
	return Success()
}

// Validate always succeeds.
func (*FastValidator) Validate(context.Context, txtypes.Transaction) (ValidationResult, error) {
	return Success(), nil
}
