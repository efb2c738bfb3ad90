// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mempool

import "fmt"

// Kind enumerates the mempool's structured error taxonomy, ported from
// the original qnet-mempool errors.rs enum.
type Kind int

const (
	DuplicateTransaction Kind = iota
	InvalidTransaction
	NonceTooLow
	NonceGap
	GasPriceTooLow
	MempoolFull
	AccountLimitExceeded
	TransactionExpired
	ValidationFailed
	StateError
	Internal
)

func (k Kind) String() string {
	switch k {
	case DuplicateTransaction:
		return "DuplicateTransaction"
	case InvalidTransaction:
		return "InvalidTransaction"
	case NonceTooLow:
		return "NonceTooLow"
	case NonceGap:
		return "NonceGap"
	case GasPriceTooLow:
		return "GasPriceTooLow"
	case MempoolFull:
		return "MempoolFull"
	case AccountLimitExceeded:
		return "AccountLimitExceeded"
	case TransactionExpired:
		return "TransactionExpired"
	case ValidationFailed:
		return "ValidationFailed"
	case StateError:
		return "StateError"
	case Internal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Error is the mempool's structured error type.
type Error struct {
	Kind    Kind
	Hash    string
	From    string
	Nonce   uint64
	Message string
}

func (e *Error) Error() string {
	switch e.Kind {
	case NonceTooLow, NonceGap:
		return fmt.Sprintf("%s: %s nonce %d (%s)", e.Kind, e.From, e.Nonce, e.Message)
	case DuplicateTransaction, TransactionExpired:
		return fmt.Sprintf("%s: %s", e.Kind, e.Hash)
	default:
		if e.Message != "" {
			return fmt.Sprintf("%s: %s", e.Kind, e.Message)
		}
		return e.Kind.String()
	}
}

// Is reports whether target is an *Error with the same Kind, enabling
// errors.Is(err, &mempool.Error{Kind: mempool.MempoolFull}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, hash, from string, nonce uint64, message string) *Error {
	return &Error{Kind: kind, Hash: hash, From: from, Nonce: nonce, Message: message}
}
