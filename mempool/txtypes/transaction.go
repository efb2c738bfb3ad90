// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package txtypes holds the mempool's transaction view, split out from
// package mempool so the validator package can depend on the type
// without importing the pool itself.
package txtypes

import "time"

// TxType enumerates the kinds of payload a transaction may carry. The
// core treats all kinds identically for admission and ordering; block
// assembly above this layer interprets Data by Type.
type TxType int

const (
	Transfer TxType = iota
	ContractCall
	NodeActivation
)

// Transaction is the mempool's view of a pending transaction.
type Transaction struct {
	Hash      string
	From      string
	To        string // empty for contract-creation-style transactions
	Amount    uint64
	Nonce     uint64
	GasPrice  uint64
	GasLimit  uint64
	Timestamp time.Time
	Signature []byte // nil when not yet signed
	Type      TxType
	Data      []byte
}
