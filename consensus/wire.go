// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import (
	"github.com/luxfi/ids"
	"golang.org/x/crypto/sha3"

	"github.com/luxfi/qnet-consensus/utils/constants"
	"github.com/luxfi/qnet-consensus/utils/wrappers"
)

// ComputeCommitHash computes SHA3-256(node_id_utf8 || value || nonce), the
// preimage a Reveal must match against its Commit.
func ComputeCommitHash(nodeID ids.NodeID, value []byte, nonce [constants.HashLen]byte) [constants.HashLen]byte {
	p := wrappers.NewPacker(len(value) + len(nonce) + constants.HashLen)
	p.PackBytes([]byte(nodeID.String()))
	p.PackBytes(value)
	p.PackBytes(nonce[:])
	return sha3.Sum256(p.Bytes)
}

func computeBeaconOut(r *round, sortedParticipants []ids.NodeID) [constants.HashLen]byte {
	p := wrappers.NewPacker(0)
	for _, id := range sortedParticipants {
		rv := r.reveals[id]
		p.PackBytes(rv.Value)
		p.PackBytes(rv.Nonce[:])
	}
	return sha3.Sum256(p.Bytes)
}
