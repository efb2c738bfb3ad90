// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import (
	"fmt"
	"time"

	"github.com/luxfi/ids"
	"google.golang.org/protobuf/encoding/protowire"
)

// Wire field numbers for Commit, matching spec.md §6's
// {round_id, node_id, commit_hash} layout.
const (
	commitFieldRoundID    = 1
	commitFieldNodeID     = 2
	commitFieldCommitHash = 3
	commitFieldTimestamp  = 4
)

// Wire field numbers for Reveal, matching spec.md §6's
// {round_id, node_id, value, nonce} layout.
const (
	revealFieldRoundID   = 1
	revealFieldNodeID    = 2
	revealFieldValue     = 3
	revealFieldNonce     = 4
	revealFieldTimestamp = 5
)

// MarshalBinary encodes a Commit using the protobuf wire format, hand
// rolled with protowire rather than generated code since this core owns
// only these two small consensus messages.
func (c Commit) MarshalBinary() ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, commitFieldRoundID, protowire.VarintType)
	b = protowire.AppendVarint(b, c.RoundID)
	b = protowire.AppendTag(b, commitFieldNodeID, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte(c.NodeID.String()))
	b = protowire.AppendTag(b, commitFieldCommitHash, protowire.BytesType)
	b = protowire.AppendBytes(b, c.CommitHash[:])
	b = protowire.AppendTag(b, commitFieldTimestamp, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(c.Timestamp.UnixNano()))
	return b, nil
}

// UnmarshalBinary decodes a Commit previously produced by MarshalBinary.
func (c *Commit) UnmarshalBinary(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("consensus: malformed commit tag: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case commitFieldRoundID:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return fmt.Errorf("consensus: malformed commit round_id: %w", protowire.ParseError(n))
			}
			c.RoundID = v
			data = data[n:]
		case commitFieldNodeID:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return fmt.Errorf("consensus: malformed commit node_id: %w", protowire.ParseError(n))
			}
			nodeID, err := ids.NodeIDFromString(string(v))
			if err != nil {
				return fmt.Errorf("consensus: invalid commit node_id: %w", err)
			}
			c.NodeID = nodeID
			data = data[n:]
		case commitFieldCommitHash:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return fmt.Errorf("consensus: malformed commit_hash: %w", protowire.ParseError(n))
			}
			copy(c.CommitHash[:], v)
			data = data[n:]
		case commitFieldTimestamp:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return fmt.Errorf("consensus: malformed commit timestamp: %w", protowire.ParseError(n))
			}
			c.Timestamp = time.Unix(0, int64(v)).UTC()
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return fmt.Errorf("consensus: malformed commit field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return nil
}

// MarshalBinary encodes a Reveal using the protobuf wire format.
func (r Reveal) MarshalBinary() ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, revealFieldRoundID, protowire.VarintType)
	b = protowire.AppendVarint(b, r.RoundID)
	b = protowire.AppendTag(b, revealFieldNodeID, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte(r.NodeID.String()))
	b = protowire.AppendTag(b, revealFieldValue, protowire.BytesType)
	b = protowire.AppendBytes(b, r.Value)
	b = protowire.AppendTag(b, revealFieldNonce, protowire.BytesType)
	b = protowire.AppendBytes(b, r.Nonce[:])
	b = protowire.AppendTag(b, revealFieldTimestamp, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(r.Timestamp.UnixNano()))
	return b, nil
}

// UnmarshalBinary decodes a Reveal previously produced by MarshalBinary.
func (r *Reveal) UnmarshalBinary(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("consensus: malformed reveal tag: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case revealFieldRoundID:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return fmt.Errorf("consensus: malformed reveal round_id: %w", protowire.ParseError(n))
			}
			r.RoundID = v
			data = data[n:]
		case revealFieldNodeID:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return fmt.Errorf("consensus: malformed reveal node_id: %w", protowire.ParseError(n))
			}
			nodeID, err := ids.NodeIDFromString(string(v))
			if err != nil {
				return fmt.Errorf("consensus: invalid reveal node_id: %w", err)
			}
			r.NodeID = nodeID
			data = data[n:]
		case revealFieldValue:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return fmt.Errorf("consensus: malformed reveal value: %w", protowire.ParseError(n))
			}
			r.Value = append([]byte(nil), v...)
			data = data[n:]
		case revealFieldNonce:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return fmt.Errorf("consensus: malformed reveal nonce: %w", protowire.ParseError(n))
			}
			copy(r.Nonce[:], v)
			data = data[n:]
		case revealFieldTimestamp:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return fmt.Errorf("consensus: malformed reveal timestamp: %w", protowire.ParseError(n))
			}
			r.Timestamp = time.Unix(0, int64(v)).UTC()
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return fmt.Errorf("consensus: malformed reveal field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return nil
}
