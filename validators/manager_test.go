// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validators

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/qnet-consensus/reputation"
)

type recordingListener struct {
	added   []ids.NodeID
	removed []ids.NodeID
}

func (r *recordingListener) OnValidatorAdded(nodeID ids.NodeID, _ Candidate) {
	r.added = append(r.added, nodeID)
}

func (r *recordingListener) OnValidatorRemoved(nodeID ids.NodeID) {
	r.removed = append(r.removed, nodeID)
}

func newTestManager(t *testing.T) (*Manager, *reputation.Ledger) {
	t.Helper()
	ledger, err := reputation.NewLedger(reputation.DefaultConfig(), nil, nil)
	require.NoError(t, err)
	return NewManager(ledger, nil), ledger
}

func TestUpsertAndView(t *testing.T) {
	m, _ := newTestManager(t)
	node := ids.GenerateTestNodeID()
	m.Upsert(Candidate{NodeID: node, NodeType: Full})

	view := m.View()
	require.Equal(t, 1, view.Len())
	require.True(t, view.Has(node))
	c, ok := view.Get(node)
	require.True(t, ok)
	require.Equal(t, Full, c.NodeType)
}

func TestRemoveNotifiesListeners(t *testing.T) {
	m, _ := newTestManager(t)
	listener := &recordingListener{}
	m.AddCallbackListener(listener)

	node := ids.GenerateTestNodeID()
	m.Upsert(Candidate{NodeID: node})
	m.Remove(node)

	require.Equal(t, []ids.NodeID{node}, listener.added)
	require.Equal(t, []ids.NodeID{node}, listener.removed)

	// Removing again (already absent) must not re-notify.
	m.Remove(node)
	require.Len(t, listener.removed, 1)
}

func TestEligibleSnapshotFiltersByLedger(t *testing.T) {
	m, ledger := newTestManager(t)
	eligible := ids.GenerateTestNodeID()
	jailed := ids.GenerateTestNodeID()

	m.Upsert(Candidate{NodeID: eligible})
	m.Upsert(Candidate{NodeID: jailed})
	ledger.ApplyEvent(jailed, -1, "dip below threshold")

	snapshot := m.EligibleSnapshot()
	require.Contains(t, snapshot, eligible)
	require.NotContains(t, snapshot, jailed)
}
