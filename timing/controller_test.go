// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSuggestWithNoHistoryReturnsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	c, err := NewController(cfg, nil)
	require.NoError(t, err)

	commit, reveal := c.Suggest()
	require.Equal(t, cfg.BaseCommitDuration, commit)
	require.Equal(t, cfg.BaseRevealDuration, reveal)
}

func TestSuggestScalesDownWhenRoundsAreSlow(t *testing.T) {
	cfg := DefaultConfig()
	c, err := NewController(cfg, nil)
	require.NoError(t, err)

	// Observed rounds run much slower than target, so the factor should
	// clamp to MinFactor and shrink the suggested durations.
	for i := 0; i < 5; i++ {
		c.RecordRoundDuration(cfg.TargetRoundDuration * 10)
	}

	commit, reveal := c.Suggest()
	require.Equal(t, time.Duration(float64(cfg.BaseCommitDuration)*cfg.MinFactor), commit)
	require.Equal(t, time.Duration(float64(cfg.BaseRevealDuration)*cfg.MinFactor), reveal)
}

func TestSuggestScalesUpWhenRoundsAreFast(t *testing.T) {
	cfg := DefaultConfig()
	c, err := NewController(cfg, nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		c.RecordRoundDuration(cfg.TargetRoundDuration / 10)
	}

	commit, reveal := c.Suggest()
	require.Equal(t, time.Duration(float64(cfg.BaseCommitDuration)*cfg.MaxFactor), commit)
	require.Equal(t, time.Duration(float64(cfg.BaseRevealDuration)*cfg.MaxFactor), reveal)
}

func TestHistoryBoundedAtMax(t *testing.T) {
	c, err := NewController(DefaultConfig(), nil)
	require.NoError(t, err)
	for i := 0; i < maxHistory+50; i++ {
		c.RecordRoundDuration(time.Second)
	}
	require.Len(t, c.history, maxHistory)
}

func TestAverageRoundDurationEmpty(t *testing.T) {
	c, err := NewController(DefaultConfig(), nil)
	require.NoError(t, err)
	_, ok := c.AverageRoundDuration()
	require.False(t, ok)
}
