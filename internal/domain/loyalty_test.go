package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	cases := []struct {
		points int64
		want   Tier
	}{
		{0, TierBlue},
		{499, TierBlue},
		{500, TierSilver},
		{999, TierSilver},
		{1000, TierGold},
		{1999, TierGold},
		{2000, TierPlatinum},
		{5000, TierPlatinum},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TierFor(tc.points), "points=%d", tc.points)
	}
}

func TestTierFor_Monotonic(t *testing.T) {
	prev := TierFor(0)
	for points := int64(0); points <= 3000; points += 25 {
		current := TierFor(points)
		assert.False(t, TierAbove(prev, current), "tier regressed at %d points", points)
		prev = current
	}
}

func TestNextTierThreshold(t *testing.T) {
	next, ok := NextTierThreshold(TierBlue)
	assert.True(t, ok)
	assert.Equal(t, int64(500), next)

	next, ok = NextTierThreshold(TierSilver)
	assert.True(t, ok)
	assert.Equal(t, int64(1000), next)

	next, ok = NextTierThreshold(TierGold)
	assert.True(t, ok)
	assert.Equal(t, int64(2000), next)

	_, ok = NextTierThreshold(TierPlatinum)
	assert.False(t, ok)
}

func TestTierAbove(t *testing.T) {
	assert.True(t, TierAbove(TierGold, TierSilver))
	assert.True(t, TierAbove(TierPlatinum, TierBlue))
	assert.False(t, TierAbove(TierSilver, TierSilver))
	assert.False(t, TierAbove(TierBlue, TierGold))
}
