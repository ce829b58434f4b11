package rank_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrapulse/terrapulse/internal/rank"
)

type entry struct {
	name  string
	value float64
}

func names(entries []entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}

func value(e entry) float64 { return e.value }

func TestTop_AscendingBest(t *testing.T) {
	items := []entry{
		{"mid", 10},
		{"low", 5},
		{"high", 20},
	}

	best, worst := rank.Top(items, value, rank.AscendingBest, 2)

	assert.Equal(t, []string{"low", "mid"}, names(best))
	assert.Equal(t, []string{"high", "mid"}, names(worst))
}

func TestTop_DescendingBest(t *testing.T) {
	items := []entry{
		{"mid", 10},
		{"low", 5},
		{"high", 20},
	}

	best, worst := rank.Top(items, value, rank.DescendingBest, 2)

	assert.Equal(t, []string{"high", "mid"}, names(best))
	assert.Equal(t, []string{"low", "mid"}, names(worst))
}

func TestTop_TruncatesToAvailable(t *testing.T) {
	items := []entry{{"a", 1}, {"b", 2}}

	best, worst := rank.Top(items, value, rank.AscendingBest, 15)

	assert.Len(t, best, 2)
	assert.Len(t, worst, 2)
}

func TestTop_StableTies(t *testing.T) {
	items := []entry{
		{"first", 7},
		{"second", 7},
		{"third", 7},
	}

	best, worst := rank.Top(items, value, rank.AscendingBest, 3)

	// Equal keys keep first-seen order in both directions.
	assert.Equal(t, []string{"first", "second", "third"}, names(best))
	assert.Equal(t, []string{"first", "second", "third"}, names(worst))
}

func TestTop_FiltersNonFinite(t *testing.T) {
	items := []entry{
		{"ok", 3},
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
		{"neginf", math.Inf(-1)},
	}

	best, worst := rank.Top(items, value, rank.AscendingBest, 10)

	require.Len(t, best, 1)
	assert.Equal(t, "ok", best[0].name)
	assert.Len(t, worst, 1)
}

func TestTop_Deterministic(t *testing.T) {
	items := []entry{
		{"a", 3}, {"b", 1}, {"c", 3}, {"d", 2}, {"e", 1},
	}

	first, _ := rank.Top(items, value, rank.AscendingBest, 5)
	for i := 0; i < 10; i++ {
		again, _ := rank.Top(items, value, rank.AscendingBest, 5)
		assert.Equal(t, names(first), names(again))
	}
}

func TestTop_DoesNotMutateInput(t *testing.T) {
	items := []entry{{"c", 3}, {"a", 1}, {"b", 2}}

	rank.Top(items, value, rank.AscendingBest, 3)

	assert.Equal(t, []string{"c", "a", "b"}, names(items))
}

func TestTop_Empty(t *testing.T) {
	best, worst := rank.Top(nil, value, rank.AscendingBest, 15)
	assert.Empty(t, best)
	assert.Empty(t, worst)
}

func TestValid(t *testing.T) {
	items := []entry{
		{"a", 1},
		{"bad", math.NaN()},
		{"b", 2},
	}

	valid := rank.Valid(items, value)
	assert.Equal(t, []string{"a", "b"}, names(valid))
}
