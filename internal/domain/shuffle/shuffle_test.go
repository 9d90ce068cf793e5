package shuffle

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShuffleEmptyAndSingle(t *testing.T) {
	t.Parallel()
	s := New(1)

	var empty []int
	Shuffle(s, empty)
	assert.Empty(t, empty)

	single := []string{"only"}
	Shuffle(s, single)
	assert.Equal(t, []string{"only"}, single)
}

func TestShuffleIsBijection(t *testing.T) {
	t.Parallel()
	s := New(42)

	for n := 2; n <= 64; n++ {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}
		Shuffle(s, items)

		sorted := slices.Clone(items)
		slices.Sort(sorted)
		for i := range sorted {
			require.Equal(t, i, sorted[i], "shuffle of %d items lost or duplicated an element", n)
		}
	}
}

func TestShuffleDeterministicGivenSeed(t *testing.T) {
	t.Parallel()
	base := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}

	a := ShuffledCopy(New(2024), base)
	b := ShuffledCopy(New(2024), base)
	c := ShuffledCopy(New(2025), base)

	assert.Equal(t, a, b, "same seed should give the same permutation")
	assert.NotEqual(t, a, c, "different seeds should (almost surely) differ")
	assert.Equal(t, uint64(2024), New(2024).Seed())
}

func TestShuffledCopyLeavesInputUnmodified(t *testing.T) {
	t.Parallel()
	original := []int{1, 2, 3, 4, 5, 6, 7, 8}
	snapshot := slices.Clone(original)

	out := ShuffledCopy(New(7), original)

	assert.Equal(t, snapshot, original)
	assert.ElementsMatch(t, snapshot, out)
}

func TestShufflePositionDistributionApproachesUniform(t *testing.T) {
	t.Parallel()
	const (
		n       = 5
		samples = 100000
	)
	s := New(99)
	counts := [n][n]int{}

	for k := 0; k < samples; k++ {
		items := []int{0, 1, 2, 3, 4}
		Shuffle(s, items)
		for pos, v := range items {
			counts[pos][v]++
		}
	}

	expected := float64(samples) / n
	for pos := 0; pos < n; pos++ {
		for v := 0; v < n; v++ {
			got := float64(counts[pos][v])
			assert.InDelta(t, expected, got, expected*0.05,
				"value %d at position %d occurred %v times", v, pos, got)
		}
	}
}

func TestShuffleAllPermutationsReachable(t *testing.T) {
	t.Parallel()
	s := New(3)
	seen := map[[3]int]int{}
	for k := 0; k < 6000; k++ {
		items := []int{0, 1, 2}
		Shuffle(s, items)
		seen[[3]int{items[0], items[1], items[2]}]++
	}
	assert.Len(t, seen, 6, "all 3! permutations should occur")
}

func TestNilShufflerFallsBackToGlobalSource(t *testing.T) {
	t.Parallel()
	items := []int{1, 2, 3, 4}
	Shuffle(nil, items)
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, items)
}

func TestNewRandom(t *testing.T) {
	t.Parallel()
	s, err := NewRandom()
	require.NoError(t, err)
	require.NotNil(t, s)
}
