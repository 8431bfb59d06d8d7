package evo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"knapsackga/internal/model"
)

func TestSinglePointCrossoverSplicesAtCut(t *testing.T) {
	rng := &scriptedSource{ints: []int{2}}
	a := model.Genome{0, 0, 0, 0}
	b := model.Genome{1, 1, 1, 1}

	childA, childB, err := SinglePointCrossover(rng, a, b)
	require.NoError(t, err)
	require.Equal(t, model.Genome{0, 0, 1, 1}, childA)
	require.Equal(t, model.Genome{1, 1, 0, 0}, childB)
}

func TestSinglePointCrossoverReconstructsPrefixAndSuffix(t *testing.T) {
	rng := NewSource(7)
	for trial := 0; trial < 200; trial++ {
		a := GenerateGenome(rng, 9)
		b := GenerateGenome(rng, 9)

		childA, childB, err := SinglePointCrossover(rng, a, b)
		require.NoError(t, err)
		require.Len(t, childA, len(a))
		require.Len(t, childB, len(a))

		found := false
		for p := 1; p < len(a); p++ {
			wantA := append(CloneGenome(a[:p]), b[p:]...)
			wantB := append(CloneGenome(b[:p]), a[p:]...)
			if GenomesEqual(childA, wantA) && GenomesEqual(childB, wantB) {
				found = true
				break
			}
		}
		require.Truef(t, found, "no cut in [1,%d] explains %v x %v -> %v, %v", len(a)-1, a, b, childA, childB)
	}
}

func TestSinglePointCrossoverWithSelfReturnsCopies(t *testing.T) {
	rng := NewSource(3)
	a := model.Genome{1, 0, 1, 1, 0}

	childA, childB, err := SinglePointCrossover(rng, a, a)
	require.NoError(t, err)
	require.Equal(t, a, childA)
	require.Equal(t, a, childB)

	childA[0] = 0
	require.Equal(t, 1, a[0], "offspring must not alias the parent")
}

func TestSinglePointCrossoverShortGenomesAreIdentity(t *testing.T) {
	rng := &scriptedSource{}
	for _, tc := range []struct{ a, b model.Genome }{
		{model.Genome{1}, model.Genome{0}},
		{model.Genome{}, model.Genome{}},
	} {
		childA, childB, err := SinglePointCrossover(rng, tc.a, tc.b)
		require.NoError(t, err)
		require.Equal(t, tc.a, childA)
		require.Equal(t, tc.b, childB)
	}
}

func TestSinglePointCrossoverRejectsLengthMismatch(t *testing.T) {
	_, _, err := SinglePointCrossover(NewSource(1), model.Genome{1, 0}, model.Genome{1, 0, 1})
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestSinglePointCrossoverNeverCutsAtEnds(t *testing.T) {
	rng := NewSource(11)
	a := model.Genome{0, 0}
	b := model.Genome{1, 1}
	for i := 0; i < 100; i++ {
		childA, childB, err := SinglePointCrossover(rng, a, b)
		require.NoError(t, err)
		require.Equal(t, model.Genome{0, 1}, childA)
		require.Equal(t, model.Genome{1, 0}, childB)
	}
}
