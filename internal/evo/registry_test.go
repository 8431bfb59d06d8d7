package evo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"knapsackga/internal/model"
)

type firstTwoSelector struct{}

func (firstTwoSelector) Name() string { return "first_two" }

func (firstTwoSelector) SelectPair(_ Source, scored []ScoredGenome) (model.Genome, model.Genome, error) {
	if len(scored) < 2 {
		return nil, nil, ErrEmptyPopulation
	}
	return scored[0].Genome, scored[1].Genome, nil
}

func TestBuiltinSelectorsRegistered(t *testing.T) {
	require.Equal(t, []string{"roulette", "tournament"}, ListSelectors())
}

func TestRegisterAndResolveSelector(t *testing.T) {
	resetSelectorRegistryForTests()
	t.Cleanup(resetSelectorRegistryForTests)

	require.NoError(t, RegisterSelector("first_two", func(SelectorParams) Selector {
		return firstTwoSelector{}
	}))
	s, err := ResolveSelector("first_two", SelectorParams{})
	require.NoError(t, err)
	require.Equal(t, "first_two", s.Name())
	require.Equal(t, []string{"first_two", "roulette", "tournament"}, ListSelectors())

	err = RegisterSelector("roulette", func(SelectorParams) Selector { return RouletteSelector{} })
	require.ErrorIs(t, err, ErrSelectorExists)
}

func TestRegisterSelectorValidation(t *testing.T) {
	require.Error(t, RegisterSelector("", func(SelectorParams) Selector { return RouletteSelector{} }))
	require.Error(t, RegisterSelector("x", nil))

	_, err := ResolveSelector("missing", SelectorParams{})
	require.ErrorIs(t, err, ErrSelectorNotFound)
}

func TestResolveSelectorPassesParams(t *testing.T) {
	s, err := ResolveSelector("tournament", SelectorParams{TournamentSize: 5})
	require.NoError(t, err)
	require.Equal(t, TournamentSelector{Size: 5}, s)
}
