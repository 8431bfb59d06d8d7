package knapsack

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"knapsackga/internal/evo"
	"knapsackga/internal/model"
)

var twoItems = []model.Item{
	{Name: "A", Value: 10, Weight: 10},
	{Name: "B", Value: 20, Weight: 10},
}

func TestFitnessTwoItemScenario(t *testing.T) {
	for _, tc := range []struct {
		genome model.Genome
		want   int
	}{
		{genome: model.Genome{1, 0}, want: 10},
		{genome: model.Genome{0, 1}, want: 20},
		{genome: model.Genome{1, 1}, want: 0},
		{genome: model.Genome{0, 0}, want: 0},
	} {
		got, err := Fitness(tc.genome, twoItems, 10)
		require.NoError(t, err)
		require.Equalf(t, tc.want, got, "genome %v", tc.genome)
	}
}

func TestFitnessLimitIsInclusive(t *testing.T) {
	got, err := Fitness(model.Genome{1, 1}, twoItems, 20)
	require.NoError(t, err)
	require.Equal(t, 30, got)
}

func TestFitnessZeroWhenAnyPrefixOverflows(t *testing.T) {
	items, err := Catalog(CatalogMoreThings)
	require.NoError(t, err)
	rng := evo.NewSource(31)

	for i := 0; i < 500; i++ {
		genome := evo.GenerateGenome(rng, len(items))
		got, err := Fitness(genome, items, 3000)
		require.NoError(t, err)
		require.GreaterOrEqual(t, got, 0)

		weight, value, err := Totals(genome, items)
		require.NoError(t, err)
		if weight > 3000 {
			require.Zero(t, got)
		} else {
			require.Equal(t, value, got)
		}
	}
}

func TestFitnessRejectsLengthMismatch(t *testing.T) {
	_, err := Fitness(model.Genome{1}, twoItems, 10)
	require.ErrorIs(t, err, evo.ErrLengthMismatch)

	_, err = Decode(model.Genome{1, 0, 1}, twoItems)
	require.ErrorIs(t, err, evo.ErrLengthMismatch)
}

func TestDecodeListsSelectedNames(t *testing.T) {
	items, err := Catalog(CatalogThings)
	require.NoError(t, err)

	names, err := Decode(model.Genome{1, 0, 1, 0, 1}, items)
	require.NoError(t, err)
	require.Equal(t, []string{"Laptop", "Coffee Mug", "Water Bottle"}, names)
}

func TestProblemFitnessFuncMatchesFitness(t *testing.T) {
	problem := Problem{Items: twoItems, WeightLimit: 10}
	fn := problem.FitnessFunc()
	got, err := fn(model.Genome{0, 1})
	require.NoError(t, err)
	require.Equal(t, 20, got)
	require.Equal(t, 2, problem.GenomeLength())
}

func TestEvolutionFindsBestTwoItemSelection(t *testing.T) {
	problem := Problem{Items: twoItems, WeightLimit: 10}
	rng := evo.NewSource(12)

	result, err := evo.RunEvolution(context.Background(), evo.Config{
		Populate:        evo.RandomPopulation(rng, 6, problem.GenomeLength()),
		Fitness:         problem.FitnessFunc(),
		FitnessLimit:    20,
		GenerationLimit: 100,
		Rand:            rng,
	})
	require.NoError(t, err)
	require.True(t, result.Terminated)
	require.Equal(t, model.Genome{0, 1}, result.Population[0])
}

func TestEvolutionOnMoreThingsIsDeterministic(t *testing.T) {
	items, err := Catalog(CatalogMoreThings)
	require.NoError(t, err)
	problem := Problem{Items: items, WeightLimit: 3000}

	run := func() evo.Result {
		rng := evo.NewSource(2024)
		result, err := evo.RunEvolution(context.Background(), evo.Config{
			Populate:        evo.RandomPopulation(rng, 10, problem.GenomeLength()),
			Fitness:         problem.FitnessFunc(),
			FitnessLimit:    1310,
			GenerationLimit: 100,
			Rand:            rng,
		})
		require.NoError(t, err)
		return result
	}

	first, second := run(), run()
	require.Equal(t, first.Generation, second.Generation)
	require.Equal(t, first.Population, second.Population)
	best, err := problem.Fitness(first.Population[0])
	require.NoError(t, err)
	require.Equal(t, first.BestFitness, best)
	require.LessOrEqual(t, best, 1310)
}
