package evo

import (
	"context"
	"fmt"
	"sort"

	"github.com/sourcegraph/conc/pool"

	"knapsackga/internal/model"
)

// ScorePopulation evaluates every genome exactly once. With workers > 1 the
// evaluations run on a bounded pool; results keep population order either way.
func ScorePopulation(ctx context.Context, population model.Population, fitness FitnessFunc, workers int) ([]ScoredGenome, error) {
	scored := make([]ScoredGenome, len(population))
	if workers <= 1 || len(population) < 2 {
		for i, genome := range population {
			score, err := fitness(genome)
			if err != nil {
				return nil, fmt.Errorf("score genome %d: %w", i, err)
			}
			scored[i] = ScoredGenome{Genome: genome, Fitness: score}
		}
		return scored, nil
	}

	if workers > len(population) {
		workers = len(population)
	}
	p := pool.New().WithContext(ctx).WithMaxGoroutines(workers).WithFirstError()
	for i, genome := range population {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			score, err := fitness(genome)
			if err != nil {
				return fmt.Errorf("score genome %d: %w", i, err)
			}
			scored[i] = ScoredGenome{Genome: genome, Fitness: score}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return scored, nil
}

// RankScored sorts best-first. The sort is stable so equal scores keep their
// previous relative order.
func RankScored(scored []ScoredGenome) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Fitness > scored[j].Fitness
	})
}

func populationOf(scored []ScoredGenome) model.Population {
	population := make(model.Population, len(scored))
	for i, s := range scored {
		population[i] = s.Genome
	}
	return population
}
