package evo

import (
	"fmt"

	"knapsackga/internal/model"
)

// ScoredGenome pairs a genome with its fitness for the current generation.
type ScoredGenome struct {
	Genome  model.Genome
	Fitness int
}

// Selector chooses a breeding pair from a scored population.
type Selector interface {
	Name() string
	SelectPair(rng Source, scored []ScoredGenome) (model.Genome, model.Genome, error)
}

// SelectionPair scores the whole population with fitness and draws a
// fitness-proportionate pair, with replacement.
func SelectionPair(rng Source, population model.Population, fitness FitnessFunc) (model.Genome, model.Genome, error) {
	scored := make([]ScoredGenome, len(population))
	for i, genome := range population {
		score, err := fitness(genome)
		if err != nil {
			return nil, nil, err
		}
		scored[i] = ScoredGenome{Genome: genome, Fitness: score}
	}
	return RouletteSelector{}.SelectPair(rng, scored)
}

// RouletteSelector draws each parent independently with probability
// proportional to fitness. An all-zero population degrades to a uniform draw.
type RouletteSelector struct{}

func (RouletteSelector) Name() string {
	return "roulette"
}

func (RouletteSelector) SelectPair(rng Source, scored []ScoredGenome) (model.Genome, model.Genome, error) {
	if rng == nil {
		return nil, nil, fmt.Errorf("random source is required")
	}
	if len(scored) == 0 {
		return nil, nil, ErrEmptyPopulation
	}

	cumulative := make([]int, len(scored))
	total := 0
	for i, s := range scored {
		if s.Fitness < 0 {
			return nil, nil, fmt.Errorf("negative selection weight %d at index %d", s.Fitness, i)
		}
		total += s.Fitness
		cumulative[i] = total
	}

	a := scored[spin(rng, cumulative, total)].Genome
	b := scored[spin(rng, cumulative, total)].Genome
	return a, b, nil
}

// spin returns the first index whose cumulative weight exceeds a uniform draw
// in [0, total). Zero-weight slots are never returned unless total is 0.
func spin(rng Source, cumulative []int, total int) int {
	if total == 0 {
		return rng.IntN(len(cumulative))
	}
	target := rng.Float64() * float64(total)
	lo, hi := 0, len(cumulative)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if target < float64(cumulative[mid]) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// TournamentSelector samples Size candidates with replacement for each
// parent and keeps the fittest; ties go to the earlier draw.
type TournamentSelector struct {
	Size int
}

func (TournamentSelector) Name() string {
	return "tournament"
}

func (s TournamentSelector) SelectPair(rng Source, scored []ScoredGenome) (model.Genome, model.Genome, error) {
	if rng == nil {
		return nil, nil, fmt.Errorf("random source is required")
	}
	if len(scored) == 0 {
		return nil, nil, ErrEmptyPopulation
	}

	size := s.Size
	if size <= 0 {
		size = 3
	}
	pick := func() model.Genome {
		best := scored[rng.IntN(len(scored))]
		for i := 1; i < size; i++ {
			candidate := scored[rng.IntN(len(scored))]
			if candidate.Fitness > best.Fitness {
				best = candidate
			}
		}
		return best.Genome
	}
	a := pick()
	b := pick()
	return a, b, nil
}

// SelectorFromName resolves a selector by its CLI name.
func SelectorFromName(name string, tournamentSize int) (Selector, error) {
	return ResolveSelector(name, SelectorParams{TournamentSize: tournamentSize})
}
