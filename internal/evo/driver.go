package evo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"knapsackga/internal/model"
)

const (
	// EliteCount genomes are carried verbatim into every next generation.
	EliteCount             = 2
	DefaultGenerationLimit = 100
)

var ErrEmptyPopulation = errors.New("population is empty")

type Config struct {
	Populate        PopulateFunc
	Fitness         FitnessFunc
	FitnessLimit    int
	Selector        Selector
	Crossover       Crossover
	Mutator         Mutator
	GenerationLimit int
	Rand            Source
	// Workers bounds concurrent fitness evaluation; it never changes results.
	Workers  int
	Observer Observer
	Logger   *slog.Logger
}

type Result struct {
	// Population is the final population, best first.
	Population model.Population
	// Generation is the loop index at exit. When the limit runs out this is
	// GenerationLimit-1, not the number of generations executed.
	Generation int
	// Terminated is true when the fitness limit was reached.
	Terminated       bool
	BestFitness      int
	BestByGeneration []int
	Diagnostics      []model.GenerationDiagnostics
	Evaluations      int
}

// Best returns the top genome of the final population.
func (r Result) Best() (model.Genome, bool) {
	if len(r.Population) == 0 {
		return nil, false
	}
	return r.Population[0], true
}

type Driver struct {
	cfg         Config
	evaluations atomic.Int64
}

func NewDriver(cfg Config) (*Driver, error) {
	if cfg.Populate == nil {
		return nil, fmt.Errorf("population generator is required")
	}
	if cfg.Fitness == nil {
		return nil, fmt.Errorf("fitness function is required")
	}
	if cfg.Rand == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if cfg.GenerationLimit < 0 {
		return nil, fmt.Errorf("generation limit must be >= 0")
	}
	if cfg.GenerationLimit == 0 {
		cfg.GenerationLimit = DefaultGenerationLimit
	}
	if cfg.Selector == nil {
		cfg.Selector = RouletteSelector{}
	}
	if cfg.Crossover == nil {
		cfg.Crossover = SinglePoint{}
	}
	if cfg.Mutator == nil {
		cfg.Mutator = DefaultBitFlip()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Observer == nil {
		cfg.Observer = Observers(nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{cfg: cfg}, nil
}

// RunEvolution builds a Driver from cfg and runs it once.
func RunEvolution(ctx context.Context, cfg Config) (Result, error) {
	d, err := NewDriver(cfg)
	if err != nil {
		return Result{}, err
	}
	return d.Run(ctx)
}

func (d *Driver) Run(ctx context.Context) (Result, error) {
	d.evaluations.Store(0)

	population, err := d.cfg.Populate()
	if err != nil {
		return Result{}, fmt.Errorf("populate: %w", err)
	}
	if len(population) == 0 {
		return Result{}, ErrEmptyPopulation
	}

	result := Result{
		BestByGeneration: make([]int, 0, d.cfg.GenerationLimit),
		Diagnostics:      make([]model.GenerationDiagnostics, 0, d.cfg.GenerationLimit),
	}

	var ranked []ScoredGenome
	for gen := 0; gen < d.cfg.GenerationLimit; gen++ {
		result.Generation = gen
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		ranked, err = d.rank(ctx, population)
		if err != nil {
			return Result{}, fmt.Errorf("generation %d: %w", gen, err)
		}

		diag := Diagnose(gen, ranked)
		result.BestByGeneration = append(result.BestByGeneration, ranked[0].Fitness)
		result.Diagnostics = append(result.Diagnostics, diag)
		d.cfg.Observer.ObserveGeneration(diag)
		d.cfg.Logger.Debug("generation evaluated",
			"generation", gen,
			"population", len(ranked),
			"best", diag.BestFitness,
			"mean", diag.MeanFitness,
		)

		if ranked[0].Fitness >= d.cfg.FitnessLimit {
			result.Terminated = true
			population = populationOf(ranked)
			break
		}

		population, err = d.breed(ranked)
		if err != nil {
			return Result{}, fmt.Errorf("generation %d: %w", gen, err)
		}
		ranked = nil
	}

	// The terminated path is already ranked; the exhausted path holds the
	// last unevaluated brood.
	if ranked == nil {
		ranked, err = d.rank(ctx, population)
		if err != nil {
			return Result{}, fmt.Errorf("final ranking: %w", err)
		}
	}

	result.Population = populationOf(ranked)
	result.BestFitness = ranked[0].Fitness
	result.Evaluations = int(d.evaluations.Load())
	d.cfg.Logger.Info("evolution finished",
		"generation", result.Generation,
		"terminated", result.Terminated,
		"best", result.BestFitness,
		"evaluations", result.Evaluations,
	)
	return result, nil
}

func (d *Driver) rank(ctx context.Context, population model.Population) ([]ScoredGenome, error) {
	scored, err := ScorePopulation(ctx, population, d.countingFitness, d.cfg.Workers)
	if err != nil {
		return nil, err
	}
	RankScored(scored)
	return scored, nil
}

func (d *Driver) countingFitness(genome model.Genome) (int, error) {
	d.evaluations.Add(1)
	return d.cfg.Fitness(genome)
}

// breed carries the elites over and fills the rest with mutated offspring.
// It runs floor(n/2)-1 pair iterations, so odd sizes lose one slot and a
// population of 3 becomes 2.
func (d *Driver) breed(ranked []ScoredGenome) (model.Population, error) {
	elites := min(EliteCount, len(ranked))
	next := make(model.Population, 0, len(ranked))
	for _, s := range ranked[:elites] {
		next = append(next, s.Genome)
	}

	for j := 0; j < len(ranked)/2-1; j++ {
		a, b, err := d.cfg.Selector.SelectPair(d.cfg.Rand, ranked)
		if err != nil {
			return nil, fmt.Errorf("select parents: %w", err)
		}
		offspringA, offspringB, err := d.cfg.Crossover.Cross(d.cfg.Rand, a, b)
		if err != nil {
			return nil, fmt.Errorf("crossover: %w", err)
		}
		offspringA = d.cfg.Mutator.Mutate(d.cfg.Rand, offspringA)
		offspringB = d.cfg.Mutator.Mutate(d.cfg.Rand, offspringB)
		next = append(next, offspringA, offspringB)
	}
	return next, nil
}
