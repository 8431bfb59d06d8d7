package evo

import (
	"errors"

	"knapsackga/internal/model"
)

// ErrLengthMismatch reports genomes (or a genome and a catalog) that do not
// line up position for position.
var ErrLengthMismatch = errors.New("length mismatch")

// FitnessFunc scores one genome. Implementations must be deterministic and
// side-effect free; the driver may call them concurrently.
type FitnessFunc func(genome model.Genome) (int, error)

// Crossover recombines two parents into two offspring. Offspring must not
// share backing arrays with the parents.
type Crossover interface {
	Name() string
	Cross(rng Source, a, b model.Genome) (model.Genome, model.Genome, error)
}

// Mutator perturbs a genome in place and returns it.
type Mutator interface {
	Name() string
	Mutate(rng Source, genome model.Genome) model.Genome
}
