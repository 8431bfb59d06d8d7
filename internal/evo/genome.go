package evo

import (
	"golang.org/x/exp/slices"

	"knapsackga/internal/model"
)

// PopulateFunc produces the starting population of a run.
type PopulateFunc func() (model.Population, error)

// GenerateGenome returns a genome with every position set to 0 or 1 with
// equal probability.
func GenerateGenome(rng Source, length int) model.Genome {
	if length < 0 {
		length = 0
	}
	genome := make(model.Genome, length)
	for i := range genome {
		genome[i] = rng.IntN(2)
	}
	return genome
}

// GeneratePopulation returns size independently generated genomes.
func GeneratePopulation(rng Source, size, genomeLength int) model.Population {
	if size < 0 {
		size = 0
	}
	population := make(model.Population, 0, size)
	for i := 0; i < size; i++ {
		population = append(population, GenerateGenome(rng, genomeLength))
	}
	return population
}

// RandomPopulation binds GeneratePopulation into a PopulateFunc.
func RandomPopulation(rng Source, size, genomeLength int) PopulateFunc {
	return func() (model.Population, error) {
		return GeneratePopulation(rng, size, genomeLength), nil
	}
}

// FixedPopulation returns a PopulateFunc that yields size copies of genome.
func FixedPopulation(genome model.Genome, size int) PopulateFunc {
	return func() (model.Population, error) {
		population := make(model.Population, size)
		for i := range population {
			population[i] = CloneGenome(genome)
		}
		return population, nil
	}
}

func CloneGenome(genome model.Genome) model.Genome {
	if genome == nil {
		return nil
	}
	return slices.Clone(genome)
}

func GenomesEqual(a, b model.Genome) bool {
	return slices.Equal(a, b)
}
