package evo

import (
	"knapsackga/internal/model"
)

const (
	DefaultMutationNum         = 1
	DefaultMutationProbability = 0.5
)

// BitFlip makes Num attempts, each flipping one random position with the
// given probability.
type BitFlip struct {
	Num         int
	Probability float64
}

func DefaultBitFlip() BitFlip {
	return BitFlip{Num: DefaultMutationNum, Probability: DefaultMutationProbability}
}

func (BitFlip) Name() string {
	return "bit_flip"
}

func (m BitFlip) Mutate(rng Source, genome model.Genome) model.Genome {
	return Mutation(rng, genome, m.Num, m.Probability)
}

// Mutation runs num attempts over genome in place. Each attempt picks a
// uniform index and flips it when the draw is <= probability, so the same
// index can be hit twice and cancel out. A probability of 0 never flips,
// even on a zero draw.
func Mutation(rng Source, genome model.Genome, num int, probability float64) model.Genome {
	if len(genome) == 0 {
		return genome
	}
	for i := 0; i < num; i++ {
		index := rng.IntN(len(genome))
		if rng.Float64() <= probability && probability > 0 {
			genome[index] = 1 - genome[index]
		}
	}
	return genome
}
