package evo

import (
	"fmt"

	"knapsackga/internal/model"
)

// SinglePoint splices two parents at one uniformly chosen cut point.
type SinglePoint struct{}

func (SinglePoint) Name() string {
	return "single_point"
}

func (SinglePoint) Cross(rng Source, a, b model.Genome) (model.Genome, model.Genome, error) {
	return SinglePointCrossover(rng, a, b)
}

// SinglePointCrossover picks p in [1, len-1] and returns a[:p]+b[p:] and
// b[:p]+a[p:]. Parents shorter than 2 come back unchanged, as copies.
func SinglePointCrossover(rng Source, a, b model.Genome) (model.Genome, model.Genome, error) {
	if len(a) != len(b) {
		return nil, nil, fmt.Errorf("crossover parents: %w: %d != %d", ErrLengthMismatch, len(a), len(b))
	}

	length := len(a)
	if length < 2 {
		return CloneGenome(a), CloneGenome(b), nil
	}

	p := rng.IntBetween(1, length-1)
	return splice(a, b, p), splice(b, a, p), nil
}

func splice(head, tail model.Genome, p int) model.Genome {
	child := make(model.Genome, 0, len(head))
	child = append(child, head[:p]...)
	child = append(child, tail[p:]...)
	return child
}
