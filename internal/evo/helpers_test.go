package evo

import (
	"fmt"

	"knapsackga/internal/model"
)

// scriptedSource replays fixed draws so tests can pin cut points, indices
// and probabilities.
type scriptedSource struct {
	ints   []int
	floats []float64
}

func (s *scriptedSource) nextInt() int {
	if len(s.ints) == 0 {
		panic("scripted source: out of ints")
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v
}

func (s *scriptedSource) IntN(n int) int {
	v := s.nextInt()
	if v < 0 || v >= n {
		panic(fmt.Sprintf("scripted source: %d outside [0,%d)", v, n))
	}
	return v
}

func (s *scriptedSource) IntBetween(lo, hi int) int {
	v := s.nextInt()
	if v < lo || v > hi {
		panic(fmt.Sprintf("scripted source: %d outside [%d,%d]", v, lo, hi))
	}
	return v
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		panic("scripted source: out of floats")
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

type testItem struct {
	value  int
	weight int
}

// packFitness mirrors the knapsack evaluator without importing it.
func packFitness(items []testItem, limit int) FitnessFunc {
	return func(genome model.Genome) (int, error) {
		if len(genome) != len(items) {
			return 0, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(genome), len(items))
		}
		weight, value := 0, 0
		for i, item := range items {
			if genome[i] == 1 {
				weight += item.weight
				value += item.value
				if weight > limit {
					return 0, nil
				}
			}
		}
		return value, nil
	}
}

var tenItems = []testItem{
	{5, 25}, {10, 38}, {15, 80}, {500, 200}, {100, 70},
	{500, 2200}, {150, 160}, {60, 350}, {40, 333}, {30, 192},
}
