package knapsack

import (
	"fmt"

	"knapsackga/internal/evo"
	"knapsackga/internal/model"
)

// Problem is one knapsack instance: a catalog paired positionally with
// genome indices, plus a weight limit.
type Problem struct {
	Items       []model.Item
	WeightLimit int
}

// Fitness returns the total value of the selected items, or 0 as soon as the
// running weight goes over weightLimit. Reaching the limit exactly is fine.
func Fitness(genome model.Genome, items []model.Item, weightLimit int) (int, error) {
	if len(genome) != len(items) {
		return 0, fmt.Errorf("genome and items: %w: %d != %d", evo.ErrLengthMismatch, len(genome), len(items))
	}

	weight := 0
	value := 0
	for i, item := range items {
		if genome[i] != 1 {
			continue
		}
		weight += item.Weight
		value += item.Value
		if weight > weightLimit {
			return 0, nil
		}
	}
	return value, nil
}

func (p Problem) Fitness(genome model.Genome) (int, error) {
	return Fitness(genome, p.Items, p.WeightLimit)
}

// FitnessFunc binds the problem into the engine's fitness signature.
func (p Problem) FitnessFunc() evo.FitnessFunc {
	return p.Fitness
}

func (p Problem) GenomeLength() int {
	return len(p.Items)
}

// Decode lists the names of the items a genome selects, in catalog order.
func Decode(genome model.Genome, items []model.Item) ([]string, error) {
	if len(genome) != len(items) {
		return nil, fmt.Errorf("genome and items: %w: %d != %d", evo.ErrLengthMismatch, len(genome), len(items))
	}
	names := make([]string, 0, len(items))
	for i, item := range items {
		if genome[i] == 1 {
			names = append(names, item.Name)
		}
	}
	return names, nil
}

// Totals reports the summed weight and value of the selected items without
// applying the limit.
func Totals(genome model.Genome, items []model.Item) (weight, value int, err error) {
	if len(genome) != len(items) {
		return 0, 0, fmt.Errorf("genome and items: %w: %d != %d", evo.ErrLengthMismatch, len(genome), len(items))
	}
	for i, item := range items {
		if genome[i] == 1 {
			weight += item.Weight
			value += item.Value
		}
	}
	return weight, value, nil
}
