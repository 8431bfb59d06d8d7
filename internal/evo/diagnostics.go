package evo

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"knapsackga/internal/model"
)

// Observer receives one diagnostics record per evaluated generation.
type Observer interface {
	ObserveGeneration(diag model.GenerationDiagnostics)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(diag model.GenerationDiagnostics)

func (f ObserverFunc) ObserveGeneration(diag model.GenerationDiagnostics) {
	f(diag)
}

// Observers fans a record out to every non-nil observer in order.
type Observers []Observer

func (o Observers) ObserveGeneration(diag model.GenerationDiagnostics) {
	for _, observer := range o {
		if observer != nil {
			observer.ObserveGeneration(diag)
		}
	}
}

// Diagnose summarizes a ranked (best-first) generation.
func Diagnose(generation int, ranked []ScoredGenome) model.GenerationDiagnostics {
	diag := model.GenerationDiagnostics{
		Generation:     generation,
		PopulationSize: len(ranked),
	}
	if len(ranked) == 0 {
		return diag
	}

	values := make([]float64, len(ranked))
	distinct := make(map[string]struct{}, len(ranked))
	diag.BestFitness = ranked[0].Fitness
	diag.WorstFitness = ranked[0].Fitness
	for i, s := range ranked {
		values[i] = float64(s.Fitness)
		if s.Fitness > diag.BestFitness {
			diag.BestFitness = s.Fitness
		}
		if s.Fitness < diag.WorstFitness {
			diag.WorstFitness = s.Fitness
		}
		if s.Fitness == 0 {
			diag.ZeroFitness++
		}
		distinct[genomeKey(s.Genome)] = struct{}{}
	}
	diag.Distinct = len(distinct)
	diag.MeanFitness = stat.Mean(values, nil)
	if len(values) > 1 {
		diag.StdDevFitness = stat.StdDev(values, nil)
	}
	return diag
}

func genomeKey(genome model.Genome) string {
	var b strings.Builder
	b.Grow(len(genome))
	for _, bit := range genome {
		b.WriteString(strconv.Itoa(bit))
	}
	return b.String()
}
