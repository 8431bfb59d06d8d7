package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"knapsackga/internal/model"
)

func TestCollectorTracksLatestGeneration(t *testing.T) {
	c := NewCollector("run-1")
	c.ObserveGeneration(model.GenerationDiagnostics{Generation: 0, PopulationSize: 10, BestFitness: 900, MeanFitness: 300, ZeroFitness: 4, Distinct: 10})
	c.ObserveGeneration(model.GenerationDiagnostics{Generation: 1, PopulationSize: 10, BestFitness: 1200, MeanFitness: 640.5, StdDevFitness: 12.5, ZeroFitness: 2, Distinct: 8})

	require.Equal(t, 2.0, testutil.ToFloat64(c.generations))
	require.Equal(t, 1200.0, testutil.ToFloat64(c.bestFitness))
	require.Equal(t, 640.5, testutil.ToFloat64(c.meanFitness))
	require.Equal(t, 12.5, testutil.ToFloat64(c.stddevFitness))
	require.Equal(t, 2.0, testutil.ToFloat64(c.zeroFitness))
	require.Equal(t, 8.0, testutil.ToFloat64(c.distinct))

	count, err := testutil.GatherAndCount(c.Registry(), "knapsackga_generation_best_fitness")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestCollectorWritesTextfile(t *testing.T) {
	c := NewCollector("run-2")
	c.ObserveGeneration(model.GenerationDiagnostics{BestFitness: 42, PopulationSize: 4})

	path := filepath.Join(t.TempDir(), "run.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	require.True(t, strings.Contains(text, `knapsackga_best_fitness{run_id="run-2"} 42`), text)
	require.Contains(t, text, "knapsackga_generations_evaluated_total")
}
