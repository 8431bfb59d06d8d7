package knapsackga

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"knapsackga/internal/knapsack"
	"knapsackga/internal/model"
	"knapsackga/internal/stats"
	"knapsackga/internal/storage"
)

func newMemoryClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(Options{
		StoreKind:  "memory",
		ExportsDir: filepath.Join(t.TempDir(), "exports"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
	})
	require.NoError(t, client.Init(context.Background()))
	return client
}

func TestClientRunRunsShowAndExport(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient(t)

	summary, err := client.Run(ctx, RunRequest{
		Catalog:         knapsack.CatalogThings,
		GenerationLimit: 20,
		FitnessLimit:    Ptr(740),
		Seed:            11,
	})
	require.NoError(t, err)
	require.NotEmpty(t, summary.RunID)
	require.NotEmpty(t, summary.BestByGeneration)
	require.GreaterOrEqual(t, summary.BestFitness, summary.BestByGeneration[len(summary.BestByGeneration)-1])
	if summary.Terminated {
		require.GreaterOrEqual(t, summary.BestFitness, 740)
	} else {
		require.Equal(t, 19, summary.Generation)
	}

	runs, err := client.Runs(ctx, RunsRequest{Limit: 5})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, summary.RunID, runs[0].RunID)

	record, err := client.Show(ctx, ShowRequest{Latest: true})
	require.NoError(t, err)
	require.Equal(t, summary.RunID, record.RunID)
	require.Equal(t, knapsack.CatalogThings, record.Catalog)
	require.Equal(t, DefaultPopulation, record.PopulationSize)
	require.Equal(t, DefaultWeightLimit, record.WeightLimit)
	require.Equal(t, "roulette", record.Selection)
	require.Equal(t, 740, record.FitnessLimit)
	require.Equal(t, 0.5, record.MutationProbability)
	require.Equal(t, summary.BestItems, record.BestItems)
	require.Len(t, record.Diagnostics, len(record.BestByGeneration))

	exported, err := client.Export(ctx, ExportRequest{RunID: summary.RunID})
	require.NoError(t, err)
	require.Equal(t, summary.RunID, exported.RunID)

	fromDisk, ok, err := stats.ReadRunRecord(filepath.Dir(exported.Directory), summary.RunID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, record, fromDisk)
}

func TestClientRunIsDeterministicPerSeed(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient(t)

	req := RunRequest{GenerationLimit: 15, Seed: 99, FitnessLimit: Ptr(100000)}
	first, err := client.Run(ctx, req)
	require.NoError(t, err)

	req.Workers = 4
	second, err := client.Run(ctx, req)
	require.NoError(t, err)

	require.NotEqual(t, first.RunID, second.RunID)
	require.Equal(t, first.BestByGeneration, second.BestByGeneration)
	require.Equal(t, first.BestGenome, second.BestGenome)
	require.False(t, first.Terminated)
	require.Equal(t, 14, first.Generation)
}

func TestClientRunWithCustomItemsAndMetrics(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient(t)
	metricsPath := filepath.Join(t.TempDir(), "run.prom")

	summary, err := client.Run(ctx, RunRequest{
		Items: []model.Item{
			{Name: "a", Value: 10, Weight: 5},
			{Name: "b", Value: 20, Weight: 5},
		},
		WeightLimit:  10,
		FitnessLimit: Ptr(30),
		Population:   6,
		Selection:    "tournament",
		Seed:         1,
		MetricsOut:   metricsPath,
	})
	require.NoError(t, err)
	require.LessOrEqual(t, summary.BestFitness, 30)

	record, err := client.Show(ctx, ShowRequest{RunID: summary.RunID})
	require.NoError(t, err)
	require.Equal(t, "custom", record.Catalog)
	require.Equal(t, "tournament", record.Selection)

	_, err = os.Stat(metricsPath)
	require.NoError(t, err)
}

func TestClientRejectsBadRequests(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient(t)

	_, err := client.Run(ctx, RunRequest{Catalog: "nope"})
	require.ErrorIs(t, err, knapsack.ErrUnknownCatalog)

	_, err = client.Run(ctx, RunRequest{Selection: "rank"})
	require.Error(t, err)

	_, err = client.Run(ctx, RunRequest{MutationProbability: Ptr(1.5)})
	require.Error(t, err)

	_, err = client.Run(ctx, RunRequest{MutationProbability: Ptr(-0.1)})
	require.Error(t, err)

	_, err = client.Run(ctx, RunRequest{FitnessLimit: Ptr(-1)})
	require.Error(t, err)

	_, err = client.Show(ctx, ShowRequest{})
	require.Error(t, err)

	_, err = client.Show(ctx, ShowRequest{RunID: "a", Latest: true})
	require.Error(t, err)

	_, err = client.Show(ctx, ShowRequest{Latest: true})
	require.ErrorIs(t, err, storage.ErrRunNotFound)

	_, err = client.Show(ctx, ShowRequest{RunID: "missing"})
	require.ErrorIs(t, err, storage.ErrRunNotFound)

	_, err = New(Options{StoreKind: "redis"})
	require.Error(t, err)
}

func TestClientShowLatestReturnsNewestRun(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient(t)

	for i := 0; i < 10; i++ {
		req := RunRequest{Population: 4, GenerationLimit: 1, Seed: int64(i)}
		first, err := client.Run(ctx, req)
		require.NoError(t, err)
		second, err := client.Run(ctx, req)
		require.NoError(t, err)

		latest, err := client.Show(ctx, ShowRequest{Latest: true})
		require.NoError(t, err)
		require.Equal(t, second.RunID, latest.RunID, "round %d, first run %s", i, first.RunID)

		runs, err := client.Runs(ctx, RunsRequest{Limit: 2})
		require.NoError(t, err)
		require.Equal(t, []string{second.RunID, first.RunID}, []string{runs[0].RunID, runs[1].RunID})
	}
}

func TestClientRunHonoursExplicitZeros(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient(t)

	summary, err := client.Run(ctx, RunRequest{
		GenerationLimit:     30,
		Seed:                5,
		FitnessLimit:        Ptr(0),
		MutationProbability: Ptr(0.0),
	})
	require.NoError(t, err)
	require.True(t, summary.Terminated)
	require.Equal(t, 0, summary.Generation)

	record, err := client.Show(ctx, ShowRequest{RunID: summary.RunID})
	require.NoError(t, err)
	require.Equal(t, 0, record.FitnessLimit)
	require.Equal(t, 0.0, record.MutationProbability)

	defaults, err := client.Run(ctx, RunRequest{GenerationLimit: 1, Seed: 5})
	require.NoError(t, err)
	record, err = client.Show(ctx, ShowRequest{RunID: defaults.RunID})
	require.NoError(t, err)
	require.Equal(t, DefaultFitnessLimit, record.FitnessLimit)
	require.Equal(t, 0.5, record.MutationProbability)
}

func TestClientCatalogs(t *testing.T) {
	catalogs, err := newMemoryClient(t).Catalogs(context.Background())
	require.NoError(t, err)
	require.Len(t, catalogs, 2)
	require.Equal(t, knapsack.CatalogMoreThings, catalogs[0].Name)
	require.Len(t, catalogs[0].Items, 10)
	require.Equal(t, knapsack.CatalogThings, catalogs[1].Name)
}
