package knapsackga

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"knapsackga/internal/evo"
	"knapsackga/internal/knapsack"
	"knapsackga/internal/metrics"
	"knapsackga/internal/model"
	"knapsackga/internal/stats"
	"knapsackga/internal/storage"
)

const (
	defaultExportsDir = "exports"
	defaultDBPath     = "knapsackga.db"

	DefaultPopulation      = 10
	DefaultWeightLimit     = 3000
	DefaultFitnessLimit    = 1310
	DefaultGenerationLimit = evo.DefaultGenerationLimit
)

type Options struct {
	StoreKind  string
	DBPath     string
	ExportsDir string
	Logger     *slog.Logger
}

type Client struct {
	store      storage.Store
	exportsDir string
	logger     *slog.Logger
}

type RunRequest struct {
	// Catalog names a built-in catalog. Ignored when Items is set.
	Catalog string
	Items   []model.Item

	Population  int
	WeightLimit int
	// FitnessLimit stops the run once the best fitness reaches it. Nil means
	// DefaultFitnessLimit; an explicit 0 stops at generation 0.
	FitnessLimit    *int
	GenerationLimit int
	Seed            int64
	Workers         int

	Selection      string
	TournamentSize int

	Mutations int
	// MutationProbability is the per-attempt flip probability. Nil means
	// evo.DefaultMutationProbability; an explicit 0 disables mutation.
	MutationProbability *float64

	// MetricsOut, when set, receives a prometheus textfile dump after the run.
	MetricsOut string
}

// Ptr returns a pointer to v, for the optional RunRequest fields.
func Ptr[T any](v T) *T {
	return &v
}

type RunSummary struct {
	RunID            string
	Catalog          string
	Population       int
	GenerationLimit  int
	Seed             int64
	Generation       int
	Terminated       bool
	Elapsed          time.Duration
	BestGenome       model.Genome
	BestFitness      int
	BestItems        []string
	BestByGeneration []int
	Evaluations      int
}

type RunsRequest struct {
	Limit int
}

type ShowRequest struct {
	RunID  string
	Latest bool
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

type CatalogSummary struct {
	Name  string
	Items []model.Item
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:      store,
		exportsDir: exportsDir,
		logger:     logger,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

// Run evolves one knapsack solution and records the outcome.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.Population <= 0 {
		req.Population = DefaultPopulation
	}
	if req.WeightLimit <= 0 {
		req.WeightLimit = DefaultWeightLimit
	}
	fitnessLimit := DefaultFitnessLimit
	if req.FitnessLimit != nil {
		fitnessLimit = *req.FitnessLimit
	}
	if fitnessLimit < 0 {
		return RunSummary{}, errors.New("fitness limit must be >= 0")
	}
	if req.GenerationLimit <= 0 {
		req.GenerationLimit = DefaultGenerationLimit
	}
	if req.Workers <= 0 {
		req.Workers = 1
	}
	if req.Mutations <= 0 {
		req.Mutations = evo.DefaultMutationNum
	}
	mutationProbability := evo.DefaultMutationProbability
	if req.MutationProbability != nil {
		mutationProbability = *req.MutationProbability
	}
	if mutationProbability < 0 || mutationProbability > 1 {
		return RunSummary{}, errors.New("mutation probability must be in [0, 1]")
	}

	items := req.Items
	catalog := "custom"
	if len(items) == 0 {
		if req.Catalog == "" {
			req.Catalog = knapsack.DefaultCatalog
		}
		var err error
		items, err = knapsack.Catalog(req.Catalog)
		if err != nil {
			return RunSummary{}, err
		}
		catalog = req.Catalog
	}
	if err := knapsack.ValidateItems(items); err != nil {
		return RunSummary{}, err
	}

	selector, err := evo.SelectorFromName(req.Selection, req.TournamentSize)
	if err != nil {
		return RunSummary{}, err
	}

	if err := c.store.Init(ctx); err != nil {
		return RunSummary{}, err
	}

	runID := uuid.NewString()
	logger := c.logger.With("run_id", runID)
	collector := metrics.NewCollector(runID)

	problem := knapsack.Problem{Items: items, WeightLimit: req.WeightLimit}
	rng := evo.NewSource(req.Seed)

	started := time.Now()
	result, err := evo.RunEvolution(ctx, evo.Config{
		Populate:        evo.RandomPopulation(rng, req.Population, problem.GenomeLength()),
		Fitness:         problem.FitnessFunc(),
		FitnessLimit:    fitnessLimit,
		Selector:        selector,
		Crossover:       evo.SinglePoint{},
		Mutator:         evo.BitFlip{Num: req.Mutations, Probability: mutationProbability},
		GenerationLimit: req.GenerationLimit,
		Rand:            rng,
		Workers:         req.Workers,
		Observer:        collector,
		Logger:          logger,
	})
	if err != nil {
		return RunSummary{}, err
	}
	elapsed := time.Since(started)

	best, ok := result.Best()
	if !ok {
		return RunSummary{}, evo.ErrEmptyPopulation
	}
	bestItems, err := knapsack.Decode(best, items)
	if err != nil {
		return RunSummary{}, err
	}

	record := storage.Stamp(model.RunRecord{
		RunID:               runID,
		CreatedAtUTC:        storage.FormatCreatedAt(started),
		Catalog:             catalog,
		Items:               items,
		WeightLimit:         req.WeightLimit,
		FitnessLimit:        fitnessLimit,
		PopulationSize:      req.Population,
		GenerationLimit:     req.GenerationLimit,
		Selection:           selector.Name(),
		Mutations:           req.Mutations,
		MutationProbability: mutationProbability,
		Seed:                req.Seed,
		Generation:          result.Generation,
		Terminated:          result.Terminated,
		Evaluations:         result.Evaluations,
		ElapsedMS:           elapsed.Milliseconds(),
		BestGenome:          best,
		BestFitness:         result.BestFitness,
		BestItems:           bestItems,
		BestByGeneration:    result.BestByGeneration,
		Diagnostics:         result.Diagnostics,
	})
	if err := c.store.SaveRun(ctx, record); err != nil {
		return RunSummary{}, fmt.Errorf("save run %s: %w", runID, err)
	}

	if req.MetricsOut != "" {
		if err := collector.WriteTextfile(req.MetricsOut); err != nil {
			return RunSummary{}, fmt.Errorf("write metrics: %w", err)
		}
	}

	return RunSummary{
		RunID:            runID,
		Catalog:          catalog,
		Population:       req.Population,
		GenerationLimit:  req.GenerationLimit,
		Seed:             req.Seed,
		Generation:       result.Generation,
		Terminated:       result.Terminated,
		Elapsed:          elapsed,
		BestGenome:       evo.CloneGenome(best),
		BestFitness:      result.BestFitness,
		BestItems:        bestItems,
		BestByGeneration: append([]int(nil), result.BestByGeneration...),
		Evaluations:      result.Evaluations,
	}, nil
}

func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]model.RunRecord, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if err := c.store.Init(ctx); err != nil {
		return nil, err
	}
	return c.store.ListRuns(ctx, req.Limit)
}

func (c *Client) Show(ctx context.Context, req ShowRequest) (model.RunRecord, error) {
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return model.RunRecord{}, err
	}
	record, ok, err := c.store.GetRun(ctx, runID)
	if err != nil {
		return model.RunRecord{}, err
	}
	if !ok {
		return model.RunRecord{}, fmt.Errorf("%w: %s", storage.ErrRunNotFound, runID)
	}
	return record, nil
}

func (c *Client) Export(ctx context.Context, req ExportRequest) (ExportSummary, error) {
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}
	record, err := c.Show(ctx, ShowRequest{RunID: req.RunID, Latest: req.Latest})
	if err != nil {
		return ExportSummary{}, err
	}
	dir, err := stats.WriteRunArtifacts(req.OutDir, record)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: record.RunID, Directory: filepath.Clean(dir)}, nil
}

// Catalogs lists the built-in catalogs in name order.
func (c *Client) Catalogs(_ context.Context) ([]CatalogSummary, error) {
	names := knapsack.CatalogNames()
	out := make([]CatalogSummary, 0, len(names))
	for _, name := range names {
		items, err := knapsack.Catalog(name)
		if err != nil {
			return nil, err
		}
		out = append(out, CatalogSummary{Name: name, Items: items})
	}
	return out, nil
}

func (c *Client) resolveRunID(ctx context.Context, runID string, latest bool) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if runID == "" && !latest {
		return "", errors.New("run id or latest is required")
	}
	if err := c.store.Init(ctx); err != nil {
		return "", err
	}
	if runID != "" {
		return runID, nil
	}
	record, err := storage.LatestRun(ctx, c.store)
	if err != nil {
		return "", err
	}
	return record.RunID, nil
}
