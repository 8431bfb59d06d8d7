package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/mattn/go-isatty"

	"knapsackga/internal/evo"
	"knapsackga/internal/knapsack"
	"knapsackga/internal/stats"
	"knapsackga/internal/storage"
	api "knapsackga/pkg/knapsackga"
)

const (
	defaultDBPath = "knapsackga.db"
	exportsDir    = "exports"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "show":
		return runShow(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	case "catalogs":
		return runCatalogs(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional run config path (.json or .toml)")
	catalog := fs.String("catalog", knapsack.DefaultCatalog, "built-in catalog: "+strings.Join(knapsack.CatalogNames(), "|"))
	catalogFile := fs.String("catalog-file", "", "catalog file (.json or .toml) overriding --catalog")
	population := fs.Int("pop", api.DefaultPopulation, "population size")
	weightLimit := fs.Int("weight-limit", api.DefaultWeightLimit, "knapsack weight limit")
	fitnessLimit := fs.Int("fitness-limit", api.DefaultFitnessLimit, "stop once the best fitness reaches this value")
	generations := fs.Int("gens", api.DefaultGenerationLimit, "generation limit")
	seed := fs.Int64("seed", 1, "rng seed")
	selection := fs.String("selection", "roulette", "parent selection: "+strings.Join(evo.ListSelectors(), "|"))
	tournamentSize := fs.Int("tournament-size", 3, "candidates per tournament")
	mutations := fs.Int("mutations", evo.DefaultMutationNum, "mutation attempts per offspring")
	mutationProb := fs.Float64("mutation-prob", evo.DefaultMutationProbability, "flip probability per mutation attempt")
	workers := fs.Int("workers", 1, "concurrent fitness evaluations")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: "+strings.Join(storage.StoreKinds(), "|"))
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	metricsOut := fs.String("metrics-out", "", "write prometheus textfile metrics to this path")
	outDir := fs.String("out", "", "also write run artifacts under this directory")
	logLevel := fs.String("log-level", "warn", "log level: debug|info|warn|error")
	logJSON := fs.Bool("json", false, "emit logs as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	logger, err := newLogger(os.Stderr, *logLevel, *logJSON)
	if err != nil {
		return usageError(err.Error())
	}

	req := api.RunRequest{
		Catalog:             *catalog,
		Population:          *population,
		WeightLimit:         *weightLimit,
		FitnessLimit:        api.Ptr(*fitnessLimit),
		GenerationLimit:     *generations,
		Seed:                *seed,
		Workers:             *workers,
		Selection:           *selection,
		TournamentSize:      *tournamentSize,
		Mutations:           *mutations,
		MutationProbability: api.Ptr(*mutationProb),
		MetricsOut:          *metricsOut,
	}
	file := *catalogFile
	if *configPath != "" {
		cfg, err := loadRunConfig(*configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := overrideFromFlags(&cfg, setFlags, map[string]any{
			"catalog":         *catalog,
			"catalog-file":    *catalogFile,
			"pop":             *population,
			"weight-limit":    *weightLimit,
			"fitness-limit":   *fitnessLimit,
			"gens":            *generations,
			"seed":            *seed,
			"selection":       *selection,
			"tournament-size": *tournamentSize,
			"mutations":       *mutations,
			"mutation-prob":   *mutationProb,
			"workers":         *workers,
			"metrics-out":     *metricsOut,
		}); err != nil {
			return err
		}
		req = cfg.Request
		file = cfg.CatalogFile
	}
	if file != "" {
		items, err := knapsack.LoadCatalog(file)
		if err != nil {
			return err
		}
		req.Items = items
	}

	client, err := api.New(api.Options{
		StoreKind:  *storeKind,
		DBPath:     *dbPath,
		ExportsDir: exportsDir,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("run completed run_id=%s catalog=%s pop=%d gens=%d seed=%d\n", summary.RunID, summary.Catalog, summary.Population, summary.GenerationLimit, summary.Seed)
	for i, best := range summary.BestByGeneration {
		fmt.Printf("generation=%d best_fitness=%d\n", i, best)
	}
	fmt.Printf("number_of_generations=%d terminated=%t\n", summary.Generation, summary.Terminated)
	fmt.Printf("time=%s\n", summary.Elapsed)
	fmt.Printf("best_fitness=%d\n", summary.BestFitness)
	fmt.Printf("best_solution=%s\n", strings.Join(summary.BestItems, ","))

	if *outDir != "" {
		exported, err := client.Export(ctx, api.ExportRequest{RunID: summary.RunID, OutDir: *outDir})
		if err != nil {
			return err
		}
		fmt.Printf("artifacts_dir=%s\n", exported.Directory)
	}
	if *metricsOut != "" {
		fmt.Printf("metrics=%s\n", *metricsOut)
	}
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: "+strings.Join(storage.StoreKinds(), "|"))
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("runs requires --limit > 0")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	records, err := client.Runs(ctx, api.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}
	stats.RenderRuns(os.Stdout, records, reportOptions(os.Stdout))
	return nil
}

func runShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show the most recent run")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: "+strings.Join(storage.StoreKinds(), "|"))
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" && !*latest {
		return errors.New("show requires --run-id or --latest")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	record, err := client.Show(ctx, api.ShowRequest{RunID: *runID, Latest: *latest})
	if err != nil {
		return err
	}
	stats.RenderRun(os.Stdout, record, reportOptions(os.Stdout))
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "export the most recent run")
	outDir := fs.String("out", exportsDir, "export output directory")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: "+strings.Join(storage.StoreKinds(), "|"))
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" && !*latest {
		return errors.New("export requires --run-id or --latest")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	exported, err := client.Export(ctx, api.ExportRequest{RunID: *runID, Latest: *latest, OutDir: *outDir})
	if err != nil {
		return err
	}
	fmt.Printf("exported run_id=%s dir=%s\n", exported.RunID, exported.Directory)
	return nil
}

func runCatalogs(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("catalogs", flag.ContinueOnError)
	name := fs.String("name", "", "only show this catalog")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := api.New(api.Options{StoreKind: storage.KindMemory})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	catalogs, err := client.Catalogs(ctx)
	if err != nil {
		return err
	}
	opts := reportOptions(os.Stdout)
	shown := 0
	for _, c := range catalogs {
		if *name != "" && c.Name != *name {
			continue
		}
		stats.RenderCatalog(os.Stdout, c.Name, c.Items, opts)
		shown++
	}
	if shown == 0 {
		return fmt.Errorf("%w: %s", knapsack.ErrUnknownCatalog, *name)
	}
	return nil
}

func newClient(storeKind, dbPath string) (*api.Client, error) {
	return api.New(api.Options{
		StoreKind:  storeKind,
		DBPath:     dbPath,
		ExportsDir: exportsDir,
	})
}

func newLogger(w io.Writer, level string, asJSON bool) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// reportOptions enables coloured tables only on a real terminal.
func reportOptions(f *os.File) stats.ReportOptions {
	fd := f.Fd()
	return stats.ReportOptions{Color: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: knapsackctl <run|runs|show|export|catalogs> [flags]", msg)
}
