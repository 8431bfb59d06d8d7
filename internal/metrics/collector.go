package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"knapsackga/internal/model"
)

const namespace = "knapsackga"

// Collector turns generation diagnostics into prometheus series on its own
// registry, so several runs in one process never collide.
type Collector struct {
	registry *prometheus.Registry

	generations    prometheus.Counter
	bestFitness    prometheus.Gauge
	meanFitness    prometheus.Gauge
	stddevFitness  prometheus.Gauge
	populationSize prometheus.Gauge
	zeroFitness    prometheus.Gauge
	distinct       prometheus.Gauge
	bestHistogram  prometheus.Histogram
}

func NewCollector(runID string) *Collector {
	labels := prometheus.Labels{"run_id": runID}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "generations_evaluated_total",
			Help:        "Generations ranked by the driver.",
			ConstLabels: labels,
		}),
		bestFitness:    gauge("best_fitness", "Best fitness in the latest generation."),
		meanFitness:    gauge("mean_fitness", "Mean fitness in the latest generation."),
		stddevFitness:  gauge("stddev_fitness", "Fitness standard deviation in the latest generation."),
		populationSize: gauge("population_size", "Genomes in the latest generation."),
		zeroFitness:    gauge("zero_fitness_genomes", "Overweight or empty genomes in the latest generation."),
		distinct:       gauge("distinct_genomes", "Distinct genomes in the latest generation."),
		bestHistogram: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "generation_best_fitness",
			Help:        "Distribution of per-generation best fitness.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(1, 2, 16),
		}),
	}
	c.registry.MustRegister(
		c.generations,
		c.bestFitness,
		c.meanFitness,
		c.stddevFitness,
		c.populationSize,
		c.zeroFitness,
		c.distinct,
		c.bestHistogram,
	)
	return c
}

func (c *Collector) ObserveGeneration(diag model.GenerationDiagnostics) {
	c.generations.Inc()
	c.bestFitness.Set(float64(diag.BestFitness))
	c.meanFitness.Set(diag.MeanFitness)
	c.stddevFitness.Set(diag.StdDevFitness)
	c.populationSize.Set(float64(diag.PopulationSize))
	c.zeroFitness.Set(float64(diag.ZeroFitness))
	c.distinct.Set(float64(diag.Distinct))
	c.bestHistogram.Observe(float64(diag.BestFitness))
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile dumps the current series in the text exposition format, as
// consumed by the node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
