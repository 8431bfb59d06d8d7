package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Genome is a binary selection vector; index i selects catalog item i.
type Genome []int

// Population is an ordered set of genomes evolved together.
type Population []Genome

// Item is one knapsack catalog entry.
type Item struct {
	Name   string `json:"name" toml:"name"`
	Value  int    `json:"value" toml:"value"`
	Weight int    `json:"weight" toml:"weight"`
}

type GenerationDiagnostics struct {
	Generation     int     `json:"generation"`
	PopulationSize int     `json:"population_size"`
	BestFitness    int     `json:"best_fitness"`
	WorstFitness   int     `json:"worst_fitness"`
	MeanFitness    float64 `json:"mean_fitness"`
	StdDevFitness  float64 `json:"stddev_fitness"`
	ZeroFitness    int     `json:"zero_fitness"`
	Distinct       int     `json:"distinct_genomes"`
}

// RunRecord is the stored outcome of one completed evolution run. It is a
// report, not a checkpoint: nothing can resume from it.
type RunRecord struct {
	VersionedRecord
	RunID               string                  `json:"run_id"`
	CreatedAtUTC        string                  `json:"created_at_utc"`
	Catalog             string                  `json:"catalog"`
	Items               []Item                  `json:"items"`
	WeightLimit         int                     `json:"weight_limit"`
	FitnessLimit        int                     `json:"fitness_limit"`
	PopulationSize      int                     `json:"population_size"`
	GenerationLimit     int                     `json:"generation_limit"`
	Selection           string                  `json:"selection"`
	Mutations           int                     `json:"mutations"`
	MutationProbability float64                 `json:"mutation_probability"`
	Seed                int64                   `json:"seed"`
	Generation          int                     `json:"generation"`
	Terminated          bool                    `json:"terminated"`
	Evaluations         int                     `json:"evaluations"`
	ElapsedMS           int64                   `json:"elapsed_ms"`
	BestGenome          Genome                  `json:"best_genome"`
	BestFitness         int                     `json:"best_fitness"`
	BestItems           []string                `json:"best_items"`
	BestByGeneration    []int                   `json:"best_by_generation"`
	Diagnostics         []GenerationDiagnostics `json:"diagnostics,omitempty"`
}
