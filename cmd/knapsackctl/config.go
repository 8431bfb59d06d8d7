package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"knapsackga/internal/model"
	api "knapsackga/pkg/knapsackga"
)

// runConfig is a run request read from a config file. CatalogFile is kept
// apart because it is resolved by the CLI, not the client.
type runConfig struct {
	Request     api.RunRequest
	CatalogFile string
}

// loadRunConfig reads a .json or .toml file into a raw map and picks known
// keys. Missing keys stay unset and fall back to client defaults; a present
// numeric key of the wrong shape is an error.
func loadRunConfig(path string) (runConfig, error) {
	raw, err := readRawConfig(path)
	if err != nil {
		return runConfig{}, err
	}

	var cfg runConfig
	req := &cfg.Request
	if v, ok := asString(raw["catalog"]); ok {
		req.Catalog = v
	}
	if v, ok := asString(raw["catalog_file"]); ok {
		cfg.CatalogFile = resolveRelative(path, v)
	}
	for key, dst := range map[string]*int{
		"population":       &req.Population,
		"weight_limit":     &req.WeightLimit,
		"generation_limit": &req.GenerationLimit,
		"workers":          &req.Workers,
		"tournament_size":  &req.TournamentSize,
		"mutations":        &req.Mutations,
	} {
		v, ok, err := intKey(raw, key)
		if err != nil {
			return runConfig{}, err
		}
		if ok {
			*dst = v
		}
	}
	if v, ok, err := intKey(raw, "fitness_limit"); err != nil {
		return runConfig{}, err
	} else if ok {
		req.FitnessLimit = &v
	}
	if v, present := raw["seed"]; present {
		seed, ok := asInt64(v)
		if !ok {
			return runConfig{}, fmt.Errorf("seed: expected integer, got %v", v)
		}
		req.Seed = seed
	}
	if v, present := raw["mutation_probability"]; present {
		p, ok := asFloat64(v)
		if !ok {
			return runConfig{}, fmt.Errorf("mutation_probability: expected number, got %v", v)
		}
		req.MutationProbability = &p
	}
	if v, ok := asString(raw["metrics_out"]); ok {
		req.MetricsOut = v
	}
	if rawItems, ok := raw["items"]; ok {
		items, err := asItems(rawItems)
		if err != nil {
			return runConfig{}, err
		}
		req.Items = items
	}
	return cfg, nil
}

func readRawConfig(path string) (map[string]any, error) {
	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &raw); err != nil {
			return nil, err
		}
	case ".json", "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
	return raw, nil
}

// resolveRelative anchors a relative path at the config file's directory.
func resolveRelative(configPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}

// intKey reads an optional integer key. ok is false when the key is absent.
func intKey(raw map[string]any, key string) (int, bool, error) {
	v, present := raw[key]
	if !present {
		return 0, false, nil
	}
	n, ok := asInt(v)
	if !ok {
		return 0, false, fmt.Errorf("%s: expected integer, got %v", key, v)
	}
	return n, true, nil
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return int(x), true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return int64(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

// asItems accepts the decoded form of [{name, value, weight}, ...] from
// either JSON ([]any) or TOML ([]map[string]any).
func asItems(v any) ([]model.Item, error) {
	var entries []map[string]any
	switch x := v.(type) {
	case []map[string]any:
		entries = x
	case []any:
		for i, e := range x {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("items[%d]: expected object", i)
			}
			entries = append(entries, m)
		}
	default:
		return nil, fmt.Errorf("items: expected list")
	}

	items := make([]model.Item, 0, len(entries))
	for i, m := range entries {
		name, ok := asString(m["name"])
		if !ok {
			return nil, fmt.Errorf("items[%d]: name is required", i)
		}
		value, ok := asInt(m["value"])
		if !ok {
			return nil, fmt.Errorf("items[%d]: value is required and must be an integer", i)
		}
		weight, ok := asInt(m["weight"])
		if !ok {
			return nil, fmt.Errorf("items[%d]: weight is required and must be an integer", i)
		}
		items = append(items, model.Item{Name: name, Value: value, Weight: weight})
	}
	return items, nil
}

// overrideFromFlags applies only flags that were set on the command line.
func overrideFromFlags(cfg *runConfig, set map[string]bool, flagValue map[string]any) error {
	req := &cfg.Request
	for name := range set {
		v, ok := flagValue[name]
		if !ok {
			continue
		}
		switch name {
		case "catalog":
			req.Catalog = v.(string)
			// An explicit built-in catalog wins over config-supplied items.
			if !set["catalog-file"] {
				req.Items = nil
				cfg.CatalogFile = ""
			}
		case "catalog-file":
			cfg.CatalogFile = v.(string)
		case "pop":
			req.Population = v.(int)
		case "weight-limit":
			req.WeightLimit = v.(int)
		case "fitness-limit":
			req.FitnessLimit = api.Ptr(v.(int))
		case "gens":
			req.GenerationLimit = v.(int)
		case "seed":
			req.Seed = v.(int64)
		case "selection":
			req.Selection = v.(string)
		case "tournament-size":
			req.TournamentSize = v.(int)
		case "mutations":
			req.Mutations = v.(int)
		case "mutation-prob":
			req.MutationProbability = api.Ptr(v.(float64))
		case "workers":
			req.Workers = v.(int)
		case "metrics-out":
			req.MetricsOut = v.(string)
		default:
			return fmt.Errorf("unsupported override flag: %s", name)
		}
	}
	return nil
}
