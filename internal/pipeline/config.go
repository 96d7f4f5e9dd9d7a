package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pricofy/corpus-pipeline/internal/splitter"
	"github.com/pricofy/corpus-pipeline/internal/standardizer"
)

const (
	// DefaultVocabSize caps each vocabulary at the 5000 most frequent
	// corpus tokens before the reserved ids.
	DefaultVocabSize = 5000

	// DefaultWorkers bounds batch-encoding parallelism.
	DefaultWorkers = 4

	// DefaultSeed makes preparation runs reproducible unless a caller
	// asks for a different stream.
	DefaultSeed = 42
)

// Config collects the parameters of a preparation run. Zero values fall
// back to the defaults, so the zero Config and partial JSON documents are
// both usable.
type Config struct {
	// TrainFraction is the independent per-example probability of
	// landing in the training subset.
	TrainFraction float64 `json:"trainFraction"`

	// BatchSize is the number of examples grouped per batch.
	BatchSize int `json:"batchSize"`

	// VocabSize caps each side's vocabulary at the VocabSize most
	// frequent tokens, on top of the reserved padding and unknown ids.
	VocabSize int `json:"vocabSize"`

	// SequenceLength fixes the padded width of encoded examples. Zero
	// pads each batch to its own longest example instead.
	SequenceLength int `json:"sequenceLength"`

	// Workers bounds how many batches are encoded concurrently.
	Workers int `json:"workers"`

	// CacheSize bounds the standardization cache.
	CacheSize int `json:"cacheSize"`

	// Seed drives the split mask and every batch shuffle.
	Seed int64 `json:"seed"`
}

// DefaultConfig returns the standard preparation parameters.
func DefaultConfig() Config {
	return Config{
		TrainFraction: splitter.DefaultTrainFraction,
		BatchSize:     splitter.DefaultBatchSize,
		VocabSize:     DefaultVocabSize,
		Workers:       DefaultWorkers,
		CacheSize:     standardizer.DefaultCacheSize,
		Seed:          DefaultSeed,
	}
}

// ConfigFromJSON parses a JSON document over the defaults, so absent
// fields keep their default values.
func ConfigFromJSON(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg.normalized(), nil
}

// ConfigFromFile reads a JSON config document from disk.
func ConfigFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ConfigFromJSON(data)
}

// normalized replaces out-of-range values with defaults.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.TrainFraction <= 0 || c.TrainFraction > 1 {
		c.TrainFraction = def.TrainFraction
	}
	if c.BatchSize <= 0 {
		c.BatchSize = def.BatchSize
	}
	if c.VocabSize <= 0 {
		c.VocabSize = def.VocabSize
	}
	if c.SequenceLength < 0 {
		c.SequenceLength = 0
	}
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	if c.CacheSize <= 0 {
		c.CacheSize = def.CacheSize
	}
	if c.Seed == 0 {
		c.Seed = def.Seed
	}
	return c
}
