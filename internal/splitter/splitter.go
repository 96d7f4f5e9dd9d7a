// Package splitter partitions a corpus into train and validation subsets
// and groups subsets into shuffled fixed-size batches.
package splitter

import (
	"math/rand"
	"sync"
)

const (
	// DefaultTrainFraction is the probability an example lands in the
	// training subset.
	DefaultTrainFraction = 0.8

	// DefaultBatchSize is the number of examples per batch.
	DefaultBatchSize = 64
)

// Config carries the split parameters. Zero values fall back to the
// package defaults, so the zero Config is usable.
type Config struct {
	// TrainFraction is the independent per-example probability of being
	// assigned to the training subset.
	TrainFraction float64

	// BatchSize is the number of examples grouped per batch.
	BatchSize int

	// Seed initializes the random stream. A fixed seed makes masks and
	// batch orders reproducible across runs.
	Seed int64
}

// Splitter draws split masks and shuffled batch orders from a single
// seeded random stream. Safe for concurrent use: every shuffle runs on a
// child generator derived from the master stream under a lock, so a fixed
// seed stays reproducible even when callers batch concurrently.
type Splitter struct {
	trainFraction float64
	batchSize     int

	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Splitter for cfg.
func New(cfg Config) *Splitter {
	if cfg.TrainFraction <= 0 || cfg.TrainFraction > 1 {
		cfg.TrainFraction = DefaultTrainFraction
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return &Splitter{
		trainFraction: cfg.TrainFraction,
		batchSize:     cfg.BatchSize,
		rng:           rand.New(rand.NewSource(cfg.Seed)),
	}
}

// BatchSize returns the configured batch size after defaulting.
func (s *Splitter) BatchSize() int {
	return s.batchSize
}

// Mask draws a fresh boolean mask of length n where each entry is true
// with the configured train fraction, independently per entry.
func (s *Splitter) Mask(n int) []bool {
	mask := make([]bool, n)
	s.mu.Lock()
	for i := range mask {
		mask[i] = s.rng.Float64() < s.trainFraction
	}
	s.mu.Unlock()
	return mask
}

// Split partitions indices 0..n-1 into train and validation index lists.
// Both lists preserve ascending index order, so parallel corpora stay
// aligned.
func (s *Splitter) Split(n int) (train, valid []int) {
	for i, inTrain := range s.Mask(n) {
		if inTrain {
			train = append(train, i)
		} else {
			valid = append(valid, i)
		}
	}
	return train, valid
}

// Batches shuffles a copy of indices over its full range and slices it
// into consecutive groups of the configured batch size. The final group
// may be shorter. Every call reshuffles, so each pass over an epoch sees
// a fresh order.
func (s *Splitter) Batches(indices []int) [][]int {
	if len(indices) == 0 {
		return nil
	}

	order := make([]int, len(indices))
	copy(order, indices)

	rng := s.child()
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	batches := make([][]int, 0, (len(order)+s.batchSize-1)/s.batchSize)
	for start := 0; start < len(order); start += s.batchSize {
		end := start + s.batchSize
		if end > len(order) {
			end = len(order)
		}
		batches = append(batches, order[start:end])
	}
	return batches
}

// child derives an independently seeded generator from the master stream.
func (s *Splitter) child() *rand.Rand {
	s.mu.Lock()
	seed := s.rng.Int63()
	s.mu.Unlock()
	return rand.New(rand.NewSource(seed))
}
