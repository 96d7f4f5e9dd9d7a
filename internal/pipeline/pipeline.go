// Package pipeline orchestrates corpus preparation: train/validation
// splitting, vocabulary construction over the training subset, and
// batched encoding to padded integer sequences.
package pipeline

import (
	"github.com/pricofy/corpus-pipeline/internal/corpus"
	"github.com/pricofy/corpus-pipeline/internal/splitter"
	"github.com/pricofy/corpus-pipeline/internal/standardizer"
	"github.com/pricofy/corpus-pipeline/internal/vocab"
)

// Pipeline prepares corpora under one configuration.
type Pipeline struct {
	cfg   Config
	cache *standardizer.Cache
}

// New creates a Pipeline. The configuration is normalized first, so the
// zero Config runs with defaults.
func New(cfg Config) (*Pipeline, error) {
	cfg = cfg.normalized()
	cache, err := standardizer.NewCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, cache: cache}, nil
}

// Config returns the normalized configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Run assigns every pair to the training or validation subset, builds the
// source and target vocabularies from the training subset only, and
// returns the prepared Dataset. Validation text never influences the
// vocabularies.
func (p *Pipeline) Run(c *corpus.Corpus) *Dataset {
	split := splitter.New(splitter.Config{
		TrainFraction: p.cfg.TrainFraction,
		BatchSize:     p.cfg.BatchSize,
		Seed:          p.cfg.Seed,
	})
	train, valid := split.Split(c.Len())

	sourceBuilder := vocab.NewBuilder(p.cfg.VocabSize, p.cache.Standardize)
	targetBuilder := vocab.NewBuilder(p.cfg.VocabSize, p.cache.Standardize)
	for _, i := range train {
		pair := c.At(i)
		sourceBuilder.Add(pair.Source)
		targetBuilder.Add(pair.Target)
	}

	return &Dataset{
		cfg:    p.cfg,
		corpus: c,
		split:  split,
		train:  train,
		valid:  valid,
		Source: sourceBuilder.Build(),
		Target: targetBuilder.Build(),
	}
}
