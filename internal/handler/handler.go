// Package handler provides the Lambda handler for the corpus pipeline.
package handler

import (
	"context"
	"fmt"

	"github.com/pricofy/corpus-pipeline/internal/augment"
	"github.com/pricofy/corpus-pipeline/internal/corpus"
	"github.com/pricofy/corpus-pipeline/internal/pipeline"
)

// Request is the input to the corpus pipeline.
type Request struct {
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`

	// Sources and Targets are parallel sentence lists; element i of each
	// forms one pair.
	Sources []string `json:"sources"`
	Targets []string `json:"targets"`

	// Monolingual optionally carries target-language sentences to
	// backtranslate into synthetic pairs before preparation.
	Monolingual []string `json:"monolingual,omitempty"`

	// Config optionally overrides the preparation defaults.
	Config *pipeline.Config `json:"config,omitempty"`
}

// Response is the output from the corpus pipeline. The vocabularies ride
// along in id order so the trainer can size its embeddings and reload the
// exact token tables this preparation produced.
type Response struct {
	PairCount        int      `json:"pairCount,omitempty"`
	SynthesizedCount int      `json:"synthesizedCount,omitempty"`
	TrainCount       int      `json:"trainCount,omitempty"`
	ValidCount       int      `json:"validCount,omitempty"`
	SourceVocabSize  int      `json:"sourceVocabSize,omitempty"`
	TargetVocabSize  int      `json:"targetVocabSize,omitempty"`
	SourceVocab      []string `json:"sourceVocab,omitempty"`
	TargetVocab      []string `json:"targetVocab,omitempty"`
	Error            string   `json:"error,omitempty"`
}

// Handle processes a corpus preparation request.
// Monolingual sentences, if present, are backtranslated into synthetic
// pairs first; the merged corpus is then split and its vocabularies are
// built from the training subset.
func Handle(ctx context.Context, req Request) (*Response, error) {
	// Validate request
	if err := validateRequest(req); err != nil {
		return &Response{Error: err.Error()}, nil
	}

	// Empty input - return immediately
	if len(req.Sources) == 0 && len(req.Monolingual) == 0 {
		return &Response{}, nil
	}

	pairs := make([]corpus.Pair, len(req.Sources))
	for i, source := range req.Sources {
		pairs[i] = corpus.Pair{Source: source, Target: req.Targets[i]}
	}

	// Extend the corpus with backtranslated pairs
	synthesized := 0
	if len(req.Monolingual) > 0 {
		bt, err := augment.New(ctx)
		if err != nil {
			return &Response{Error: fmt.Sprintf("failed to create backtranslator: %v", err)}, nil
		}
		synthetic, err := bt.Synthesize(ctx, req.Monolingual, req.SourceLang, req.TargetLang)
		if err != nil {
			return &Response{Error: fmt.Sprintf("backtranslation failed: %v", err)}, nil
		}
		pairs = append(pairs, synthetic...)
		synthesized = len(synthetic)
	}

	cfg := pipeline.DefaultConfig()
	if req.Config != nil {
		cfg = *req.Config
	}
	p, err := pipeline.New(cfg)
	if err != nil {
		return &Response{Error: fmt.Sprintf("failed to create pipeline: %v", err)}, nil
	}

	ds := p.Run(corpus.New(pairs))

	return &Response{
		PairCount:        ds.Len(),
		SynthesizedCount: synthesized,
		TrainCount:       ds.TrainSize(),
		ValidCount:       ds.ValidSize(),
		SourceVocabSize:  ds.Source.Size(),
		TargetVocabSize:  ds.Target.Size(),
		SourceVocab:      ds.Source.Tokens(),
		TargetVocab:      ds.Target.Tokens(),
	}, nil
}

// validateRequest checks the request is valid.
func validateRequest(req Request) error {
	if req.SourceLang == "" {
		return fmt.Errorf("sourceLang is required")
	}
	if req.TargetLang == "" {
		return fmt.Errorf("targetLang is required")
	}
	if req.SourceLang == req.TargetLang {
		return fmt.Errorf("sourceLang and targetLang must be different")
	}
	if !augment.SupportedPair(req.SourceLang, req.TargetLang) {
		return fmt.Errorf("unsupported language pair: %s-%s", req.SourceLang, req.TargetLang)
	}
	if req.Sources == nil && req.Monolingual == nil {
		return fmt.Errorf("sources is required")
	}
	if len(req.Sources) != len(req.Targets) {
		return fmt.Errorf("sources and targets must have equal length")
	}
	return nil
}
