// Package exporter writes prepared datasets to disk for the training
// framework: vocabulary tables, encoded example files, and a manifest.
package exporter

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pricofy/corpus-pipeline/internal/corpus"
	"github.com/pricofy/corpus-pipeline/internal/pipeline"
)

// File names within a dataset directory.
const (
	ManifestFile    = "manifest.json"
	SourceVocabFile = "source_vocab.txt"
	TargetVocabFile = "target_vocab.txt"
	TrainFile       = "train.jsonl"
	ValidFile       = "valid.jsonl"
)

// Manifest describes an exported dataset.
type Manifest struct {
	DatasetID       string          `json:"datasetId"`
	CreatedAt       string          `json:"createdAt"`
	SourceLang      string          `json:"sourceLang"`
	TargetLang      string          `json:"targetLang"`
	PairCount       int             `json:"pairCount"`
	TrainCount      int             `json:"trainCount"`
	ValidCount      int             `json:"validCount"`
	SourceVocabSize int             `json:"sourceVocabSize"`
	TargetVocabSize int             `json:"targetVocabSize"`
	Config          pipeline.Config `json:"config"`
}

// example is one line of a jsonl example file. Ids are unpadded; the
// trainer pads per batch at load time.
type example struct {
	Source []int `json:"source"`
	Target []int `json:"target"`
}

// Write exports ds into dir, creating the directory if needed, and
// returns the manifest it wrote. Examples land in train.jsonl and
// valid.jsonl in corpus order, one encoded pair per line.
func Write(dir string, ds *pipeline.Dataset, sourceLang, targetLang string) (*Manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create dataset directory: %w", err)
	}

	if err := ds.Source.Save(filepath.Join(dir, SourceVocabFile)); err != nil {
		return nil, err
	}
	if err := ds.Target.Save(filepath.Join(dir, TargetVocabFile)); err != nil {
		return nil, err
	}

	if err := writeExamples(filepath.Join(dir, TrainFile), ds, ds.TrainPairs()); err != nil {
		return nil, err
	}
	if err := writeExamples(filepath.Join(dir, ValidFile), ds, ds.ValidPairs()); err != nil {
		return nil, err
	}

	manifest := &Manifest{
		DatasetID:       uuid.New().String(),
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		SourceLang:      sourceLang,
		TargetLang:      targetLang,
		PairCount:       ds.Len(),
		TrainCount:      ds.TrainSize(),
		ValidCount:      ds.ValidSize(),
		SourceVocabSize: ds.Source.Size(),
		TargetVocabSize: ds.Target.Size(),
		Config:          ds.Config(),
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), append(data, '\n'), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}

	return manifest, nil
}

// writeExamples encodes one pair per line into a jsonl file.
func writeExamples(path string, ds *pipeline.Dataset, pairs []corpus.Pair) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, pair := range pairs {
		line := example{
			Source: ds.Source.Ids(pair.Source),
			Target: ds.Target.Ids(pair.Target),
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to encode example: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
