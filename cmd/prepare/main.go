// Package main implements prepare, the offline corpus preparation tool.
// It loads a tab-separated sentence-pair file, runs the preparation
// pipeline, and exports the dataset directory the trainer consumes.
package main

import (
	"flag"
	"log"

	"github.com/pricofy/corpus-pipeline/internal/corpus"
	"github.com/pricofy/corpus-pipeline/internal/exporter"
	"github.com/pricofy/corpus-pipeline/internal/pipeline"
)

func main() {
	var (
		inPath     = flag.String("in", "", "corpus file with one target<TAB>source pair per line")
		outDir     = flag.String("out", "dataset", "output directory for the exported dataset")
		configPath = flag.String("config", "", "pipeline configuration JSON file")
		sourceLang = flag.String("source-lang", "es", "source language code")
		targetLang = flag.String("target-lang", "en", "target language code")
	)
	flag.Parse()

	if *inPath == "" {
		log.Fatal("missing -in: path to the corpus file")
	}

	cfg := pipeline.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = pipeline.ConfigFromFile(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	c, err := corpus.LoadFile(*inPath)
	if err != nil {
		log.Fatalf("load corpus: %v", err)
	}
	log.Printf("loaded %d pairs from %s", c.Len(), *inPath)

	p, err := pipeline.New(cfg)
	if err != nil {
		log.Fatalf("create pipeline: %v", err)
	}
	ds := p.Run(c)
	log.Printf("split %d train / %d valid", ds.TrainSize(), ds.ValidSize())
	log.Printf("vocabularies: %d source tokens, %d target tokens", ds.Source.Size(), ds.Target.Size())

	// One encoded pass over the training set surfaces the sequence
	// lengths a trainer would see, before anything is written out.
	pass := ds.TrainPass()
	maxSource, maxTarget := 0, 0
	for _, batch := range pass {
		for _, n := range batch.SourceLengths {
			if n > maxSource {
				maxSource = n
			}
		}
		for _, n := range batch.TargetLengths {
			if n > maxTarget {
				maxTarget = n
			}
		}
	}
	log.Printf("training pass: %d batches, longest source %d tokens, longest target %d tokens",
		len(pass), maxSource, maxTarget)

	manifest, err := exporter.Write(*outDir, ds, *sourceLang, *targetLang)
	if err != nil {
		log.Fatalf("export dataset: %v", err)
	}
	log.Printf("wrote dataset %s to %s", manifest.DatasetID, *outDir)
}
