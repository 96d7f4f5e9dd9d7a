package pipeline

import (
	"sync"

	"github.com/pricofy/corpus-pipeline/internal/corpus"
	"github.com/pricofy/corpus-pipeline/internal/splitter"
	"github.com/pricofy/corpus-pipeline/internal/vocab"
)

// Batch groups parallel source and target sentences for one training
// step. Element i of Source and element i of Target form one pair.
type Batch struct {
	Source []string
	Target []string
}

// EncodedBatch holds a batch encoded to padded id rows. The length slices
// carry each example's unpadded token count, capped at the padded width,
// for downstream loss masking.
type EncodedBatch struct {
	Source        [][]int
	Target        [][]int
	SourceLengths []int
	TargetLengths []int
}

// Dataset is a prepared corpus: the split assignment plus the
// vocabularies built from its training subset.
type Dataset struct {
	cfg    Config
	corpus *corpus.Corpus
	split  *splitter.Splitter
	train  []int
	valid  []int

	// Source and Target map each language side's tokens to ids.
	Source *vocab.Vocabulary
	Target *vocab.Vocabulary
}

// Config returns the configuration the dataset was prepared under.
func (d *Dataset) Config() Config {
	return d.cfg
}

// Len returns the total number of pairs.
func (d *Dataset) Len() int {
	return d.corpus.Len()
}

// TrainSize returns the number of training pairs.
func (d *Dataset) TrainSize() int {
	return len(d.train)
}

// ValidSize returns the number of validation pairs.
func (d *Dataset) ValidSize() int {
	return len(d.valid)
}

// TrainPairs returns the training pairs in corpus order.
func (d *Dataset) TrainPairs() []corpus.Pair {
	return d.pairsAt(d.train)
}

// ValidPairs returns the validation pairs in corpus order.
func (d *Dataset) ValidPairs() []corpus.Pair {
	return d.pairsAt(d.valid)
}

func (d *Dataset) pairsAt(indices []int) []corpus.Pair {
	pairs := make([]corpus.Pair, len(indices))
	for i, idx := range indices {
		pairs[i] = d.corpus.At(idx)
	}
	return pairs
}

// TrainBatches returns one pass over the training subset in a freshly
// shuffled order. Every call reshuffles.
func (d *Dataset) TrainBatches() []Batch {
	return d.batches(d.train)
}

// ValidBatches returns one pass over the validation subset in a freshly
// shuffled order.
func (d *Dataset) ValidBatches() []Batch {
	return d.batches(d.valid)
}

func (d *Dataset) batches(indices []int) []Batch {
	groups := d.split.Batches(indices)
	batches := make([]Batch, len(groups))
	for bi, group := range groups {
		batch := Batch{
			Source: make([]string, len(group)),
			Target: make([]string, len(group)),
		}
		for i, idx := range group {
			pair := d.corpus.At(idx)
			batch.Source[i] = pair.Source
			batch.Target[i] = pair.Target
		}
		batches[bi] = batch
	}
	return batches
}

// EncodeBatch encodes both sides of a batch to padded id rows. A fixed
// SequenceLength pads and truncates every row to that width; otherwise
// each side pads to its longest example within the batch.
func (d *Dataset) EncodeBatch(b Batch) EncodedBatch {
	source, sourceLengths := d.encodeSide(b.Source, d.Source)
	target, targetLengths := d.encodeSide(b.Target, d.Target)
	return EncodedBatch{
		Source:        source,
		Target:        target,
		SourceLengths: sourceLengths,
		TargetLengths: targetLengths,
	}
}

func (d *Dataset) encodeSide(texts []string, v *vocab.Vocabulary) ([][]int, []int) {
	raw := make([][]int, len(texts))
	for i, text := range texts {
		raw[i] = v.Ids(text)
	}

	width := d.cfg.SequenceLength
	if width == 0 {
		for _, ids := range raw {
			if len(ids) > width {
				width = len(ids)
			}
		}
	}

	rows := make([][]int, len(raw))
	lengths := make([]int, len(raw))
	for i, ids := range raw {
		row := make([]int, width)
		// copy reports how many ids fit, which is exactly the capped
		// unpadded length; the zeroed tail is already padding.
		lengths[i] = copy(row, ids)
		rows[i] = row
	}
	return rows, lengths
}

// TrainPass returns one fully encoded epoch over the training subset,
// freshly reshuffled. Batches are encoded concurrently by up to Workers
// goroutines; the returned order matches this pass's batch order, and
// row order within each batch matches the shuffled pair order.
func (d *Dataset) TrainPass() []EncodedBatch {
	return d.encodePass(d.TrainBatches())
}

// ValidPass returns one fully encoded epoch over the validation subset.
func (d *Dataset) ValidPass() []EncodedBatch {
	return d.encodePass(d.ValidBatches())
}

func (d *Dataset) encodePass(batches []Batch) []EncodedBatch {
	encoded := make([]EncodedBatch, len(batches))

	var wg sync.WaitGroup
	sem := make(chan struct{}, d.cfg.Workers)
	for i, b := range batches {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, b Batch) {
			defer wg.Done()
			encoded[i] = d.EncodeBatch(b)
			<-sem
		}(i, b)
	}
	wg.Wait()

	return encoded
}
