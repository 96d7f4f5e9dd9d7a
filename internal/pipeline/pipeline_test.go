package pipeline

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/pricofy/corpus-pipeline/internal/corpus"
	"github.com/pricofy/corpus-pipeline/internal/vocab"
)

func uniformCorpus(n int) *corpus.Corpus {
	pairs := make([]corpus.Pair, n)
	for i := range pairs {
		pairs[i] = corpus.Pair{Source: "la casa es grande", Target: "the house is big"}
	}
	return corpus.New(pairs)
}

func numberedCorpus(n int) *corpus.Corpus {
	pairs := make([]corpus.Pair, n)
	for i := range pairs {
		pairs[i] = corpus.Pair{
			Source: fmt.Sprintf("source %d", i),
			Target: fmt.Sprintf("target %d", i),
		}
	}
	return corpus.New(pairs)
}

func mustPipeline(t *testing.T, cfg Config) *Pipeline {
	t.Helper()
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return p
}

func TestRun_PartitionsCorpus(t *testing.T) {
	p := mustPipeline(t, Config{Seed: 1})
	ds := p.Run(uniformCorpus(200))

	if got := ds.TrainSize() + ds.ValidSize(); got != 200 {
		t.Fatalf("subset sizes sum to %d, want 200", got)
	}
	if ds.TrainSize() < 130 || ds.TrainSize() > 190 {
		t.Errorf("TrainSize() = %d, want roughly 160 of 200", ds.TrainSize())
	}
	if ds.ValidSize() == 0 {
		t.Error("validation subset should not be empty at this corpus size")
	}
}

func TestRun_VocabulariesAreSideSpecific(t *testing.T) {
	p := mustPipeline(t, Config{TrainFraction: 1})
	ds := p.Run(uniformCorpus(10))

	if ds.ValidSize() != 0 {
		t.Fatalf("TrainFraction 1 should leave validation empty, got %d", ds.ValidSize())
	}
	if ds.Source.Lookup("casa") == vocab.UnkID {
		t.Error("source vocabulary should contain source-side tokens")
	}
	if ds.Source.Lookup("house") != vocab.UnkID {
		t.Error("source vocabulary should not contain target-side tokens")
	}
	if ds.Target.Lookup("house") == vocab.UnkID {
		t.Error("target vocabulary should contain target-side tokens")
	}
}

func TestRun_VocabularySize(t *testing.T) {
	p := mustPipeline(t, Config{TrainFraction: 1})
	ds := p.Run(uniformCorpus(10))

	// Four source words plus the start and end markers, plus the two
	// reserved ids.
	if got := ds.Source.Size(); got != 8 {
		t.Errorf("Source.Size() = %d, want 8", got)
	}
}

func TestRun_EmptyCorpus(t *testing.T) {
	p := mustPipeline(t, Config{})
	ds := p.Run(corpus.New(nil))

	if ds.Len() != 0 || ds.TrainSize() != 0 || ds.ValidSize() != 0 {
		t.Errorf("empty corpus produced sizes %d/%d/%d", ds.Len(), ds.TrainSize(), ds.ValidSize())
	}
	if got := ds.Source.Size(); got != 2 {
		t.Errorf("empty corpus vocabulary size = %d, want just the reserved ids", got)
	}
	if batches := ds.TrainBatches(); len(batches) != 0 {
		t.Errorf("empty corpus produced %d batches", len(batches))
	}
}

func TestDataset_BatchSizes(t *testing.T) {
	p := mustPipeline(t, Config{TrainFraction: 1, BatchSize: 64, Seed: 5})
	ds := p.Run(uniformCorpus(130))

	batches := ds.TrainBatches()
	if len(batches) != 3 {
		t.Fatalf("got %d batches, want 3", len(batches))
	}
	for i, want := range []int{64, 64, 2} {
		if len(batches[i].Source) != want || len(batches[i].Target) != want {
			t.Errorf("batch %d sides have %d/%d items, want %d",
				i, len(batches[i].Source), len(batches[i].Target), want)
		}
	}

	if valid := ds.ValidBatches(); len(valid) != 0 {
		t.Errorf("validation subset should be empty, got %d batches", len(valid))
	}
}

func TestDataset_BatchesKeepPairsAligned(t *testing.T) {
	p := mustPipeline(t, Config{TrainFraction: 1, BatchSize: 16, Seed: 2})
	ds := p.Run(numberedCorpus(100))

	for _, batch := range ds.TrainBatches() {
		for i, source := range batch.Source {
			want := strings.Replace(source, "source", "target", 1)
			if batch.Target[i] != want {
				t.Fatalf("row %d pairs %q with %q", i, source, batch.Target[i])
			}
		}
	}
}

func TestDataset_PassesReshuffle(t *testing.T) {
	p := mustPipeline(t, Config{TrainFraction: 1, BatchSize: 16, Seed: 2})
	ds := p.Run(numberedCorpus(130))

	var first, second []string
	for _, b := range ds.TrainBatches() {
		first = append(first, b.Source...)
	}
	for _, b := range ds.TrainBatches() {
		second = append(second, b.Source...)
	}

	if reflect.DeepEqual(first, second) {
		t.Error("consecutive passes should see different orders")
	}
}

func TestDataset_EncodeBatch_DynamicWidth(t *testing.T) {
	p := mustPipeline(t, Config{TrainFraction: 1})
	ds := p.Run(corpus.New([]corpus.Pair{
		{Source: "uno dos tres", Target: "one two three"},
		{Source: "uno", Target: "one"},
	}))

	encoded := ds.EncodeBatch(Batch{
		Source: []string{"uno dos tres", "uno"},
		Target: []string{"one two three", "one"},
	})

	// "[START] uno dos tres [END]" is five tokens, so the batch pads to
	// width five.
	if got := len(encoded.Source[0]); got != 5 {
		t.Fatalf("padded width = %d, want 5", got)
	}
	if got := len(encoded.Source[1]); got != 5 {
		t.Fatalf("short row padded to %d, want 5", got)
	}
	if !reflect.DeepEqual(encoded.SourceLengths, []int{5, 3}) {
		t.Errorf("SourceLengths = %v, want [5 3]", encoded.SourceLengths)
	}

	for i := 3; i < 5; i++ {
		if encoded.Source[1][i] != vocab.PadID {
			t.Errorf("short row position %d = %d, want padding", i, encoded.Source[1][i])
		}
	}
	if encoded.Source[0][0] != ds.Source.Lookup("[START]") {
		t.Errorf("rows should begin with the start marker id")
	}
}

func TestDataset_EncodeBatch_FixedWidth(t *testing.T) {
	p := mustPipeline(t, Config{TrainFraction: 1, SequenceLength: 4})
	ds := p.Run(corpus.New([]corpus.Pair{
		{Source: "uno dos tres", Target: "one two three"},
		{Source: "uno", Target: "one"},
	}))

	encoded := ds.EncodeBatch(Batch{
		Source: []string{"uno dos tres", "uno"},
		Target: []string{"one two three", "one"},
	})

	for i, row := range encoded.Source {
		if len(row) != 4 {
			t.Errorf("row %d width = %d, want 4", i, len(row))
		}
	}
	// The five-token sentence truncates to the fixed width; the
	// three-token sentence keeps its true length.
	if !reflect.DeepEqual(encoded.SourceLengths, []int{4, 3}) {
		t.Errorf("SourceLengths = %v, want [4 3]", encoded.SourceLengths)
	}
	if encoded.Source[1][3] != vocab.PadID {
		t.Errorf("short row should end in padding, got %d", encoded.Source[1][3])
	}
}

func TestDataset_TrainPassKeepsRowsAligned(t *testing.T) {
	words := []string{
		"alfa", "bravo", "charlie", "delta", "echo", "foxtrot", "golf",
		"hotel", "india", "juliett", "kilo", "lima", "mike", "november",
		"oscar", "papa", "quebec", "romeo", "sierra", "tango",
	}
	pairs := make([]corpus.Pair, len(words))
	for i, w := range words {
		pairs[i] = corpus.Pair{Source: w + " uno", Target: w + " one"}
	}

	p := mustPipeline(t, Config{TrainFraction: 1, BatchSize: 8, Workers: 4, Seed: 3})
	ds := p.Run(corpus.New(pairs))

	// Decoding both sides of every encoded row must recover the same
	// distinguishing word, whatever order the workers finished in.
	for bi, batch := range ds.TrainPass() {
		for i := range batch.Source {
			source := strings.Fields(ds.Source.Decode(batch.Source[i]))
			target := strings.Fields(ds.Target.Decode(batch.Target[i]))
			if len(source) < 2 || len(target) < 2 || source[1] != target[1] {
				t.Fatalf("batch %d row %d misaligned: source %v, target %v", bi, i, source, target)
			}
		}
	}
}

func TestDataset_TrainPass(t *testing.T) {
	p := mustPipeline(t, Config{TrainFraction: 1, BatchSize: 64, SequenceLength: 12, Workers: 4, Seed: 7})
	ds := p.Run(uniformCorpus(130))

	pass := ds.TrainPass()
	if len(pass) != 3 {
		t.Fatalf("pass has %d batches, want 3", len(pass))
	}
	for i, want := range []int{64, 64, 2} {
		if len(pass[i].Source) != want {
			t.Errorf("batch %d has %d rows, want %d", i, len(pass[i].Source), want)
		}
		for _, row := range pass[i].Source {
			if len(row) != 12 {
				t.Fatalf("batch %d row width = %d, want 12", i, len(row))
			}
		}
	}
}
