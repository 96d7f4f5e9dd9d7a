package splitter

import (
	"reflect"
	"sort"
	"sync"
	"testing"
)

func sequence(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

func flatten(batches [][]int) []int {
	var out []int
	for _, b := range batches {
		out = append(out, b...)
	}
	return out
}

func TestMask_Proportion(t *testing.T) {
	s := New(Config{TrainFraction: 0.8, Seed: 1})

	mask := s.Mask(10000)
	count := 0
	for _, inTrain := range mask {
		if inTrain {
			count++
		}
	}

	// Binomial mean 8000, sd 40. Anything outside five sigma is a bug,
	// not bad luck.
	if count < 7800 || count > 8200 {
		t.Errorf("mask true-count = %d, want roughly 8000", count)
	}
}

func TestMask_ReproducibleAcrossSeeds(t *testing.T) {
	first := New(Config{TrainFraction: 0.8, Seed: 7}).Mask(1000)
	second := New(Config{TrainFraction: 0.8, Seed: 7}).Mask(1000)
	if !reflect.DeepEqual(first, second) {
		t.Error("same seed should draw the same mask")
	}

	other := New(Config{TrainFraction: 0.8, Seed: 8}).Mask(1000)
	if reflect.DeepEqual(first, other) {
		t.Error("different seeds should draw different masks")
	}
}

func TestSplit_Partition(t *testing.T) {
	const n = 500
	s := New(Config{TrainFraction: 0.8, Seed: 3})

	train, valid := s.Split(n)

	if len(train)+len(valid) != n {
		t.Fatalf("split sizes %d+%d != %d", len(train), len(valid), n)
	}

	seen := make(map[int]bool, n)
	for _, lists := range [][]int{train, valid} {
		for i := 1; i < len(lists); i++ {
			if lists[i] <= lists[i-1] {
				t.Fatal("split subsets must preserve ascending index order")
			}
		}
		for _, idx := range lists {
			if idx < 0 || idx >= n || seen[idx] {
				t.Fatalf("index %d out of range or duplicated", idx)
			}
			seen[idx] = true
		}
	}
}

func TestBatches_Sizes(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		batchSize int
		expected  []int
	}{
		{
			name:      "short final batch",
			n:         130,
			batchSize: 64,
			expected:  []int{64, 64, 2},
		},
		{
			name:      "exact multiple",
			n:         128,
			batchSize: 64,
			expected:  []int{64, 64},
		},
		{
			name:      "single full batch",
			n:         64,
			batchSize: 64,
			expected:  []int{64},
		},
		{
			name:      "smaller than one batch",
			n:         63,
			batchSize: 64,
			expected:  []int{63},
		},
		{
			name:      "empty subset",
			n:         0,
			batchSize: 64,
			expected:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Config{BatchSize: tt.batchSize, Seed: 1})
			batches := s.Batches(sequence(tt.n))

			if len(batches) != len(tt.expected) {
				t.Fatalf("got %d batches, want %d", len(batches), len(tt.expected))
			}
			for i, want := range tt.expected {
				if len(batches[i]) != want {
					t.Errorf("batch %d has %d items, want %d", i, len(batches[i]), want)
				}
			}
		})
	}
}

func TestBatches_IsPermutation(t *testing.T) {
	s := New(Config{BatchSize: 16, Seed: 9})
	indices := sequence(100)

	got := flatten(s.Batches(indices))
	sort.Ints(got)
	if !reflect.DeepEqual(got, indices) {
		t.Error("batches must contain every input index exactly once")
	}
}

func TestBatches_ReshufflesEveryPass(t *testing.T) {
	s := New(Config{BatchSize: 16, Seed: 9})
	indices := sequence(130)

	first := flatten(s.Batches(indices))
	second := flatten(s.Batches(indices))

	if reflect.DeepEqual(first, second) {
		t.Error("consecutive passes should see different shuffle orders")
	}
}

func TestBatches_ReproducibleUnderFixedSeed(t *testing.T) {
	indices := sequence(130)

	first := flatten(New(Config{BatchSize: 16, Seed: 4}).Batches(indices))
	second := flatten(New(Config{BatchSize: 16, Seed: 4}).Batches(indices))

	if !reflect.DeepEqual(first, second) {
		t.Error("same seed should produce the same batch order")
	}
}

func TestBatches_DoesNotMutateInput(t *testing.T) {
	s := New(Config{BatchSize: 8, Seed: 2})
	indices := sequence(50)

	s.Batches(indices)

	if !reflect.DeepEqual(indices, sequence(50)) {
		t.Error("Batches must shuffle a copy, not the caller's slice")
	}
}

func TestBatches_ConcurrentCalls(t *testing.T) {
	s := New(Config{BatchSize: 16, Seed: 5})
	indices := sequence(200)

	var wg sync.WaitGroup
	results := make([][]int, 8)
	for i := range results {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			results[slot] = flatten(s.Batches(indices))
		}(i)
	}
	wg.Wait()

	want := sequence(200)
	for slot, got := range results {
		sorted := append([]int(nil), got...)
		sort.Ints(sorted)
		if !reflect.DeepEqual(sorted, want) {
			t.Errorf("concurrent pass %d lost or duplicated indices", slot)
		}
	}
}

func TestNew_Defaults(t *testing.T) {
	s := New(Config{})
	if s.BatchSize() != DefaultBatchSize {
		t.Errorf("BatchSize() = %d, want %d", s.BatchSize(), DefaultBatchSize)
	}
}
