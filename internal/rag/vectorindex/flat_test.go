package vectorindex

import (
	"errors"
	"reflect"
	"testing"
)

func TestBuild_Validation(t *testing.T) {
	if _, err := Build(nil); !errors.Is(err, ErrEmptyIndex) {
		t.Errorf("Building from no vectors should report ErrEmptyIndex, got %v", err)
	}

	_, err := Build([][]float32{{1, 0}, {1, 0, 0}})
	if err == nil {
		t.Error("Mixed dimensions should fail Build")
	}
}

func TestSearch_OrderingAndSelfRetrieval(t *testing.T) {
	vectors := [][]float32{
		{0, 0},
		{1, 0},
		{0, 2},
		{3, 3},
	}
	idx, err := Build(vectors)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for i, v := range vectors {
		got, dists, err := idx.Search(v, 1)
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if got[0] != i {
			t.Errorf("Self-retrieval for vector %d returned %d", i, got[0])
		}
		if dists[0] != 0 {
			t.Errorf("Self-distance for vector %d is %f, want 0", i, dists[0])
		}
	}

	indices, dists, err := idx.Search([]float32{0.9, 0.1}, 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(indices) != 3 {
		t.Fatalf("k=3 should return 3 results, got %d", len(indices))
	}
	seen := map[int]bool{}
	for _, i := range indices {
		if seen[i] {
			t.Errorf("Index %d returned twice", i)
		}
		seen[i] = true
	}
	for i := 1; i < len(dists); i++ {
		if dists[i] < dists[i-1] {
			t.Errorf("Distances not in non-decreasing order: %v", dists)
		}
	}
	if indices[0] != 1 {
		t.Errorf("Nearest to (0.9,0.1) should be vector 1, got %d", indices[0])
	}
}

func TestSearch_EdgeCases(t *testing.T) {
	idx, _ := Build([][]float32{{1, 1}, {2, 2}})

	if _, _, err := idx.Search([]float32{0, 0}, 0); err == nil {
		t.Error("k=0 should be an error")
	}
	if _, _, err := idx.Search([]float32{0, 0, 0}, 1); err == nil {
		t.Error("Dimension mismatch should be an error")
	}

	// k beyond the corpus clamps rather than failing.
	indices, _, err := idx.Search([]float32{0, 0}, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(indices) != 2 {
		t.Errorf("Clamped search should return all 2 entries, got %d", len(indices))
	}
}

func TestVectors_RebuildReproducesResults(t *testing.T) {
	vectors := [][]float32{{0.1, 0.9}, {0.8, 0.2}, {0.5, 0.5}}
	original, err := Build(vectors)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	rebuilt, err := Build(original.Vectors())
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	query := []float32{0.6, 0.4}
	gotIdx, gotDist, _ := original.Search(query, 3)
	rebIdx, rebDist, _ := rebuilt.Search(query, 3)

	if !reflect.DeepEqual(gotIdx, rebIdx) || !reflect.DeepEqual(gotDist, rebDist) {
		t.Error("Rebuilt index returns different results than the original")
	}
}
