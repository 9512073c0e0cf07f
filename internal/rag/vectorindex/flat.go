package vectorindex

import (
	"errors"
	"fmt"
	"sort"
)

var ErrEmptyIndex = errors.New("vector index is empty")

// Flat is an exact nearest-neighbour index over squared Euclidean distance.
// Corpus sizes here are single-document passage counts, so brute force beats
// any approximate structure and keeps results reproducible. A Flat is
// immutable once built.
type Flat struct {
	dimension int
	vectors   [][]float32
}

// Build constructs an index over the given vectors in input order, so entry
// i of the index answers for chunk i. All vectors must share one dimension.
func Build(vectors [][]float32) (*Flat, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyIndex
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, errors.New("zero-dimension vector")
	}
	stored := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, index dimension is %d", i, len(v), dim)
		}
		stored[i] = append([]float32(nil), v...)
	}
	return &Flat{dimension: dim, vectors: stored}, nil
}

func (f *Flat) Size() int {
	return len(f.vectors)
}

func (f *Flat) Dimension() int {
	return f.dimension
}

// Vectors returns a copy of the stored vectors, in index order. The copy is
// what the document cache serializes - rebuilding from it reproduces
// identical search results.
func (f *Flat) Vectors() [][]float32 {
	out := make([][]float32, len(f.vectors))
	for i, v := range f.vectors {
		out[i] = append([]float32(nil), v...)
	}
	return out
}

// Search returns the indices and squared L2 distances of the k vectors
// nearest to query, nearest first. k larger than the index size is clamped;
// an empty index or non-positive k is an error.
func (f *Flat) Search(query []float32, k int) ([]int, []float32, error) {
	if len(f.vectors) == 0 {
		return nil, nil, ErrEmptyIndex
	}
	if k <= 0 {
		return nil, nil, fmt.Errorf("invalid k: %d", k)
	}
	if len(query) != f.dimension {
		return nil, nil, fmt.Errorf("query has dimension %d, index dimension is %d", len(query), f.dimension)
	}
	if k > len(f.vectors) {
		k = len(f.vectors)
	}

	type scored struct {
		idx  int
		dist float32
	}
	all := make([]scored, len(f.vectors))
	for i, v := range f.vectors {
		all[i] = scored{idx: i, dist: squaredL2(query, v)}
	}
	// Stable ordering on ties keeps results deterministic across runs.
	sort.SliceStable(all, func(a, b int) bool { return all[a].dist < all[b].dist })

	indices := make([]int, k)
	distances := make([]float32, k)
	for i := 0; i < k; i++ {
		indices[i] = all[i].idx
		distances[i] = all[i].dist
	}
	return indices, distances, nil
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
