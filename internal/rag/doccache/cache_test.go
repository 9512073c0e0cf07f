package doccache

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/banglaqa/GoPDFQA/internal/domain/commonModels"
	"github.com/banglaqa/GoPDFQA/internal/rag/vectorindex"
)

func testEntry(t *testing.T) *Entry {
	t.Helper()
	index, err := vectorindex.Build([][]float32{{1, 0}, {0, 1}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return &Entry{
		Chunks: []commonModels.Chunk{
			{Text: "প্রথম অংশ", Index: 0},
			{Text: "দ্বিতীয় অংশ", Index: 1},
		},
		Index: index,
	}
}

func TestKey(t *testing.T) {
	if got := Key("/some/dir/bangla_document.pdf"); got != "bangla_document.pdf" {
		t.Errorf("Key should be the base name, got %q", got)
	}
}

func TestGetOrCompute_Idempotent(t *testing.T) {
	dir := t.TempDir()
	cache, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var calls int32
	compute := func(ctx context.Context) (*Entry, error) {
		atomic.AddInt32(&calls, 1)
		return testEntry(t), nil
	}

	first, err := cache.GetOrCompute(context.Background(), "doc.pdf", compute)
	if err != nil {
		t.Fatalf("First GetOrCompute failed: %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("Expected 1 compute call, got %d", calls)
	}

	// A fresh cache over the same dir simulates a process restart: the
	// entry must come back from disk without recomputing.
	restarted, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	second, err := restarted.GetOrCompute(context.Background(), "doc.pdf", compute)
	if err != nil {
		t.Fatalf("Second GetOrCompute failed: %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("Restart should not recompute, compute ran %d times", calls)
	}

	if !reflect.DeepEqual(first.Chunks, second.Chunks) {
		t.Error("Chunks differ after reload")
	}
	query := []float32{0.9, 0.1}
	i1, d1, _ := first.Index.Search(query, 2)
	i2, d2, _ := second.Index.Search(query, 2)
	if !reflect.DeepEqual(i1, i2) || !reflect.DeepEqual(d1, d2) {
		t.Error("Reloaded index returns different search results")
	}
}

func TestGetOrCompute_SingleFlight(t *testing.T) {
	cache, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var calls int32
	release := make(chan struct{})
	compute := func(ctx context.Context) (*Entry, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return testEntry(t), nil
	}

	const racers = 8
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.GetOrCompute(context.Background(), "same.pdf", compute); err != nil {
				t.Errorf("GetOrCompute failed: %v", err)
			}
		}()
	}
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Concurrent first requests should share one computation, compute ran %d times", got)
	}
}

func TestGetOrCompute_CorruptArtifact(t *testing.T) {
	dir := t.TempDir()
	cache, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "bad.pdf.gob"), []byte("not a gob stream"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	var calls int32
	_, err = cache.GetOrCompute(context.Background(), "bad.pdf", func(ctx context.Context) (*Entry, error) {
		atomic.AddInt32(&calls, 1)
		return testEntry(t), nil
	})
	if err == nil {
		t.Fatal("Corrupt artifact should be an error")
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("Corrupt artifact must not fall back to recompute")
	}
}

func TestGetOrCompute_FailedComputeLeavesNoArtifact(t *testing.T) {
	dir := t.TempDir()
	cache, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	wantErr := os.ErrNotExist
	_, err = cache.GetOrCompute(context.Background(), "missing.pdf", func(ctx context.Context) (*Entry, error) {
		return nil, wantErr
	})
	if err == nil {
		t.Fatal("Expected compute error to propagate")
	}

	if _, statErr := os.Stat(filepath.Join(dir, "missing.pdf.gob")); statErr == nil {
		t.Error("Failed computation must not persist a cache artifact")
	}

	// The key is retryable after a failure.
	entry, err := cache.GetOrCompute(context.Background(), "missing.pdf", func(ctx context.Context) (*Entry, error) {
		return testEntry(t), nil
	})
	if err != nil || entry == nil {
		t.Errorf("Retry after failed compute should succeed, got %v", err)
	}
}
