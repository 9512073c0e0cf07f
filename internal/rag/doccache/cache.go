package doccache

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/banglaqa/GoPDFQA/internal/domain/commonModels"
	"github.com/banglaqa/GoPDFQA/internal/rag/vectorindex"
	"github.com/banglaqa/GoPDFQA/pkg/logger_i"
	"golang.org/x/sync/singleflight"
)

// Entry is one document's processed form: the ordered chunk set and the
// index built over it. Read-shared across requests, never mutated.
type Entry struct {
	Chunks []commonModels.Chunk
	Index  *vectorindex.Flat
}

// artifact is the on-disk shape. The index itself is not serialized - its
// vectors are, and Build over them reproduces identical search results.
type artifact struct {
	Chunks  []commonModels.Chunk
	Vectors [][]float32
}

// Cache persists one artifact per document under dir, keyed by the source
// file's base name. Two different files sharing a base name collide; the
// key is deliberately not a content hash to match the on-disk layout
// (<dir>/<key>.gob) a caller can inspect.
type Cache struct {
	dir    string
	logger *logger_i.Logger

	mu      sync.RWMutex
	entries map[string]*Entry
	group   singleflight.Group
}

func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("creating cache dir %s: %w", dir, err)
	}
	return &Cache{
		dir:     dir,
		logger:  logger_i.NewLogger("DocumentCache"),
		entries: make(map[string]*Entry),
	}, nil
}

// Key derives the cache key for a source file.
func Key(path string) string {
	return filepath.Base(path)
}

// GetOrCompute returns the entry for key, loading it from disk if persisted
// or invoking compute otherwise. Concurrent first requests for the same key
// share a single computation; later callers get the memoized entry.
func (c *Cache) GetOrCompute(ctx context.Context, key string, compute func(ctx context.Context) (*Entry, error)) (*Entry, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return entry, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		entry, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return entry, nil
		}

		path := c.artifactPath(key)
		if _, statErr := os.Stat(path); statErr == nil {
			loaded, loadErr := load(path)
			if loadErr != nil {
				// A corrupt artifact is fatal for the request rather than
				// silently recomputed: recomputing would mask a disk-level
				// problem and burn an OCR+embedding pass every call.
				return nil, loadErr
			}
			c.remember(key, loaded)
			c.logger.Debug("Cache hit", "key", key, "chunks", len(loaded.Chunks))
			return loaded, nil
		}

		c.logger.Info("Cache miss, computing", "key", key)
		computed, computeErr := compute(ctx)
		if computeErr != nil {
			return nil, computeErr
		}
		if persistErr := persist(path, computed); persistErr != nil {
			return nil, persistErr
		}
		c.remember(key, computed)
		return computed, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Entry), nil
}

func (c *Cache) remember(key string, entry *Entry) {
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
}

func (c *Cache) artifactPath(key string) string {
	return filepath.Join(c.dir, key+".gob")
}

func persist(path string, entry *Entry) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".pdfqa-*")
	if err != nil {
		return fmt.Errorf("persisting cache artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	art := artifact{Chunks: entry.Chunks, Vectors: entry.Index.Vectors()}
	if err := gob.NewEncoder(tmp).Encode(&art); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding cache artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	// Rename so readers never observe a half-written artifact.
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("persisting cache artifact: %w", err)
	}
	return nil
}

func load(path string) (*Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening cache artifact %s: %w", path, err)
	}
	defer f.Close()

	var art artifact
	if err := gob.NewDecoder(f).Decode(&art); err != nil {
		return nil, fmt.Errorf("corrupt cache artifact %s: %w", path, err)
	}
	if len(art.Chunks) != len(art.Vectors) {
		return nil, fmt.Errorf("corrupt cache artifact %s: %d chunks but %d vectors", path, len(art.Chunks), len(art.Vectors))
	}

	index, err := vectorindex.Build(art.Vectors)
	if err != nil {
		return nil, fmt.Errorf("corrupt cache artifact %s: %w", path, err)
	}
	return &Entry{Chunks: art.Chunks, Index: index}, nil
}
