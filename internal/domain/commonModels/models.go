package commonModels

import "time"

// Document identifies one source file. Key is the file's base name and is
// also the cache key, so two files sharing a name collide (known limitation
// of the filename-keyed cache).
type Document struct {
	Key         string    `json:"document_key"`
	Path        string    `json:"path"`
	ContentType DocType   `json:"content_type"`
	IndexedAt   time.Time `json:"indexed_at"`
}

// Chunk is one retrievable passage. Index is the chunk's position in the
// document and lines up 1:1 with the vector index entry for the chunk.
type Chunk struct {
	Text  string `json:"text"`
	Index int    `json:"index"`
}

type DocType string

var (
	PDF  DocType = "PDF"
	TEXT DocType = "TEXT"
	ERR  DocType = "ERROR"
)
