package extract

import (
	"fmt"
	"path/filepath"

	"github.com/lu4p/cat"
)

// extractTextFile reads .txt, .docx, .rtf and .odt documents directly.
// These carry their own text layer, so there is nothing to OCR.
func extractTextFile(path string, progress ProgressFunc) (string, error) {
	text, err := cat.File(path)
	if err != nil {
		return "", fmt.Errorf("extracting %s: %w", filepath.Base(path), err)
	}
	if progress != nil {
		progress(1, 1)
	}
	return text, nil
}
