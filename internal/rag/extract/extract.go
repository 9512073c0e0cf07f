package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/banglaqa/GoPDFQA/internal/domain/commonModels"
	"github.com/banglaqa/GoPDFQA/pkg/logger_i"
)

// ProgressFunc receives per-page OCR progress. Observational only: the
// extraction result does not depend on it.
type ProgressFunc func(page, total int)

// ErrEngineMissing means the tesseract binary could not be run at all.
var ErrEngineMissing = errors.New("tesseract OCR engine not installed or not in PATH")

// LanguageDataError reports a missing traineddata pack. Kept distinct from
// generic OCR failure so callers can tell the user which pack to install.
type LanguageDataError struct {
	Lang string
}

func (e *LanguageDataError) Error() string {
	return fmt.Sprintf("tesseract language data for %q not installed (download %s.traineddata into the tessdata directory)", e.Lang, e.Lang)
}

// Extractor turns a source document into one text blob. PDFs are rasterized
// page by page and OCRed; plain text formats skip OCR entirely. Extraction
// is all-or-nothing: a failed page aborts the whole document.
type Extractor struct {
	lang   string
	logger *logger_i.Logger
}

// New probes the OCR engine and resolves the language profile: primary if
// its pack is installed, otherwise fallback. Neither installed is an error.
func New(ctx context.Context, primary, fallback string) (*Extractor, error) {
	logger := logger_i.NewLogger("Extractor")

	installed, err := listLanguages(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineMissing, err)
	}

	lang, err := resolveLanguage(installed, primary, fallback)
	if err != nil {
		return nil, err
	}
	if lang != primary {
		logger.Warn("Primary OCR language pack missing, using fallback", "primary", primary, "fallback", fallback)
	}
	logger.Info("OCR engine ready", "language", lang)

	return &Extractor{lang: lang, logger: logger}, nil
}

func (e *Extractor) Language() string {
	return e.lang
}

// ExtractText produces the raw text for one document. Page order is
// preserved and pages are joined with a blank line.
func (e *Extractor) ExtractText(ctx context.Context, path string, progress ProgressFunc) (string, error) {
	switch docTypeOf(path) {
	case commonModels.PDF:
		return e.extractPDF(ctx, path, progress)
	case commonModels.TEXT:
		return extractTextFile(path, progress)
	default:
		return "", fmt.Errorf("unsupported document type: %s", filepath.Ext(path))
	}
}

func docTypeOf(path string) commonModels.DocType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return commonModels.PDF
	case ".txt", ".docx", ".rtf", ".odt":
		return commonModels.TEXT
	default:
		return commonModels.ERR
	}
}

// resolveLanguage picks the OCR profile from the installed pack list.
func resolveLanguage(installed []string, primary, fallback string) (string, error) {
	has := func(lang string) bool {
		for _, l := range installed {
			if l == lang {
				return true
			}
		}
		return false
	}
	if has(primary) {
		return primary, nil
	}
	if has(fallback) {
		return fallback, nil
	}
	return "", &LanguageDataError{Lang: primary}
}
