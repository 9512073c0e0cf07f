package extract

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/banglaqa/GoPDFQA/internal/config"
	"github.com/dslipak/pdf"
)

// extractPDF rasterizes every page at a fixed resolution and OCRs each page
// image in order. Any failure aborts the whole document - no partial text
// is ever returned.
func (e *Extractor) extractPDF(ctx context.Context, path string, progress ProgressFunc) (string, error) {
	// Open first so a corrupt file fails before we spawn anything, and so
	// the page count gives progress a total upfront.
	doc, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("unreadable pdf %s: %w", filepath.Base(path), err)
	}
	total := doc.NumPage()
	if total == 0 {
		return "", fmt.Errorf("pdf %s has no pages", filepath.Base(path))
	}

	workDir, err := os.MkdirTemp("", "pdfqa-raster-")
	if err != nil {
		return "", fmt.Errorf("creating raster dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	images, err := rasterize(ctx, path, workDir)
	if err != nil {
		return "", err
	}
	if len(images) != total {
		e.logger.Warn("Rasterizer page count differs from PDF header", "rasterized", len(images), "header", total)
		total = len(images)
	}

	pageTexts := make([]string, 0, total)
	for i, image := range images {
		text, err := e.ocrPage(ctx, image)
		if err != nil {
			return "", fmt.Errorf("ocr failed on page %d of %d: %w", i+1, total, err)
		}
		pageTexts = append(pageTexts, text)
		if progress != nil {
			progress(i+1, total)
		}
	}

	return strings.Join(pageTexts, config.PageSeparator), nil
}

// rasterize shells out to poppler's pdftoppm and returns the produced page
// images in page order.
func rasterize(ctx context.Context, path, workDir string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.RasterTimeout)
	defer cancel()

	prefix := filepath.Join(workDir, "page")
	cmd := exec.CommandContext(ctx, "pdftoppm",
		"-r", strconv.Itoa(config.OCRDPIResolution),
		"-png",
		path, prefix,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %s: %w", strings.TrimSpace(string(out)), err)
	}

	entries, err := os.ReadDir(workDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, filepath.Join(workDir, entry.Name()))
	}
	sortPageImages(names)
	return names, nil
}

// sortPageImages orders pdftoppm output numerically. Output names look like
// page-1.png or page-01.png depending on the document size, so a plain
// lexical sort is not enough.
func sortPageImages(names []string) {
	sort.Slice(names, func(a, b int) bool {
		na, oka := pageNumber(names[a])
		nb, okb := pageNumber(names[b])
		if oka && okb {
			return na < nb
		}
		return names[a] < names[b]
	})
}

func pageNumber(name string) (int, bool) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	dash := strings.LastIndexByte(base, '-')
	if dash < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(base[dash+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}
