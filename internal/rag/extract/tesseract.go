package extract

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/banglaqa/GoPDFQA/internal/config"
)

// listLanguages asks the engine which traineddata packs are installed.
func listLanguages(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.OCRPageTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "tesseract", "--list-langs").CombinedOutput()
	if err != nil {
		return nil, err
	}
	return parseLanguageList(string(out)), nil
}

// parseLanguageList extracts pack names from `tesseract --list-langs`
// output, which prints a header line before one language per line.
func parseLanguageList(out string) []string {
	var langs []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, ":") {
			continue
		}
		langs = append(langs, line)
	}
	return langs
}

// ocrPage runs one page image through tesseract with the LSTM engine and
// the uniform-block page segmentation mode.
func (e *Extractor) ocrPage(ctx context.Context, imagePath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.OCRPageTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "tesseract", imagePath, "stdout",
		"--oem", config.OCREngineMode,
		"--psm", config.OCRPageSegmentation,
		"-l", e.lang,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", classifyOCRError(stderr.String(), e.lang, err)
	}
	return stdout.String(), nil
}

// classifyOCRError separates the actionable missing-language-pack case from
// everything else.
func classifyOCRError(stderr, lang string, err error) error {
	if strings.Contains(stderr, "traineddata") || strings.Contains(stderr, "Failed loading language") {
		return &LanguageDataError{Lang: lang}
	}
	msg := strings.TrimSpace(stderr)
	if msg == "" {
		return err
	}
	return &ocrError{msg: msg, cause: err}
}

type ocrError struct {
	msg   string
	cause error
}

func (e *ocrError) Error() string {
	return "tesseract: " + e.msg
}

func (e *ocrError) Unwrap() error {
	return e.cause
}
