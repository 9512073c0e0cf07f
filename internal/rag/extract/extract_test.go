package extract

import (
	"errors"
	"testing"

	"github.com/banglaqa/GoPDFQA/internal/domain/commonModels"
)

func TestDocTypeOf(t *testing.T) {
	tests := []struct {
		path     string
		expected commonModels.DocType
	}{
		{"scan.pdf", commonModels.PDF},
		{"SCAN.PDF", commonModels.PDF},
		{"notes.txt", commonModels.TEXT},
		{"report.docx", commonModels.TEXT},
		{"old.rtf", commonModels.TEXT},
		{"image.png", commonModels.ERR},
		{"noext", commonModels.ERR},
	}

	for _, tt := range tests {
		if got := docTypeOf(tt.path); got != tt.expected {
			t.Errorf("docTypeOf(%s) = %v; want %v", tt.path, got, tt.expected)
		}
	}
}

func TestParseLanguageList(t *testing.T) {
	out := "List of available languages in \"/usr/share/tessdata/\" (3):\nben\neng\nosd\n"
	langs := parseLanguageList(out)

	if len(langs) != 3 {
		t.Fatalf("Expected 3 languages, got %d: %v", len(langs), langs)
	}
	if langs[0] != "ben" || langs[1] != "eng" {
		t.Errorf("Unexpected language list: %v", langs)
	}
}

func TestResolveLanguage(t *testing.T) {
	tests := []struct {
		name      string
		installed []string
		expected  string
		wantErr   bool
	}{
		{"primary available", []string{"ben", "eng", "osd"}, "ben", false},
		{"fallback only", []string{"eng", "osd"}, "eng", false},
		{"neither installed", []string{"osd"}, "", true},
		{"no packs at all", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang, err := resolveLanguage(tt.installed, "ben", "eng")
			if tt.wantErr {
				var langErr *LanguageDataError
				if !errors.As(err, &langErr) {
					t.Fatalf("Expected LanguageDataError, got %v", err)
				}
				if langErr.Lang != "ben" {
					t.Errorf("Error should name the primary language, got %q", langErr.Lang)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveLanguage failed: %v", err)
			}
			if lang != tt.expected {
				t.Errorf("Got language %q, want %q", lang, tt.expected)
			}
		})
	}
}

func TestClassifyOCRError(t *testing.T) {
	base := errors.New("exit status 1")

	err := classifyOCRError("Error opening data file /usr/share/tessdata/ben.traineddata", "ben", base)
	var langErr *LanguageDataError
	if !errors.As(err, &langErr) {
		t.Fatalf("Missing traineddata should classify as LanguageDataError, got %v", err)
	}
	if langErr.Lang != "ben" {
		t.Errorf("LanguageDataError should carry the language, got %q", langErr.Lang)
	}

	err = classifyOCRError("Image file cannot be read", "ben", base)
	if errors.As(err, &langErr) {
		t.Error("Generic OCR failure must not classify as a language error")
	}
	if err == nil {
		t.Error("Generic OCR failure should still be an error")
	}

	if err := classifyOCRError("", "ben", base); !errors.Is(err, base) {
		t.Errorf("Empty stderr should surface the exec error, got %v", err)
	}
}

func TestSortPageImages(t *testing.T) {
	names := []string{
		"/tmp/x/page-10.png",
		"/tmp/x/page-2.png",
		"/tmp/x/page-1.png",
	}
	sortPageImages(names)

	want := []string{
		"/tmp/x/page-1.png",
		"/tmp/x/page-2.png",
		"/tmp/x/page-10.png",
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Page order wrong at %d: got %v", i, names)
		}
	}
}
