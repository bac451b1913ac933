package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage backend names accepted in StorageBackend.
const (
	BackendSQLite = "sqlite"
	BackendCSV    = "csv"
)

// Config holds application configuration.
type Config struct {
	// StorageBackend selects the vocabulary store implementation: sqlite or csv.
	StorageBackend string `json:"storage_backend,omitempty" env:"RUVOC_STORAGE_BACKEND"`

	// StoragePath is the vocabulary store file. Defaults to vocab.db (sqlite)
	// or vocab.csv (csv) under the base directory.
	StoragePath string `json:"storage_path,omitempty" env:"RUVOC_STORAGE_PATH"`

	// MinWordLen and MaxWordLen bound accepted word length in runes.
	MinWordLen int `json:"min_word_len,omitempty"`
	MaxWordLen int `json:"max_word_len,omitempty"`

	// Stoplist contains function words dropped during normalization.
	Stoplist []string `json:"stoplist,omitempty"`

	// ContrastFactor and SharpnessFactor are applied to images before OCR.
	// 1.0 means no change. OCR accuracy on poor scans is sensitive to these.
	ContrastFactor  float64 `json:"contrast_factor,omitempty"`
	SharpnessFactor float64 `json:"sharpness_factor,omitempty"`

	// Grayscale converts images to grayscale before OCR. A pointer so a
	// config file can turn it off: nil means "not set", distinct from false.
	Grayscale *bool `json:"grayscale,omitempty"`

	// OCRLanguages are passed to the OCR engine, e.g. ["rus"] or ["rus","eng"].
	OCRLanguages []string `json:"ocr_languages,omitempty"`

	// FileTimeoutSecs bounds processing of a single input file. A file that
	// exceeds it is recorded as a TIMEOUT failure and the batch continues.
	FileTimeoutSecs int `json:"file_timeout_secs,omitempty"`

	// PDFMinTextDensity is the minimum number of alphabetic runes per page a
	// PDF text layer must yield before the extractor falls back to OCR.
	PDFMinTextDensity int `json:"pdf_min_text_density,omitempty"`

	// RenderDPI is the resolution used when rasterizing PDF pages for OCR.
	RenderDPI float64 `json:"render_dpi,omitempty"`

	// TranslateModel is the OpenRouter model used for translations.
	TranslateModel string `json:"translate_model,omitempty"`

	// TranslateWorkers bounds parallel translation requests.
	TranslateWorkers int `json:"translate_workers,omitempty"`

	// OpenRouterAPIKey comes from the environment only, never the config file.
	OpenRouterAPIKey string `json:"-" env:"OPENROUTER_API_KEY"`

	// DeckPath is the default output path for the flashcard deck file.
	DeckPath string `json:"deck_path,omitempty"`

	// LogLevel is a zerolog level name: debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty" env:"RUVOC_LOG_LEVEL"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		StorageBackend:    BackendSQLite,
		MinWordLen:        2,
		MaxWordLen:        30,
		ContrastFactor:    1.5,
		SharpnessFactor:   1.5,
		Grayscale:         boolPtr(true),
		OCRLanguages:      []string{"rus"},
		FileTimeoutSecs:   120,
		PDFMinTextDensity: 25,
		RenderDPI:         150,
		TranslateModel:    "google/gemini-2.0-flash-lite-001",
		TranslateWorkers:  5,
		LogLevel:          "info",
	}
}

// Load loads configuration from baseDir/config.json, applies environment
// overrides, and fills in path defaults relative to baseDir.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.ruvoc.
func Load(baseDir string) (*Config, error) {
	overlay, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}

	cfg := Merge(DefaultConfig(), overlay)

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.StoragePath == "" {
		switch cfg.StorageBackend {
		case BackendCSV:
			cfg.StoragePath = filepath.Join(baseDir, "vocab.csv")
		default:
			cfg.StoragePath = filepath.Join(baseDir, "vocab.db")
		}
	}
	if cfg.DeckPath == "" {
		cfg.DeckPath = filepath.Join(baseDir, "deck.txt")
	}

	return cfg, nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.StorageBackend = overlayString(base.StorageBackend, overlay.StorageBackend)
	result.StoragePath = overlayString(base.StoragePath, overlay.StoragePath)
	result.TranslateModel = overlayString(base.TranslateModel, overlay.TranslateModel)
	result.DeckPath = overlayString(base.DeckPath, overlay.DeckPath)
	result.LogLevel = overlayString(base.LogLevel, overlay.LogLevel)

	result.MinWordLen = overlayInt(base.MinWordLen, overlay.MinWordLen)
	result.MaxWordLen = overlayInt(base.MaxWordLen, overlay.MaxWordLen)
	result.FileTimeoutSecs = overlayInt(base.FileTimeoutSecs, overlay.FileTimeoutSecs)
	result.PDFMinTextDensity = overlayInt(base.PDFMinTextDensity, overlay.PDFMinTextDensity)
	result.TranslateWorkers = overlayInt(base.TranslateWorkers, overlay.TranslateWorkers)

	result.ContrastFactor = overlayFloat(base.ContrastFactor, overlay.ContrastFactor)
	result.SharpnessFactor = overlayFloat(base.SharpnessFactor, overlay.SharpnessFactor)
	result.RenderDPI = overlayFloat(base.RenderDPI, overlay.RenderDPI)

	// Booleans: a set overlay value wins either way, nil falls back to base
	result.Grayscale = base.Grayscale
	if overlay.Grayscale != nil {
		result.Grayscale = overlay.Grayscale
	}

	// Arrays: overlay replaces languages, stoplists merge and deduplicate
	result.OCRLanguages = overlay.OCRLanguages
	if len(result.OCRLanguages) == 0 {
		result.OCRLanguages = base.OCRLanguages
	}
	result.Stoplist = mergeStringSlice(base.Stoplist, overlay.Stoplist)

	result.OpenRouterAPIKey = overlayString(base.OpenRouterAPIKey, overlay.OpenRouterAPIKey)

	return result
}

// GrayscaleEnabled reports whether images are converted to grayscale before
// OCR. An unset value means enabled.
func (c *Config) GrayscaleEnabled() bool {
	return c.Grayscale == nil || *c.Grayscale
}

func boolPtr(b bool) *bool {
	return &b
}

func overlayString(base, overlay string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

func overlayInt(base, overlay int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

func overlayFloat(base, overlay float64) float64 {
	if overlay != 0 {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
