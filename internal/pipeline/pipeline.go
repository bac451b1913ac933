// Package pipeline orchestrates a batch run: classify each input file,
// extract its text, normalize it into candidate words, and merge them into
// the vocabulary store.
package pipeline

import (
	"context"
	"crypto/rand"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/Revicx/russian-anki/internal/config"
	"github.com/Revicx/russian-anki/internal/detect"
	"github.com/Revicx/russian-anki/internal/errors"
	"github.com/Revicx/russian-anki/internal/extract"
	"github.com/Revicx/russian-anki/internal/imageprep"
	"github.com/Revicx/russian-anki/internal/ocr"
	"github.com/Revicx/russian-anki/internal/store"
	"github.com/Revicx/russian-anki/internal/vocab"
)

// Failure records one file that could not be processed. The batch continues
// past it.
type Failure struct {
	Path    string           `json:"path"`
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

// BatchResult summarizes one pipeline run.
type BatchResult struct {
	RunID          string    `json:"run_id"`
	FilesAttempted int       `json:"files_attempted"`
	FilesMerged    int       `json:"files_merged"`
	WordsExtracted int       `json:"words_extracted"`
	WordsNew       int       `json:"words_new"`
	WordsDuplicate int       `json:"words_duplicate"`
	NewWords       []string  `json:"new_words"`
	Failures       []Failure `json:"failures,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}

// Options wires a Pipeline. Every field except FileTimeout is required.
type Options struct {
	Store      store.Store
	Normalizer *vocab.Normalizer

	// Extractors maps each detected kind to its extractor.
	Extractors map[detect.Kind]extract.Extractor

	// PDFFallback handles PDFs whose text extractor reported NO_TEXT_LAYER.
	PDFFallback extract.Extractor

	// FileTimeout bounds the processing of a single file. Zero disables it.
	FileTimeout time.Duration

	Logger zerolog.Logger
}

// Pipeline processes batches of input files into the vocabulary store.
type Pipeline struct {
	opts Options
}

// New creates a Pipeline from pre-wired collaborators. Tests use this with
// stub extractors.
func New(opts Options) *Pipeline {
	return &Pipeline{opts: opts}
}

// FromConfig wires a Pipeline with the real extractor set: plain text,
// markdown, docx, PDF with OCR fallback, and image OCR.
func FromConfig(cfg *config.Config, st store.Store, logger zerolog.Logger) *Pipeline {
	prep := imageprep.New(cfg.ContrastFactor, cfg.SharpnessFactor, cfg.GrayscaleEnabled())
	engine := ocr.NewTesseract()

	pdfOCR := extract.PDFOCRExtractor{
		Renderer:  extract.FitzRenderer{},
		Prep:      prep,
		Engine:    engine,
		Languages: cfg.OCRLanguages,
		DPI:       cfg.RenderDPI,
		Log:       logger,
	}

	return New(Options{
		Store:      st,
		Normalizer: vocab.NewNormalizer(cfg.MinWordLen, cfg.MaxWordLen, cfg.Stoplist),
		Extractors: map[detect.Kind]extract.Extractor{
			detect.KindText:       extract.TextExtractor{},
			detect.KindMarkdown:   extract.MarkdownExtractor{},
			detect.KindDocx:       extract.DocxExtractor{},
			detect.KindPDFText:    extract.PDFTextExtractor{MinDensity: cfg.PDFMinTextDensity},
			detect.KindPDFScanned: pdfOCR,
			detect.KindImage: extract.ImageExtractor{
				Prep:      prep,
				Engine:    engine,
				Languages: cfg.OCRLanguages,
			},
		},
		PDFFallback: pdfOCR,
		FileTimeout: time.Duration(cfg.FileTimeoutSecs) * time.Second,
		Logger:      logger,
	})
}

// Run processes the given paths. Directories are expanded recursively to
// their supported files; explicitly listed files of unsupported formats are
// recorded as failures. A store failure aborts the batch; any other per-file
// error is recorded and the batch continues. On context cancellation the
// partial result is returned alongside the context error.
func (p *Pipeline) Run(ctx context.Context, paths []string) (*BatchResult, error) {
	result := &BatchResult{
		RunID:     newRunID(),
		StartedAt: time.Now(),
	}
	log := p.opts.Logger.With().Str("run_id", result.RunID).Logger()

	files, failures, err := expandPaths(paths)
	if err != nil {
		return nil, err
	}
	result.Failures = append(result.Failures, failures...)

	log.Info().Int("files", len(files)).Msg("starting batch")

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			result.FinishedAt = time.Now()
			return result, err
		}

		result.FilesAttempted++
		if err := p.processFile(ctx, path, result, log); err != nil {
			if errors.Is(err, errors.ErrStoreIO) {
				result.FinishedAt = time.Now()
				return result, err
			}
			if ctx.Err() != nil {
				result.FinishedAt = time.Now()
				return result, ctx.Err()
			}
			result.Failures = append(result.Failures, failureFrom(path, err))
			log.Warn().Str("path", path).Str("code", string(errors.CodeOf(err))).Err(err).Msg("file failed")
			continue
		}
		result.FilesMerged++
	}

	result.FinishedAt = time.Now()
	log.Info().
		Int("files_merged", result.FilesMerged).
		Int("words_new", result.WordsNew).
		Int("words_duplicate", result.WordsDuplicate).
		Int("failures", len(result.Failures)).
		Msg("batch finished")

	return result, nil
}

// processFile runs one file through classify, extract, normalize, and merge,
// under the per-file deadline.
func (p *Pipeline) processFile(ctx context.Context, path string, result *BatchResult, log zerolog.Logger) error {
	if p.opts.FileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.FileTimeout)
		defer cancel()
	}

	kind, err := detect.Classify(path)
	if err != nil {
		return err
	}

	extractor, ok := p.opts.Extractors[kind]
	if !ok {
		return errors.NewUnsupportedFormat(path, filepath.Ext(path))
	}

	fragments, err := extractor.Extract(ctx, path)
	if errors.Is(err, errors.ErrNoTextLayer) && p.opts.PDFFallback != nil {
		log.Debug().Str("path", path).Msg("no text layer, falling back to OCR")
		fragments, err = p.opts.PDFFallback.Extract(ctx, path)
	}
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return errors.NewTimeout(path)
		}
		return err
	}

	var words []string
	for _, frag := range fragments {
		words = append(words, p.opts.Normalizer.Words(frag.Text)...)
	}
	result.WordsExtracted += len(words)

	// Deduplicate within the file; the store handles cross-file duplicates.
	now := time.Now().Unix()
	for _, w := range vocab.Unique(words) {
		inserted, err := p.opts.Store.InsertIfAbsent(vocab.Record{
			Word:      w,
			FirstSeen: now,
			Source:    path,
		})
		if err != nil {
			return err
		}
		if inserted {
			result.WordsNew++
			result.NewWords = append(result.NewWords, w)
		}
	}
	result.WordsDuplicate = result.WordsExtracted - result.WordsNew

	log.Debug().Str("path", path).Str("kind", string(kind)).Int("words", len(words)).Msg("file merged")
	return nil
}

// expandPaths resolves the argument list to concrete input files. Directories
// are walked recursively and unsupported entries inside them are skipped
// silently; a file named explicitly must be supported or it becomes a failure.
func expandPaths(paths []string) ([]string, []Failure, error) {
	var files []string
	var failures []Failure

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			failures = append(failures, Failure{
				Path:    path,
				Code:    errors.ErrExtraction,
				Message: err.Error(),
			})
			continue
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && detect.Supported(p) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, nil, errors.NewExtraction(path, err)
		}
	}

	sort.Strings(files)
	return files, failures, nil
}

func failureFrom(path string, err error) Failure {
	return Failure{
		Path:    path,
		Code:    errors.CodeOf(err),
		Message: err.Error(),
	}
}

// newRunID generates a ULID for the batch.
func newRunID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
