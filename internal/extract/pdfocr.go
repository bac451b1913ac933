package extract

import (
	"context"
	"image"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog"

	"github.com/Revicx/russian-anki/internal/errors"
	"github.com/Revicx/russian-anki/internal/imageprep"
	"github.com/Revicx/russian-anki/internal/ocr"
)

// PageDocument is an open, page-addressable document for rasterization.
type PageDocument interface {
	PageCount() int
	Image(index int, dpi float64) (image.Image, error)
	Close() error
}

// PageRenderer opens a PDF for page-by-page rasterization.
type PageRenderer interface {
	Open(path string) (PageDocument, error)
}

// FitzRenderer renders PDF pages through MuPDF.
type FitzRenderer struct{}

type fitzDocument struct {
	doc *fitz.Document
}

// Open opens a PDF for rendering.
func (FitzRenderer) Open(path string) (PageDocument, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &fitzDocument{doc: doc}, nil
}

func (d *fitzDocument) PageCount() int { return d.doc.NumPage() }

func (d *fitzDocument) Image(index int, dpi float64) (image.Image, error) {
	return d.doc.ImageDPI(index, dpi)
}

func (d *fitzDocument) Close() error { return d.doc.Close() }

// PDFOCRExtractor rasterizes each page, preprocesses the page image, and runs
// it through the OCR engine. A single page's OCR failure is logged and
// skipped; it does not fail the whole document.
type PDFOCRExtractor struct {
	Renderer  PageRenderer
	Prep      *imageprep.Preprocessor
	Engine    ocr.Engine
	Languages []string
	DPI       float64
	Log       zerolog.Logger
}

// Extract returns one fragment per page with recognized text.
func (e PDFOCRExtractor) Extract(ctx context.Context, path string) ([]Fragment, error) {
	doc, err := e.Renderer.Open(path)
	if err != nil {
		return nil, errors.NewExtraction(path, err)
	}
	defer doc.Close()

	var fragments []Fragment
	pages := doc.PageCount()

	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := doc.Image(i, e.DPI)
		if err != nil {
			e.Log.Warn().Str("path", path).Int("page", i+1).Err(err).Msg("page render failed, skipping")
			continue
		}

		text, err := e.Engine.Recognize(ctx, e.Prep.Apply(img), e.Languages)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.Log.Warn().Str("path", path).Int("page", i+1).Err(err).Msg("page OCR failed, skipping")
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		fragments = append(fragments, Fragment{Source: path, Text: text})
	}

	return fragments, nil
}
