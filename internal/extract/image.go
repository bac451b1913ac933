package extract

import (
	"context"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/Revicx/russian-anki/internal/errors"
	"github.com/Revicx/russian-anki/internal/imageprep"
	"github.com/Revicx/russian-anki/internal/ocr"
)

// ImageExtractor OCRs a raster image file after preprocessing.
type ImageExtractor struct {
	Prep      *imageprep.Preprocessor
	Engine    ocr.Engine
	Languages []string
}

// Extract decodes, preprocesses, and recognizes the image.
func (e ImageExtractor) Extract(ctx context.Context, path string) ([]Fragment, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.NewExtraction(path, err)
	}

	text, err := e.Engine.Recognize(ctx, e.Prep.Apply(img), e.Languages)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.NewExtraction(path, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	return []Fragment{{Source: path, Text: text}}, nil
}
