// Package ocr defines the OCR engine contract and its Tesseract implementation.
package ocr

import (
	"bytes"
	"context"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// Engine recognizes text in a raster image.
type Engine interface {
	Recognize(ctx context.Context, img image.Image, languages []string) (string, error)
}

// Tesseract runs recognition through the local tesseract installation.
type Tesseract struct{}

// NewTesseract creates a Tesseract engine.
func NewTesseract() *Tesseract {
	return &Tesseract{}
}

// Recognize OCRs img. The call honors ctx cancellation: recognition runs in a
// goroutine and the context error wins if the deadline expires first.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image, languages []string) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		client := gosseract.NewClient()
		defer client.Close()

		if len(languages) > 0 {
			if err := client.SetLanguage(languages...); err != nil {
				done <- result{err: err}
				return
			}
		}
		if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
			done <- result{err: err}
			return
		}

		text, err := client.Text()
		done <- result{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.text, r.err
	}
}
