//go:build !ocr

// Package ocr recognizes text in rendered page images.
//
// This is the stub implementation compiled when the "ocr" build tag is
// not set; every operation returns [ErrNotEnabled]. To enable real
// recognition, install Tesseract and rebuild with:
//
//	go build -tags ocr
package ocr

import (
	"errors"
	"image"
)

// ErrNotEnabled is returned when OCR functions are called but OCR
// support was not compiled in. Rebuild with -tags ocr to enable it.
var ErrNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Client is a stub that fails every operation with [ErrNotEnabled].
type Client struct{}

// New returns an error indicating OCR support is not enabled.
func New() (*Client, error) {
	return nil, ErrNotEnabled
}

// Close is a no-op. Safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// SetLanguage returns ErrNotEnabled.
func (c *Client) SetLanguage(lang string) error {
	return ErrNotEnabled
}

// Recognize returns ErrNotEnabled.
func (c *Client) Recognize(img image.Image) (string, error) {
	return "", ErrNotEnabled
}
