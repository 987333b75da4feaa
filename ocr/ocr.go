//go:build ocr

// Package ocr recognizes text in rendered page images. It wraps the
// Tesseract engine via gosseract and requires Tesseract to be installed
// on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
//
// OCR is optional: without the "ocr" build tag a stub implementation is
// compiled in whose functions return [ErrNotEnabled]. Page filtering by
// text falls back to OCR only for pages whose documents carry no
// extractable text layer, so most comparisons never touch this package.
package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps a Tesseract session. It is not safe for concurrent use;
// create one client per goroutine.
type Client struct {
	client *gosseract.Client
}

// New creates an OCR client. Close it when no longer needed to release
// the underlying Tesseract resources.
func New() (*Client, error) {
	return &Client{client: gosseract.NewClient()}, nil
}

// Close releases OCR resources. Safe to call on a nil client.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// SetLanguage sets the recognition language(s). Multiple languages are
// given as a "+" separated string, for example "eng+fra". The default
// is "eng".
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// Recognize runs OCR over a rendered page image and returns the
// recognized text with surrounding whitespace trimmed.
func (c *Client) Recognize(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encoding page image: %w", err)
	}
	if err := c.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("setting page image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("text recognition failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}
