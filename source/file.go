package source

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"gdc/gdoc"
)

// File reads documents.get response saved to disk.
type File struct {
	client *http.Client
}

func NewFile(timeout time.Duration) *File {
	return &File{client: &http.Client{Timeout: timeout}}
}

// Client returns unauthenticated client, image links in exported JSON are
// only usable while they are fresh.
func (f *File) Client() *http.Client {
	return f.client
}

// Fetch reads file at path.
func (f *File) Fetch(ctx context.Context, path string) (*gdoc.Document, []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read document: %w", err)
	}
	doc, err := gdoc.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("unable to decode %q: %w", path, err)
	}
	return doc, raw, nil
}
