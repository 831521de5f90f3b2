// Package source retrieves documents.get resources either from Google Docs
// API or from local JSON exports.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"regexp"

	"go.uber.org/zap"

	"gdc/config"
	"gdc/gdoc"
)

var (
	// ErrNotFound is returned when document does not exist or is not shared
	// with the service account.
	ErrNotFound = errors.New("document not found")
	// ErrBadReference is returned when source reference is neither a
	// readable file, a document URL nor a document id.
	ErrBadReference = errors.New("unrecognized document reference")
)

// Source fetches document by id returning decoded document and raw response
// body.
type Source interface {
	Fetch(ctx context.Context, id string) (*gdoc.Document, []byte, error)
	// Client returns HTTP client suitable for downloading document
	// resources (images).
	Client() *http.Client
}

var (
	docURL = regexp.MustCompile(`/document/(?:u/\d+/)?d/([a-zA-Z0-9_-]+)`)
	docID  = regexp.MustCompile(`^[a-zA-Z0-9_-]{10,}$`)
)

// DocumentID extracts document id from Docs URL or validates bare id.
func DocumentID(ref string) (string, error) {
	if m := docURL.FindStringSubmatch(ref); m != nil {
		return m[1], nil
	}
	if docID.MatchString(ref) {
		return ref, nil
	}
	return "", fmt.Errorf("%w: %q", ErrBadReference, ref)
}

// Open selects source for reference: path to existing file is read locally,
// anything else is treated as document URL or id. Returns source and id to
// pass to Fetch.
func Open(ctx context.Context, ref string, cfg *config.SourceConfig, log *zap.Logger) (Source, string, error) {
	if fi, err := os.Stat(ref); err == nil && !fi.IsDir() {
		log.Debug("Reading document from file", zap.String("path", ref))
		return NewFile(cfg.Timeout), ref, nil
	}
	id, err := DocumentID(ref)
	if err != nil {
		return nil, "", err
	}
	api, err := NewAPI(ctx, cfg, log)
	if err != nil {
		return nil, "", err
	}
	return api, id, nil
}
