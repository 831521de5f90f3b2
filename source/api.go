package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	docs "google.golang.org/api/docs/v1"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"gdc/config"
	"gdc/gdoc"
	"gdc/misc"
)

// maxDocumentSize limits size of documents.get response.
const maxDocumentSize = 256 << 20

// Scopes requested for service account: document body and image content
// served from Drive.
var Scopes = []string{docs.DocumentsReadonlyScope, drive.DriveReadonlyScope}

// API reads documents with Docs API v1 REST interface.
type API struct {
	endpoint string
	client   *http.Client
	log      *zap.Logger
}

// NewAPI prepares authorized client from service account key.
func NewAPI(ctx context.Context, cfg *config.SourceConfig, log *zap.Logger) (*API, error) {
	key, err := cfg.CredentialsJSON()
	if err != nil {
		return nil, err
	}
	if len(key) == 0 {
		return nil, errors.New("no service account credentials configured")
	}
	jwt, err := google.JWTConfigFromJSON(key, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account key: %w", err)
	}
	log.Debug("Using service account", zap.String("email", jwt.Email))

	client := jwt.Client(ctx)
	client.Timeout = cfg.Timeout
	return NewAPIWithClient(cfg.Endpoint, client, log), nil
}

// NewAPIWithClient uses provided client as is, it must add authorization
// itself if endpoint requires one.
func NewAPIWithClient(endpoint string, client *http.Client, log *zap.Logger) *API {
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	return &API{endpoint: endpoint, client: client, log: log}
}

// Client returns authorized client, image content is downloaded with it.
func (a *API) Client() *http.Client {
	return a.client
}

// Fetch performs documents.get for id. Response is decoded into gdoc model
// instead of using docs.Service: generated docs/v1 types hold scalars by value
// and lose the difference between absent and false fields which style merge
// depends on. Raw body is returned for the debug report.
func (a *API) Fetch(ctx context.Context, id string) (*gdoc.Document, []byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.endpoint+url.PathEscape(id), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to prepare request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", misc.GetAppName()+"/"+misc.GetVersion())

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to fetch document %q: %w", id, err)
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && (gerr.Code == http.StatusNotFound || gerr.Code == http.StatusForbidden) {
			return nil, nil, fmt.Errorf("%w: %q: %w", ErrNotFound, id, err)
		}
		return nil, nil, fmt.Errorf("unable to fetch document %q: %w", id, err)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read document %q: %w", id, err)
	}
	doc, err := gdoc.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("unable to decode document %q: %w", id, err)
	}

	a.log.Debug("Document fetched",
		zap.String("id", id),
		zap.String("revision", doc.RevisionID),
		zap.Int("bytes", len(raw)),
		zap.Duration("elapsed", time.Since(start)))
	return doc, raw, nil
}
