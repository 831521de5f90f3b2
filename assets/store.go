// Package assets downloads images referenced by document and stores them
// next to the rendered page.
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/googleapi"

	"gdc/config"
	"gdc/gdoc"
	"gdc/utils/debug"
	"gdc/utils/files"
	"gdc/utils/images"
)

// ImagesDir is directory inside output directory receiving images.
const ImagesDir = "images"

const maxImageSize = 64 << 20

var (
	// ErrNoContent is returned for inline objects which are not images.
	ErrNoContent = errors.New("inline object has no image content")
	// ErrNotImage is returned when downloaded content is not a known image.
	ErrNotImage = errors.New("content is not an image")
)

type result struct {
	ref string
	err error
}

// Store resolves inline objects into image files. Safe for concurrent use,
// every object is retrieved at most once.
type Store struct {
	dir      string
	document string
	revision string
	client   *http.Client
	cfg      *config.ImagesConfig
	cache    *Cache
	log      *zap.Logger

	mu      sync.Mutex
	results map[string]*result
	names   map[string]string // file name -> object id
}

// New returns store writing into outDir/images. Cache may be nil.
func New(outDir string, doc *gdoc.Document, client *http.Client, cfg *config.ImagesConfig, cache *Cache, log *zap.Logger) *Store {
	if client == nil {
		client = http.DefaultClient
	}
	return &Store{
		dir:      filepath.Join(outDir, ImagesDir),
		document: doc.DocumentID,
		revision: doc.RevisionID,
		client:   client,
		cfg:      cfg,
		cache:    cache,
		log:      log,
		results:  make(map[string]*result),
		names:    make(map[string]string),
	}
}

// Prefetch retrieves all listed objects with bounded parallelism. Individual
// failures are remembered and reported by ResolveImage, only cancellation
// stops prefetching.
func (s *Store) Prefetch(ctx context.Context, doc *gdoc.Document, ids []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.cfg.Workers, 1))
	for _, id := range ids {
		obj := doc.InlineObject(id)
		if obj == nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, _ = s.ResolveImage(gctx, id, obj)
			return nil
		})
	}
	return g.Wait()
}

// ResolveImage returns page relative reference of stored image.
func (s *Store) ResolveImage(ctx context.Context, id string, obj *gdoc.InlineObject) (string, error) {
	s.mu.Lock()
	if r, ok := s.results[id]; ok {
		s.mu.Unlock()
		return r.ref, r.err
	}
	s.mu.Unlock()

	ref, err := s.retrieve(ctx, id, obj)
	if ctx.Err() != nil {
		// do not remember failures caused by cancellation
		return ref, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.results[id]; ok {
		return r.ref, r.err
	}
	s.results[id] = &result{ref: ref, err: err}
	return ref, err
}

// Errors aggregates all retrieval failures so far.
func (s *Store) Errors() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs error
	for _, id := range debug.SortedKeys(s.results) {
		if err := s.results[id].err; err != nil {
			errs = multierr.Append(errs, fmt.Errorf("image %q: %w", id, err))
		}
	}
	return errs
}

func (s *Store) retrieve(ctx context.Context, id string, obj *gdoc.InlineObject) (string, error) {
	uri := obj.ContentURI()
	if uri == "" {
		return "", ErrNoContent
	}

	data, cached, err := s.cache.Get(s.document, s.revision, id)
	if err != nil {
		s.log.Warn("Image cache is not usable", zap.Error(err))
	}
	if !cached {
		if data, err = s.download(ctx, uri); err != nil {
			return "", err
		}
		if err := s.cache.Put(s.document, s.revision, id, data); err != nil {
			s.log.Warn("Unable to cache image", zap.String("id", id), zap.Error(err))
		}
	}

	if images.IsSVG(data) {
		if data, err = s.rasterize(obj, data); err != nil {
			return "", err
		}
	}

	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		return "", fmt.Errorf("%w: %s", ErrNotImage, kind.MIME.Value)
	}
	ext := kind.Extension

	if data, ext, err = s.process(id, obj, data, ext); err != nil {
		return "", err
	}

	name := s.fileName(id, ext)
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("unable to create images directory: %w", err)
	}
	if err := files.WriteAtomic(s.dir, name, data); err != nil {
		return "", fmt.Errorf("unable to save image: %w", err)
	}
	s.log.Debug("Image stored", zap.String("id", id), zap.String("file", name), zap.Bool("cached", cached), zap.Int("bytes", len(data)))
	return path.Join(ImagesDir, name), nil
}

func (s *Store) download(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to download image: %w", err)
	}
	defer resp.Body.Close()
	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, fmt.Errorf("unable to download image: %w", err)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("unable to read image: %w", err)
	}
	return data, nil
}

// process scales image down to its display size and re-encodes it when
// requested. Images which cannot be decoded are kept as downloaded.
func (s *Store) process(id string, obj *gdoc.InlineObject, data []byte, ext string) ([]byte, string, error) {
	if !s.cfg.ScaleToDisplay && s.cfg.Format == config.ImageFormatOriginal {
		return data, ext, nil
	}
	img, imgType, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		s.log.Debug("Unable to decode image, leaving it as is", zap.String("id", id), zap.Error(err))
		return data, ext, nil
	}

	changed := false
	if s.cfg.ScaleToDisplay {
		if w, h, ok := obj.DisplaySize(); ok && w > 0 && h > 0 && (img.Bounds().Dx() > w || img.Bounds().Dy() > h) {
			img = imaging.Fit(img, w, h, imaging.Lanczos)
			changed = true
		}
	}

	format := s.cfg.Format
	if format == config.ImageFormatOriginal {
		switch imgType {
		case "jpeg":
			format = config.ImageFormatJpeg
		case "png":
			format = config.ImageFormatPng
		default:
			if !changed {
				return data, ext, nil
			}
			format = config.ImageFormatPng
		}
	}
	if !changed && format.Ext() == ext {
		return data, ext, nil
	}

	switch format {
	case config.ImageFormatJpeg:
		out, err := images.EncodeJPEG(img, s.cfg.JPEGQuality)
		if err != nil {
			return nil, "", fmt.Errorf("unable to encode JPEG: %w", err)
		}
		return out, format.Ext(), nil
	default:
		out, err := encodePNG(img)
		if err != nil {
			return nil, "", err
		}
		return out, format.Ext(), nil
	}
}

// rasterize turns SVG drawing into PNG of its display size.
func (s *Store) rasterize(obj *gdoc.InlineObject, data []byte) ([]byte, error) {
	w, h, _ := obj.DisplaySize()
	img, err := images.RasterizeSVGToImage(data, w, h)
	if err != nil {
		return nil, fmt.Errorf("unable to rasterize drawing: %w", err)
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, images.Flatten(img), imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return nil, fmt.Errorf("unable to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// fileName returns unique name for object image.
func (s *Store) fileName(id, ext string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := "image_" + config.CleanFileName(id)
	name := base + "." + ext
	for i := 1; ; i++ {
		owner, taken := s.names[name]
		if !taken || owner == id {
			break
		}
		name = fmt.Sprintf("%s_%d.%s", base, i, ext)
	}
	s.names[name] = id
	return name
}
