package convert

import (
	"context"
	"net/http"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"gdc/assets"
	"gdc/content"
	"gdc/convert/html"
	"gdc/state"
)

// writeOutput retrieves document images and generates the page into
// outDir. Image failures are reported but do not fail export.
func writeOutput(ctx context.Context, c *content.Content, outDir string, client *http.Client, log *zap.Logger) (err error) {
	env := state.EnvFromContext(ctx)
	cfg := &env.Cfg.Document.Images

	var cache *assets.Cache
	if cfg.CachePath != "" {
		opened, cerr := assets.OpenCache(cfg.CachePath, log.Named("cache"))
		if cerr != nil {
			log.Warn("Image cache disabled", zap.Error(cerr))
		} else {
			cache = opened
			defer func() {
				err = multierr.Append(err, cache.Close())
			}()
			if perr := cache.Purge(c.Doc.DocumentID, c.Doc.RevisionID); perr != nil {
				log.Warn("Unable to purge image cache", zap.Error(perr))
			}
		}
	}

	store := assets.New(outDir, c.Doc, client, cfg, cache, log.Named("assets"))
	if err := store.Prefetch(ctx, c.Doc, c.Images); err != nil {
		return err
	}
	if errs := store.Errors(); errs != nil {
		log.Debug("Image retrieval failures", zap.Int("count", len(multierr.Errors(errs))))
	}

	return html.Generate(ctx, c, outDir, store, log.Named("html"))
}
