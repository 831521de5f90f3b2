package html

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"gdc/content"
	"gdc/css"
	"gdc/fonts"
	"gdc/state"
	"gdc/utils/files"
)

const (
	pageName       = "index.html"
	stylesheetName = "custom.css"
	assetsDir      = "assets"
)

// Generate renders prepared content into outDir: index.html, optional
// custom.css with its local assets. Images are expected to be handled by
// resolver. Page is rendered in memory and written once.
func Generate(ctx context.Context, c *content.Content, outDir string, images ImageResolver, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	cfg := &env.Cfg.Document

	log.Info("Generating HTML", zap.String("output", outDir))

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	opts := &Options{
		Lang:    cfg.Lang,
		Nesting: cfg.Lists.Nesting,
		Images:  images,
		Fonts:   fonts.NewLinker(&cfg.Fonts),
		Log:     log,
	}

	if len(env.CustomStyle) > 0 {
		sheet := css.NewParser(log).Parse(env.CustomStyle, cfg.StylesheetPath)
		log.Debug("Additional stylesheet parsed",
			zap.String("path", cfg.StylesheetPath),
			zap.Strings("imports", sheet.Imports()),
			zap.Int("font-faces", len(sheet.FontFaces())))
		for _, w := range sheet.Warnings {
			log.Warn("Additional stylesheet problem", zap.String("details", w))
		}
		sheet.RewriteURLs(newAssetCopier(filepath.Dir(cfg.StylesheetPath), outDir, log).copy)
		if err := files.WriteAtomic(outDir, stylesheetName, []byte(sheet.String())); err != nil {
			return fmt.Errorf("unable to write stylesheet: %w", err)
		}
		opts.CustomStylesheet = stylesheetName
		opts.ExtraFonts = sheet.FontFamilies()
		env.Rpt.Store(stylesheetName, filepath.Join(outDir, stylesheetName))
	}

	res, err := Render(ctx, c.Doc, opts)
	if err != nil {
		return err
	}
	if err := files.WriteAtomic(outDir, pageName, res.HTML); err != nil {
		return fmt.Errorf("unable to write page: %w", err)
	}
	env.Rpt.StoreData(pageName, res.HTML)

	log.Debug("Fonts used", zap.Strings("families", res.Fonts))
	log.Info("HTML generated", zap.String("page", filepath.Join(outDir, pageName)), zap.Int("bytes", len(res.HTML)))
	return nil
}

// assetCopier copies local files referenced from additional stylesheet next
// to the page.
type assetCopier struct {
	srcDir string
	outDir string
	copied map[string]string // source path -> file name in assets
	names  map[string]bool
	log    *zap.Logger
}

func newAssetCopier(srcDir, outDir string, log *zap.Logger) *assetCopier {
	return &assetCopier{
		srcDir: srcDir,
		outDir: outDir,
		copied: make(map[string]string),
		names:  make(map[string]bool),
		log:    log,
	}
}

// copy returns new reference for u, remote and unreadable references are
// returned unchanged.
func (ac *assetCopier) copy(u string) string {
	ref, err := url.Parse(u)
	if err != nil || ref.Scheme != "" || ref.Host != "" || ref.Path == "" || path.IsAbs(ref.Path) {
		return u
	}
	src := filepath.Join(ac.srcDir, filepath.FromSlash(ref.Path))
	name, ok := ac.copied[src]
	if !ok {
		var err error
		if name, err = ac.store(src); err != nil {
			ac.log.Warn("Unable to copy stylesheet resource, leaving reference as is", zap.String("url", u), zap.Error(err))
			return u
		}
		ac.copied[src] = name
		ac.log.Debug("Stylesheet resource copied", zap.String("from", src), zap.String("to", name))
	}
	ref.Path = path.Join(assetsDir, name)
	return ref.String()
}

func (ac *assetCopier) store(src string) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(ac.outDir, assetsDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	name := ac.uniqueName(filepath.Base(src))
	if err := files.WriteAtomic(dir, name, data); err != nil {
		return "", err
	}
	return name, nil
}

func (ac *assetCopier) uniqueName(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; ac.names[name]; i++ {
		name = base + "_" + strconv.Itoa(i) + ext
	}
	ac.names[name] = true
	return name
}
