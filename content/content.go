// Package content prepares fetched document for rendering.
package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"gdc/gdoc"
	"gdc/misc"
	"gdc/state"
)

// Content encapsulates both the raw documents.get response and the decoded
// document with indexes derived from it.
type Content struct {
	SrcName string
	Raw     []byte
	Doc     *gdoc.Document

	Headings gdoc.HeadingIndex
	// Images lists inline objects referenced from document body in order of
	// first appearance.
	Images  []string
	WorkDir string
}

// Prepare builds indexes for decoded document. When debug report is
// requested raw and parsed documents are saved into working directory which
// becomes part of the report.
func Prepare(ctx context.Context, doc *gdoc.Document, raw []byte, srcName string, log *zap.Logger) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("unable to prepare %q: %w", srcName, gdoc.ErrNotDocument)
	}
	env := state.EnvFromContext(ctx)

	tmpDir, err := os.MkdirTemp("", misc.GetAppName()+"-")
	if err != nil {
		return nil, fmt.Errorf("unable to create temporary directory: %w", err)
	}

	c := &Content{
		SrcName:  srcName,
		Raw:      raw,
		Doc:      doc,
		Headings: gdoc.BuildHeadingIndex(doc),
		Images:   gdoc.InlineObjectIDs(doc),
		WorkDir:  tmpDir,
	}

	for _, id := range c.Images {
		if doc.InlineObject(id) == nil {
			log.Debug("Inline object is referenced but not defined", zap.String("id", id))
		}
	}

	if env.Rpt != nil {
		env.Rpt.Store(fmt.Sprintf("%s-%s", misc.GetAppName(), c.ID()), tmpDir)

		base := baseName(srcName)
		if len(raw) > 0 {
			if err := os.WriteFile(filepath.Join(tmpDir, base+".json"), raw, 0644); err != nil {
				return nil, fmt.Errorf("unable to write input doc for debugging: %w", err)
			}
		}
		if err := os.WriteFile(filepath.Join(tmpDir, base+"_parsed.txt"), []byte(c.String()), 0644); err != nil {
			return nil, fmt.Errorf("unable to write parsed doc for debugging: %w", err)
		}
	}

	log.Debug("Content prepared",
		zap.String("id", c.ID()),
		zap.String("title", doc.Title),
		zap.Int("blocks", len(doc.Body.Content)),
		zap.Int("headings", len(c.Headings)),
		zap.Int("images", len(c.Images)))
	return c, nil
}

// ID returns document id or source name when document does not carry one.
func (c *Content) ID() string {
	if c.Doc != nil && c.Doc.DocumentID != "" {
		return c.Doc.DocumentID
	}
	return baseName(c.SrcName)
}

// Cleanup removes working directory unless it was handed over to debug
// report.
func (c *Content) Cleanup(ctx context.Context) {
	if c == nil || c.WorkDir == "" {
		return
	}
	if env := state.EnvFromContext(ctx); env.Rpt != nil {
		return
	}
	_ = os.RemoveAll(c.WorkDir)
}

func baseName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
