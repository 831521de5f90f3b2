package html

import (
	"strconv"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"gdc/gdoc"
)

const maxTOCLevel = 4

func (r *renderer) renderTOC(parent *etree.Element, toc *gdoc.TableOfContents) {
	div := parent.CreateElement("div")
	div.CreateAttr("class", "doc-toc")
	div.CreateText("\n")
	div.SetTail("\n")

	for i := range toc.Content {
		p := toc.Content[i].Paragraph
		if p == nil {
			continue
		}
		entry := div.CreateElement("div")
		entry.CreateAttr("class", "toc-level-"+strconv.Itoa(r.tocLevel(p)))
		entry.SetTail("\n")
		r.renderParagraph(entry, p)
	}
}

// tocLevel is the deepest heading level entry links to, clamped to [1,4].
// Links to unknown anchors or non-heading paragraphs count as level 1.
func (r *renderer) tocLevel(p *gdoc.Paragraph) int {
	level := 1
	for i := range p.Elements {
		tr := p.Elements[i].TextRun
		if tr == nil {
			continue
		}
		id := tr.TextStyle.Link.TargetHeadingID()
		if id == "" {
			continue
		}
		lvl := r.headings.Level(id)
		if lvl == 0 {
			r.log.Debug("Table of contents links to unknown heading", zap.String("id", id))
			continue
		}
		level = max(level, lvl)
	}
	return min(level, maxTOCLevel)
}
