package html

import (
	"context"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"gdc/gdoc"
)

// renderer keeps state of a single rendering pass.
type renderer struct {
	ctx      context.Context
	doc      *gdoc.Document
	styles   *styleSheet
	headings gdoc.HeadingIndex
	opts     *Options
	fonts    map[string]struct{}
	anchors  map[string]struct{}
	assetErr error
	log      *zap.Logger
}

func newRenderer(ctx context.Context, doc *gdoc.Document, opts *Options, log *zap.Logger) *renderer {
	return &renderer{
		ctx:      ctx,
		doc:      doc,
		styles:   newStyleSheet(doc),
		headings: gdoc.BuildHeadingIndex(doc),
		opts:     opts,
		fonts:    make(map[string]struct{}),
		anchors:  make(map[string]struct{}),
		log:      log,
	}
}

// renderFlow renders block sequence into root. Every flow owns its list
// state: lists never cross flow boundaries and are closed at the end.
func (r *renderer) renderFlow(root *etree.Element, blocks []gdoc.Block) error {
	flow := newFlowBuilder(root, r.opts.Nesting)
	for i := range blocks {
		if err := r.ctx.Err(); err != nil {
			return err
		}
		b := &blocks[i]
		switch b.Kind() {
		case gdoc.BlockParagraph:
			r.renderListParagraph(flow, b.Paragraph)
		case gdoc.BlockTable:
			flow.drain()
			if err := r.renderTable(flow.root, b.Table); err != nil {
				return err
			}
		case gdoc.BlockTableOfContents:
			flow.drain()
			r.renderTOC(flow.root, b.TableOfContents)
		case gdoc.BlockSectionBreak:
			flow.drain()
			div := flow.root.CreateElement("div")
			div.CreateAttr("class", "section-break")
			div.SetTail("\n")
		case gdoc.BlockUnknown:
			r.log.Debug("Skipping unsupported structural element", zap.Int("index", b.StartIndex))
		}
	}
	flow.drain()
	return nil
}

// renderListParagraph reports list transition for paragraph and renders it
// either as a list item or directly into flow root.
func (r *renderer) renderListParagraph(flow *flowBuilder, p *gdoc.Paragraph) {
	if p.Bullet == nil {
		flow.transition(false, nil)
	} else {
		ps := r.styles.resolveParagraphStyle(p.ParagraphStyle.NamedStyleType, &p.ParagraphStyle)
		flow.transition(true, r.listChain(p.Bullet, ps.RTL()))
	}
	r.renderParagraph(flow.container(), p)
}

// listChain resolves scopes for levels 0 through bullet nesting level. Nil
// result means bullet does not resolve.
func (r *renderer) listChain(b *gdoc.Bullet, rtl bool) []listScope {
	l := r.doc.List(b.ListID)
	if l == nil {
		r.log.Debug("Bullet references unknown list", zap.String("list", b.ListID))
		return nil
	}
	if l.Level(b.NestingLevel) == nil {
		r.log.Debug("Bullet nesting level is out of range", zap.String("list", b.ListID), zap.Int("level", b.NestingLevel))
		return nil
	}
	chain := make([]listScope, 0, b.NestingLevel+1)
	for lvl := 0; lvl <= b.NestingLevel; lvl++ {
		chain = append(chain, newListScope(l.Level(lvl), lvl, rtl))
	}
	return chain
}

// renderParagraph appends paragraph element to parent.
func (r *renderer) renderParagraph(parent *etree.Element, p *gdoc.Paragraph) *etree.Element {
	styleType := p.ParagraphStyle.NamedStyleType.OrDefault()
	ps := r.styles.resolveParagraphStyle(styleType, &p.ParagraphStyle)

	tag := elementForStyleType(styleType)
	el := parent.CreateElement(tag.name)
	if tag.class != "" {
		el.CreateAttr("class", tag.class)
	}
	if id := p.ParagraphStyle.HeadingID; id != "" {
		if _, dup := r.anchors[id]; dup {
			r.log.Debug("Duplicate heading anchor ignored", zap.String("id", id))
		} else {
			r.anchors[id] = struct{}{}
			el.CreateAttr("id", anchorID(id))
		}
	}
	if ps.RTL() {
		el.CreateAttr("dir", "rtl")
	}
	if css := paragraphCSS(&ps); css != "" {
		el.CreateAttr("style", css)
	}

	units := coalesce(p.Elements, func(ts *gdoc.TextStyle) gdoc.TextStyle {
		return r.styles.resolveTextStyle(styleType, ts)
	})
	for i := range units {
		switch units[i].kind {
		case unitText:
			r.renderText(el, &units[i])
		case unitImage:
			r.renderImage(el, units[i].objectID)
		}
	}
	if len(el.Child) == 0 {
		el.CreateElement("br")
	}
	el.SetTail("\n")
	return el
}
