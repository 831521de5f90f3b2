package gdoc

import (
	"fmt"
	"strconv"

	"gdc/utils/debug"
)

type treeWriter struct {
	*debug.TreeWriter
}

// String returns readable tree of the document. Only fields affecting
// rendering are shown, it is used for debug reports.
func (d *Document) String() string {
	if d == nil {
		return "<nil Document>"
	}
	return treeWriter{debug.NewTreeWriter()}.document(d).String()
}

func (tw treeWriter) document(d *Document) treeWriter {
	tw.Line(0, "Document id=%q revision=%q", d.DocumentID, d.RevisionID)
	tw.TextBlock(1, "Title", d.Title)
	if ps := d.DocumentStyle.PageSize; ps != nil {
		w, _ := ps.Width.Points()
		h, _ := ps.Height.Points()
		tw.Line(1, "PageSize %sx%s pt", num(w), num(h))
	}
	for i := range d.NamedStyles.Styles {
		ns := &d.NamedStyles.Styles[i]
		tw.Line(1, "NamedStyle %s", ns.NamedStyleType)
		tw.paragraphStyle(2, &ns.ParagraphStyle)
		tw.textStyle(2, &ns.TextStyle)
	}
	for _, id := range debug.SortedKeys(d.Lists) {
		l := d.Lists[id]
		tw.Line(1, "List %q levels=%d", id, len(l.ListProperties.NestingLevels))
		for n, lvl := range l.ListProperties.NestingLevels {
			tw.Line(2, "Level[%d] glyph=%s symbol=%q ordered=%t start=%d", n, lvl.GlyphType, lvl.GlyphSymbol, lvl.Ordered(), lvl.StartNumber)
		}
	}
	for _, id := range debug.SortedKeys(d.InlineObjects) {
		o := d.InlineObjects[id]
		w, h, _ := o.DisplaySize()
		tw.Line(1, "InlineObject %q display=%dx%d uri=%t", id, w, h, o.ContentURI() != "")
	}
	tw.Line(1, "Body blocks=%d", len(d.Body.Content))
	tw.blocks(2, d.Body.Content)
	return tw
}

func (tw treeWriter) blocks(depth int, blocks []Block) {
	for i := range blocks {
		b := &blocks[i]
		switch b.Kind() {
		case BlockParagraph:
			tw.paragraph(depth, b.Paragraph, i)
		case BlockTable:
			tw.Line(depth, "Table[%d] rows=%d columns=%d", i, b.Table.Rows, b.Table.Columns)
			for r, row := range b.Table.TableRows {
				for c := range row.TableCells {
					cell := &row.TableCells[c]
					tw.Line(depth+1, "Cell[%d,%d] span=%dx%d", r, c, cell.TableCellStyle.ColumnSpan, cell.TableCellStyle.RowSpan)
					tw.blocks(depth+2, cell.Content)
				}
			}
		case BlockTableOfContents:
			tw.Line(depth, "TableOfContents[%d] entries=%d", i, len(b.TableOfContents.Content))
			tw.blocks(depth+1, b.TableOfContents.Content)
		case BlockSectionBreak:
			tw.Line(depth, "SectionBreak[%d]", i)
		default:
			tw.Line(depth, "Unknown[%d]", i)
		}
	}
}

func (tw treeWriter) paragraph(depth int, p *Paragraph, i int) {
	bullet := ""
	if p.Bullet != nil {
		bullet = fmt.Sprintf(" bullet=%s/%d", p.Bullet.ListID, p.Bullet.NestingLevel)
	}
	tw.Line(depth, "Paragraph[%d] style=%s%s", i, p.ParagraphStyle.NamedStyleType.OrDefault(), bullet)
	tw.paragraphStyle(depth+1, &p.ParagraphStyle)
	for j := range p.Elements {
		el := &p.Elements[j]
		switch el.Kind() {
		case ElementTextRun:
			tw.TextBlock(depth+1, "Run", el.TextRun.Content)
			tw.textStyle(depth+2, &el.TextRun.TextStyle)
		case ElementInlineObject:
			tw.Line(depth+1, "Image %q", el.InlineObjectElement.InlineObjectID)
		default:
			tw.Line(depth+1, "Other [%d:%d]", el.StartIndex, el.EndIndex)
		}
	}
}

func (tw treeWriter) paragraphStyle(depth int, ps *ParagraphStyle) {
	if ps.HeadingID != "" {
		tw.Line(depth, "HeadingID=%q", ps.HeadingID)
	}
	if ps.Alignment != "" || ps.Direction != "" {
		tw.Line(depth, "Alignment=%s Direction=%s", ps.Alignment, ps.Direction)
	}
	if ps.LineSpacing != nil {
		tw.Line(depth, "LineSpacing=%s", num(*ps.LineSpacing))
	}
	dims := []struct {
		name string
		d    *Dimension
	}{
		{"SpaceAbove", ps.SpaceAbove},
		{"SpaceBelow", ps.SpaceBelow},
		{"IndentFirstLine", ps.IndentFirstLine},
		{"IndentStart", ps.IndentStart},
		{"IndentEnd", ps.IndentEnd},
	}
	for _, dim := range dims {
		if v, ok := dim.d.Points(); ok {
			tw.Line(depth, "%s=%spt", dim.name, num(v))
		}
	}
}

func (tw treeWriter) textStyle(depth int, ts *TextStyle) {
	tw.Flags(depth, "Flags", map[string]bool{
		"bold":          ts.Bold != nil && *ts.Bold,
		"italic":        ts.Italic != nil && *ts.Italic,
		"underline":     ts.Underline != nil && *ts.Underline,
		"strikethrough": ts.Strikethrough != nil && *ts.Strikethrough,
	})
	if ts.BaselineOffset != "" && ts.BaselineOffset != BaselineNone {
		tw.Line(depth, "BaselineOffset=%s", ts.BaselineOffset)
	}
	if v, ok := ts.FontSize.Points(); ok {
		tw.Line(depth, "FontSize=%spt", num(v))
	}
	if f := ts.FontFamily(); f != "" {
		tw.Line(depth, "FontFamily=%q", f)
	}
	if c, ok := ts.ForegroundColor.RGB(); ok {
		tw.Line(depth, "Color=%s", c)
	}
	if ts.Link != nil {
		tw.Line(depth, "Link url=%q heading=%q", ts.Link.URL, ts.Link.TargetHeadingID())
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
