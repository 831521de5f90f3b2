package html

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
	xhtml "golang.org/x/net/html"

	"gdc/gdoc"
)

const sampleJSON = "../../testdata/sample.json"

func ptr[T any](v T) *T {
	return &v
}

func pt(v float64) *gdoc.Dimension {
	return &gdoc.Dimension{Magnitude: &v, Unit: gdoc.UnitPt}
}

func rgb(r, g, b float64) *gdoc.OptionalColor {
	return &gdoc.OptionalColor{Color: &gdoc.Color{RGBColor: &gdoc.RGBColor{Red: &r, Green: &g, Blue: &b}}}
}

func run(content string, ts gdoc.TextStyle) gdoc.ParagraphElement {
	return gdoc.ParagraphElement{TextRun: &gdoc.TextRun{Content: content, TextStyle: ts}}
}

func image(id string) gdoc.ParagraphElement {
	return gdoc.ParagraphElement{InlineObjectElement: &gdoc.InlineObjectElement{InlineObjectID: id}}
}

func para(st gdoc.StyleType, elements ...gdoc.ParagraphElement) gdoc.Block {
	return gdoc.Block{Paragraph: &gdoc.Paragraph{
		ParagraphStyle: gdoc.ParagraphStyle{NamedStyleType: st},
		Elements:       elements,
	}}
}

func heading(st gdoc.StyleType, id, content string) gdoc.Block {
	b := para(st, run(content+"\n", gdoc.TextStyle{}))
	b.Paragraph.ParagraphStyle.HeadingID = id
	return b
}

func item(listID string, level int, content string) gdoc.Block {
	b := para(gdoc.StyleNormalText, run(content+"\n", gdoc.TextStyle{}))
	b.Paragraph.Bullet = &gdoc.Bullet{ListID: listID, NestingLevel: level}
	return b
}

func plain(content string) gdoc.Block {
	return para(gdoc.StyleNormalText, run(content+"\n", gdoc.TextStyle{}))
}

func cell(blocks ...gdoc.Block) gdoc.TableCell {
	return gdoc.TableCell{Content: blocks}
}

func table(rows ...[]gdoc.TableCell) gdoc.Block {
	t := &gdoc.Table{Rows: len(rows)}
	for _, cells := range rows {
		t.TableRows = append(t.TableRows, gdoc.TableRow{TableCells: cells})
		t.Columns = max(t.Columns, len(cells))
	}
	return gdoc.Block{Table: t}
}

func toc(blocks ...gdoc.Block) gdoc.Block {
	return gdoc.Block{TableOfContents: &gdoc.TableOfContents{Content: blocks}}
}

func tocEntry(content, headingID string) gdoc.Block {
	return para(gdoc.StyleNormalText, run(content+"\n", gdoc.TextStyle{Link: &gdoc.Link{HeadingID: headingID}}))
}

// newDoc returns document with three lists: "ul" (bulleted on every level),
// "ol" (decimal, then lower alpha) and "mixed" (bulleted, then lower alpha).
func newDoc(blocks ...gdoc.Block) *gdoc.Document {
	return &gdoc.Document{
		DocumentID: "doc-1",
		Title:      "Test",
		Body:       gdoc.Body{Content: blocks},
		Lists: map[string]gdoc.List{
			"ul": {ListProperties: gdoc.ListProperties{NestingLevels: []gdoc.NestingLevel{
				{GlyphSymbol: "●"}, {GlyphSymbol: "○"},
			}}},
			"ol": {ListProperties: gdoc.ListProperties{NestingLevels: []gdoc.NestingLevel{
				{GlyphType: gdoc.GlyphDecimal, StartNumber: 1}, {GlyphType: gdoc.GlyphAlpha, StartNumber: 1},
			}}},
			"mixed": {ListProperties: gdoc.ListProperties{NestingLevels: []gdoc.NestingLevel{
				{GlyphSymbol: "●"}, {GlyphType: gdoc.GlyphAlpha},
			}}},
		},
	}
}

func loadSample(t *testing.T) *gdoc.Document {
	t.Helper()

	f, err := os.Open(sampleJSON)
	if err != nil {
		t.Fatalf("open sample file: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })

	doc, err := gdoc.Decode(f)
	if err != nil {
		t.Fatalf("decode sample file: %v", err)
	}
	return doc
}

// stubImages resolves every image to images/<id>.png unless told to fail.
type stubImages struct {
	fail  map[string]bool
	calls []string
}

func (s *stubImages) ResolveImage(_ context.Context, id string, _ *gdoc.InlineObject) (string, error) {
	s.calls = append(s.calls, id)
	if s.fail[id] {
		return "", errors.New("download failed")
	}
	return "images/" + id + ".png", nil
}

type stubFonts struct {
	got []string
}

func (s *stubFonts) URL(families []string) string {
	s.got = families
	if len(families) == 0 {
		return ""
	}
	return "https://fonts.example.com/css?family=" + strings.Join(families, "|")
}

func render(t *testing.T, doc *gdoc.Document, opts *Options) (*Result, *xhtml.Node) {
	t.Helper()

	if opts == nil {
		opts = &Options{}
	}
	if opts.Log == nil {
		opts.Log = zaptest.NewLogger(t)
	}
	res, err := Render(context.Background(), doc, opts)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	root, err := xhtml.Parse(bytes.NewReader(res.HTML))
	if err != nil {
		t.Fatalf("produced page does not parse: %v", err)
	}
	return res, root
}

func findAll(n *xhtml.Node, match func(*xhtml.Node) bool) []*xhtml.Node {
	var found []*xhtml.Node
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if match(n) {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

func byTag(tag string) func(*xhtml.Node) bool {
	return func(n *xhtml.Node) bool {
		return n.Type == xhtml.ElementNode && n.Data == tag
	}
}

func byClass(class string) func(*xhtml.Node) bool {
	return func(n *xhtml.Node) bool {
		if n.Type != xhtml.ElementNode {
			return false
		}
		for _, c := range strings.Fields(attr(n, "class")) {
			if c == class {
				return true
			}
		}
		return false
	}
}

func attr(n *xhtml.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *xhtml.Node) string {
	var b strings.Builder
	for _, t := range findAll(n, func(n *xhtml.Node) bool { return n.Type == xhtml.TextNode }) {
		b.WriteString(t.Data)
	}
	return strings.TrimSpace(b.String())
}

// children returns element children of n.
func children(n *xhtml.Node) []*xhtml.Node {
	var out []*xhtml.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xhtml.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func tags(nodes []*xhtml.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Data)
	}
	return out
}

func docContent(t *testing.T, root *xhtml.Node) *xhtml.Node {
	t.Helper()
	found := findAll(root, byClass("doc-content"))
	if len(found) != 1 {
		t.Fatalf("expected single doc-content, got %d", len(found))
	}
	return found[0]
}
