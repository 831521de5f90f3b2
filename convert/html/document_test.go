package html

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"

	"gdc/config"
	"gdc/gdoc"
)

func TestRender_ListScenario(t *testing.T) {
	doc := newDoc(
		heading(gdoc.StyleHeading1, "h.intro", "Intro"),
		item("ul", 0, "a"),
		item("ul", 0, "b"),
		item("ol", 0, "c"),
		plain("end"),
	)
	_, root := render(t, doc, nil)
	body := docContent(t, root)

	nodes := children(body)
	if got, want := tags(nodes), []string{"h1", "ul", "ol", "p"}; !slices.Equal(got, want) {
		t.Fatalf("body elements = %q, want %q", got, want)
	}
	if got := textOf(nodes[0]); got != "Intro" {
		t.Errorf("heading text = %q", got)
	}
	if got := attr(nodes[0], "id"); got != "heading-h.intro" {
		t.Errorf("heading id = %q", got)
	}

	itemTexts := func(list int) []string {
		var out []string
		for _, li := range children(nodes[list]) {
			if li.Data != "li" {
				t.Errorf("list child %q", li.Data)
			}
			out = append(out, textOf(li))
		}
		return out
	}
	if got := itemTexts(1); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("unordered items = %q", got)
	}
	if got := itemTexts(2); !slices.Equal(got, []string{"c"}) {
		t.Errorf("ordered items = %q", got)
	}
	if got := textOf(nodes[3]); got != "end" {
		t.Errorf("trailing paragraph = %q", got)
	}
}

func TestRender_ListNesting(t *testing.T) {
	blocks := []gdoc.Block{
		item("mixed", 0, "a"),
		item("mixed", 1, "b"),
		item("mixed", 0, "c"),
	}

	t.Run("flat", func(t *testing.T) {
		_, root := render(t, newDoc(blocks...), &Options{Nesting: config.ListNestingFlat})
		if got, want := tags(children(docContent(t, root))), []string{"ul", "ol", "ul"}; !slices.Equal(got, want) {
			t.Errorf("body elements = %q, want %q", got, want)
		}
	})

	t.Run("nested", func(t *testing.T) {
		_, root := render(t, newDoc(blocks...), &Options{Nesting: config.ListNestingNested})
		body := docContent(t, root)
		if got := tags(children(body)); !slices.Equal(got, []string{"ul"}) {
			t.Fatalf("body elements = %q", got)
		}
		inner := findAll(body, byTag("ol"))
		if len(inner) != 1 || inner[0].Parent.Data != "li" {
			t.Fatalf("ordered list is not nested into list item")
		}
		if attr(inner[0], "type") != "a" {
			t.Errorf("nested ordered list type = %q", attr(inner[0], "type"))
		}
		if got := textOf(inner[0]); got != "b" {
			t.Errorf("nested item = %q", got)
		}
	})
}

func TestRender_UnresolvedBullet(t *testing.T) {
	doc := newDoc(
		item("ul", 0, "a"),
		item("missing", 0, "b"),
		item("ul", 5, "c"),
		plain("d"),
	)
	_, root := render(t, doc, nil)
	nodes := children(docContent(t, root))
	if got, want := tags(nodes), []string{"ul", "p"}; !slices.Equal(got, want) {
		t.Fatalf("body elements = %q, want %q", got, want)
	}
	if got := len(children(nodes[0])); got != 3 {
		t.Errorf("list items = %d, want 3", got)
	}
}

func TestRender_TableCellsOwnListContext(t *testing.T) {
	doc := newDoc(
		item("ul", 0, "a"),
		table([]gdoc.TableCell{
			cell(item("ol", 0, "x"), plain("y")),
			cell(plain("z")),
		}),
		item("ul", 0, "b"),
	)
	_, root := render(t, doc, nil)
	body := docContent(t, root)

	if got, want := tags(children(body)), []string{"ul", "table", "ul"}; !slices.Equal(got, want) {
		t.Fatalf("body elements = %q, want %q", got, want)
	}
	cells := findAll(body, byTag("td"))
	if len(cells) != 2 {
		t.Fatalf("cells = %d", len(cells))
	}
	if got, want := tags(children(cells[0])), []string{"ol", "p"}; !slices.Equal(got, want) {
		t.Errorf("first cell = %q, want %q", got, want)
	}
	if got, want := tags(children(cells[1])), []string{"p"}; !slices.Equal(got, want) {
		t.Errorf("second cell = %q, want %q", got, want)
	}
}

func TestRender_TableCellStyle(t *testing.T) {
	spanning := cell(plain("wide"))
	spanning.TableCellStyle = gdoc.TableCellStyle{ColumnSpan: 2, BackgroundColor: rgb(1, 1, 0.8), ContentAlignment: "MIDDLE"}
	doc := newDoc(table(
		[]gdoc.TableCell{spanning, cell()},
		[]gdoc.TableCell{cell(plain("l")), cell(plain("r"))},
	))
	_, root := render(t, doc, nil)

	rows := findAll(root, byTag("tr"))
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	first := children(rows[0])
	if len(first) != 1 {
		t.Fatalf("covered cell rendered, first row has %d cells", len(first))
	}
	if attr(first[0], "colspan") != "2" {
		t.Errorf("colspan = %q", attr(first[0], "colspan"))
	}
	if got, want := attr(first[0], "style"), "border:1px solid #ccc; padding:0.5em; background-color:#ffffcc; vertical-align:middle;"; got != want {
		t.Errorf("cell style = %q, want %q", got, want)
	}
	if got := len(children(rows[1])); got != 2 {
		t.Errorf("second row cells = %d", got)
	}
}

func TestRender_TOCLevels(t *testing.T) {
	doc := newDoc(
		toc(
			tocEntry("Deep", "h.deep"),
			tocEntry("Two", "h.two"),
			tocEntry("Missing", "h.none"),
			tocEntry("Six", "h.six"),
		),
		heading(gdoc.StyleHeading5, "h.deep", "Deep"),
		heading(gdoc.StyleHeading2, "h.two", "Two"),
		heading(gdoc.StyleHeading6, "h.six", "Six"),
	)
	_, root := render(t, doc, nil)

	tocs := findAll(root, byClass("doc-toc"))
	if len(tocs) != 1 {
		t.Fatalf("toc blocks = %d", len(tocs))
	}
	var got []string
	for _, entry := range children(tocs[0]) {
		got = append(got, attr(entry, "class"))
	}
	want := []string{"toc-level-4", "toc-level-2", "toc-level-1", "toc-level-4"}
	if !slices.Equal(got, want) {
		t.Errorf("toc levels = %q, want %q", got, want)
	}

	links := findAll(tocs[0], byTag("a"))
	if len(links) != 4 || attr(links[0], "href") != "#heading-h.deep" {
		t.Errorf("toc links not rendered as anchor references")
	}
	if h5 := findAll(root, byTag("h5")); len(h5) != 1 || attr(h5[0], "id") != "heading-h.deep" {
		t.Errorf("HEADING_5 anchor keeps its own level")
	}
}

func TestRender_ListsClosedAtBoundaries(t *testing.T) {
	doc := newDoc(
		item("ul", 0, "a"),
		toc(tocEntry("x", "h.x")),
		item("ul", 0, "b"),
		gdoc.Block{SectionBreak: &gdoc.SectionBreak{}},
		item("ul", 0, "c"),
	)
	_, root := render(t, doc, nil)
	want := []string{"ul", "div", "ul", "div", "ul"}
	if got := tags(children(docContent(t, root))); !slices.Equal(got, want) {
		t.Errorf("body elements = %q, want %q", got, want)
	}
}

func TestRender_ParagraphPresentation(t *testing.T) {
	rtl := para(gdoc.StyleNormalText, run("שלום\n", gdoc.TextStyle{}))
	rtl.Paragraph.ParagraphStyle.Direction = gdoc.DirectionRTL
	rtl.Paragraph.ParagraphStyle.Alignment = gdoc.AlignStart

	doc := newDoc(
		para(gdoc.StyleTitle, run("Title\n", gdoc.TextStyle{})),
		para(gdoc.StyleSubtitle, run("Sub\n", gdoc.TextStyle{})),
		rtl,
		para(gdoc.StyleNormalText,
			run("plain ", gdoc.TextStyle{}),
			run("bold", gdoc.TextStyle{Bold: ptr(true)}),
			run(" and ", gdoc.TextStyle{}),
			run("link", gdoc.TextStyle{Underline: ptr(true), Link: &gdoc.Link{URL: "https://example.com/?q=1&r=2"}}),
			run(" line\vbreak\n", gdoc.TextStyle{}),
		),
		para(gdoc.StyleNormalText, run("\n", gdoc.TextStyle{})),
		heading(gdoc.StyleHeading2, "h.dup", "First"),
		heading(gdoc.StyleHeading2, "h.dup", "Second"),
	)
	res, root := render(t, doc, nil)

	if h1 := findAll(root, byClass("title")); len(h1) != 1 || h1[0].Data != "h1" {
		t.Error("title is not h1.title")
	}
	if h2 := findAll(root, byClass("subtitle")); len(h2) != 1 || h2[0].Data != "h2" {
		t.Error("subtitle is not h2.subtitle")
	}

	ps := findAll(docContent(t, root), byTag("p"))
	if len(ps) != 3 {
		t.Fatalf("paragraphs = %d", len(ps))
	}
	if attr(ps[0], "dir") != "rtl" || attr(ps[0], "style") != "text-align:right;" {
		t.Errorf("rtl paragraph attributes: dir=%q style=%q", attr(ps[0], "dir"), attr(ps[0], "style"))
	}

	spans := findAll(ps[1], byTag("span"))
	if len(spans) != 1 || attr(spans[0], "class") != "bold" || textOf(spans[0]) != "bold" {
		t.Errorf("bold run not wrapped in span.bold")
	}
	links := findAll(ps[1], byTag("a"))
	if len(links) != 1 || attr(links[0], "href") != "https://example.com/?q=1&r=2" || attr(links[0], "class") != "underline" {
		t.Errorf("link not rendered: %+v", links)
	}
	if got := len(findAll(ps[1], byTag("br"))); got != 1 {
		t.Errorf("soft line breaks = %d", got)
	}
	if textOf(ps[1]) != "plain bold and link linebreak" {
		t.Errorf("paragraph text = %q", textOf(ps[1]))
	}
	if !bytes.Contains(res.HTML, []byte(`href="https://example.com/?q=1&amp;r=2"`)) {
		t.Error("ampersand in attribute not escaped")
	}

	if got := len(findAll(ps[2], byTag("br"))); got != 1 {
		t.Errorf("empty paragraph must hold a line break, got %d", got)
	}

	h2 := findAll(root, byTag("h2"))
	var ids []string
	for _, h := range h2 {
		ids = append(ids, attr(h, "id"))
	}
	if !slices.Equal(ids, []string{"", "heading-h.dup", ""}) {
		t.Errorf("heading ids = %q", ids)
	}
}

func TestRender_Images(t *testing.T) {
	newImageDoc := func() *gdoc.Document {
		doc := newDoc(para(gdoc.StyleNormalText, run("before ", gdoc.TextStyle{}), image("img1"), image("chart"), image("gone"), run("after\n", gdoc.TextStyle{})))
		doc.InlineObjects = map[string]gdoc.InlineObject{
			"img1": {ObjectID: "img1", InlineObjectProperties: gdoc.InlineObjectProperties{EmbeddedObject: &gdoc.EmbeddedObject{
				Title:           "Diagram",
				ImageProperties: &gdoc.ImageProperties{ContentURI: "https://lh3.example.com/img1"},
				Size:            &gdoc.Size{Width: pt(200), Height: pt(100)},
				Transform:       &gdoc.Transform{ScaleX: ptr(0.5)},
			}}},
			// embedded drawing without image properties
			"chart": {ObjectID: "chart", InlineObjectProperties: gdoc.InlineObjectProperties{EmbeddedObject: &gdoc.EmbeddedObject{}}},
			"gone": {ObjectID: "gone", InlineObjectProperties: gdoc.InlineObjectProperties{EmbeddedObject: &gdoc.EmbeddedObject{
				ImageProperties: &gdoc.ImageProperties{ContentURI: "https://lh3.example.com/gone"},
			}}},
		}
		return doc
	}

	t.Run("resolved", func(t *testing.T) {
		images := &stubImages{}
		res, root := render(t, newImageDoc(), &Options{Images: images})
		if res.AssetErrors != nil {
			t.Fatalf("AssetErrors = %v", res.AssetErrors)
		}
		if !slices.Equal(images.calls, []string{"img1", "gone"}) {
			t.Errorf("resolver calls = %q", images.calls)
		}
		imgs := findAll(root, byTag("img"))
		if len(imgs) != 2 {
			t.Fatalf("images = %d", len(imgs))
		}
		if attr(imgs[0], "src") != "images/img1.png" || attr(imgs[0], "alt") != "Diagram" {
			t.Errorf("img attributes = %+v", imgs[0].Attr)
		}
		if got, want := attr(imgs[0], "style"), "max-width:133px; max-height:133px;"; got != want {
			t.Errorf("img style = %q, want %q", got, want)
		}
		if attr(imgs[1], "style") != "" {
			t.Errorf("image without declared size got style %q", attr(imgs[1], "style"))
		}
	})

	t.Run("failures omit images", func(t *testing.T) {
		res, root := render(t, newImageDoc(), &Options{Images: &stubImages{fail: map[string]bool{"gone": true}}})
		if got := len(multierr.Errors(res.AssetErrors)); got != 1 {
			t.Errorf("asset errors = %d (%v)", got, res.AssetErrors)
		}
		if got := len(findAll(root, byTag("img"))); got != 1 {
			t.Errorf("images = %d", got)
		}
		if got := textOf(docContent(t, root)); got != "before after" {
			t.Errorf("text = %q", got)
		}
	})

	t.Run("no resolver", func(t *testing.T) {
		res, root := render(t, newImageDoc(), nil)
		if got := len(multierr.Errors(res.AssetErrors)); got != 2 {
			t.Errorf("asset errors = %d", got)
		}
		if got := len(findAll(root, byTag("img"))); got != 0 {
			t.Errorf("images = %d", got)
		}
	})
}

func TestRender_Head(t *testing.T) {
	doc := newDoc(
		para(gdoc.StyleNormalText,
			run("x", gdoc.TextStyle{WeightedFontFamily: &gdoc.WeightedFontFamily{FontFamily: "Lora"}}),
			run("y\n", gdoc.TextStyle{WeightedFontFamily: &gdoc.WeightedFontFamily{FontFamily: "Arial"}}),
		),
	)
	doc.Title = `Q&A <draft>`
	fonts := &stubFonts{}
	res, root := render(t, doc, &Options{
		Lang:             "he",
		Fonts:            fonts,
		CustomStylesheet: "custom.css",
		ExtraFonts:       []string{"Roboto"},
	})

	if !bytes.HasPrefix(res.HTML, []byte("<!DOCTYPE html>\n<html lang=\"he\">")) {
		t.Errorf("page starts with %q", res.HTML[:min(len(res.HTML), 40)])
	}
	if !slices.Equal(res.Fonts, []string{"Arial", "Lora", "Roboto"}) {
		t.Errorf("fonts = %q", res.Fonts)
	}
	if !slices.Equal(fonts.got, res.Fonts) {
		t.Errorf("font linker received %q", fonts.got)
	}

	heads := findAll(root, byTag("head"))
	if len(heads) != 1 {
		t.Fatal("no head")
	}
	head := children(heads[0])
	if got, want := tags(head), []string{"meta", "meta", "title", "link", "style", "link"}; !slices.Equal(got, want) {
		t.Fatalf("head = %q, want %q", got, want)
	}
	if textOf(head[2]) != `Q&A <draft>` {
		t.Errorf("title = %q", textOf(head[2]))
	}
	if attr(head[3], "href") != "https://fonts.example.com/css?family=Arial|Lora|Roboto" {
		t.Errorf("font link = %q", attr(head[3], "href"))
	}
	if attr(head[5], "href") != "custom.css" || attr(head[5], "rel") != "stylesheet" {
		t.Errorf("custom stylesheet link = %+v", head[5].Attr)
	}
}

func TestRender_NoFontsNoLink(t *testing.T) {
	_, root := render(t, newDoc(plain("x")), &Options{Fonts: &stubFonts{}})
	if got := len(findAll(root, byTag("link"))); got != 0 {
		t.Errorf("links = %d", got)
	}
}

func TestRender_Lang(t *testing.T) {
	for lang, want := range map[string]string{"": "en", "de-AT": "de-AT", "!!": "en"} {
		res, _ := render(t, newDoc(plain("x")), &Options{Lang: lang})
		if !bytes.Contains(res.HTML, []byte(`<html lang="`+want+`">`)) {
			t.Errorf("lang %q: expected %q", lang, want)
		}
	}
}

func TestRender_EmptyElementsClosed(t *testing.T) {
	doc := newDoc(plain("a"), gdoc.Block{SectionBreak: &gdoc.SectionBreak{}}, toc())
	res, _ := render(t, doc, nil)
	page := string(res.HTML)
	if !strings.Contains(page, `<div class="section-break"></div>`) {
		t.Error("empty div is not closed explicitly")
	}
	if strings.Contains(page, `<div class="section-break"/>`) {
		t.Error("self closing div")
	}
	if !strings.HasSuffix(page, "</html>\n") {
		t.Errorf("page ends with %q", page[max(0, len(page)-20):])
	}
}

func TestGlobalCSS(t *testing.T) {
	t.Run("page geometry", func(t *testing.T) {
		ds := gdoc.DocumentStyle{
			PageSize:     &gdoc.Size{Width: pt(612), Height: pt(792)},
			MarginTop:    pt(72),
			MarginBottom: pt(36),
			MarginLeft:   pt(72),
			MarginRight:  pt(72),
		}
		css, err := globalCSS(&ds)
		if err != nil {
			t.Fatal(err)
		}
		for _, s := range []string{
			"max-width: 688px;",
			"@page {\n  size: 8.5in 11in;\n  margin: 1in 1in 0.5in 1in;\n}",
			".toc-level-1 { margin-left: 0em; }",
			".toc-level-4 { margin-left: 6em; }",
		} {
			if !strings.Contains(css, s) {
				t.Errorf("css does not contain %q:\n%s", s, css)
			}
		}
		if strings.ContainsAny(css, "<>&") {
			t.Error("css contains characters which would be escaped")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		css, err := globalCSS(&gdoc.DocumentStyle{})
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(css, "max-width: 864px;") {
			t.Errorf("default container width missing:\n%s", css)
		}
		if strings.Contains(css, "@page") {
			t.Error("@page without page size")
		}
	})

	t.Run("explicit zero margins", func(t *testing.T) {
		ds := gdoc.DocumentStyle{PageSize: &gdoc.Size{Width: pt(612), Height: pt(792)}, MarginLeft: pt(0), MarginRight: pt(0)}
		if got := containerWidth(&ds); got != 816+containerPadding {
			t.Errorf("containerWidth() = %d", got)
		}
	})
}

func TestRender_Sample(t *testing.T) {
	doc := loadSample(t)
	images := &stubImages{}
	fonts := &stubFonts{}
	res, root := render(t, doc, &Options{Images: images, Fonts: fonts})

	if res.AssetErrors != nil {
		t.Errorf("AssetErrors = %v", res.AssetErrors)
	}
	if !slices.Equal(res.Fonts, []string{"Arial", "Lora"}) {
		t.Errorf("fonts = %q", res.Fonts)
	}

	body := docContent(t, root)
	want := []string{"div", "div", "h1", "h1", "ul", "ol", "p", "table", "h5"}
	if got := tags(children(body)); !slices.Equal(got, want) {
		t.Fatalf("body elements = %q, want %q", got, want)
	}

	var levels []string
	for _, entry := range children(findAll(body, byClass("doc-toc"))[0]) {
		levels = append(levels, attr(entry, "class"))
	}
	if !slices.Equal(levels, []string{"toc-level-1", "toc-level-4"}) {
		t.Errorf("toc levels = %q", levels)
	}

	img := findAll(body, byTag("img"))
	if len(img) != 1 || attr(img[0], "src") != "images/kix.img1.png" || attr(img[0], "style") != "max-width:267px; max-height:133px;" {
		t.Errorf("image = %+v", img)
	}

	cells := findAll(body, byTag("td"))
	if len(cells) != 2 {
		t.Fatalf("cells = %d", len(cells))
	}
	if tags(children(cells[0]))[0] != "ul" {
		t.Error("list inside cell not rendered")
	}
	if p := findAll(cells[1], byTag("p")); len(p) != 1 || attr(p[0], "dir") != "rtl" || !strings.Contains(attr(p[0], "style"), "text-align:right;") {
		t.Error("rtl cell paragraph not flipped")
	}

	if !bytes.Contains(res.HTML, []byte("size: 8.5in 11in;")) {
		t.Error("@page rule missing")
	}
}

func TestRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Render(ctx, newDoc(plain("x")), &Options{Log: zaptest.NewLogger(t)}); err == nil {
		t.Error("expected error for cancelled context")
	}
}
