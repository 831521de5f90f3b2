// Package html renders Google Docs document into a single HTML page.
package html

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/beevik/etree"
	sprig "github.com/go-task/slim-sprig/v3"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"gdc/config"
	"gdc/gdoc"
	"gdc/utils/debug"
)

//go:embed document.css.tmpl
var documentCSS string

var cssTemplate = template.Must(template.New("css").Funcs(sprig.TxtFuncMap()).Parse(documentCSS))

const (
	defaultContainerWidth = 800
	containerPadding      = 64
	defaultMarginPt       = 72.0
	pointsPerInch         = 72.0
)

// ImageResolver makes image available to the page and returns reference to
// it relative to the page.
type ImageResolver interface {
	ResolveImage(ctx context.Context, id string, obj *gdoc.InlineObject) (string, error)
}

// FontLinker builds URL of external stylesheet loading font families or
// returns empty string when nothing needs to be loaded.
type FontLinker interface {
	URL(families []string) string
}

// Options controls page rendering, zero value renders without images and
// font link.
type Options struct {
	Lang             string
	Nesting          config.ListNesting
	Images           ImageResolver
	Fonts            FontLinker
	CustomStylesheet string   // href of additional stylesheet linked after built-in one
	ExtraFonts       []string // families referenced by additional stylesheet
	Log              *zap.Logger
}

// Result is rendered page with information collected while rendering.
type Result struct {
	HTML  []byte
	Fonts []string // distinct font families used by rendered text, sorted
	// AssetErrors aggregates images which were omitted from the page.
	AssetErrors error
}

// Render produces complete HTML page for the document. Output is assembled in
// memory, image failures do not stop rendering.
func Render(ctx context.Context, doc *gdoc.Document, opts *Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Options{}
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := newRenderer(ctx, doc, opts, log)

	content := etree.NewElement("div")
	content.CreateAttr("class", "doc-content")
	content.CreateText("\n")
	if err := r.renderFlow(content, doc.Body.Content); err != nil {
		return nil, fmt.Errorf("unable to render document body: %w", err)
	}

	for _, family := range opts.ExtraFonts {
		r.fonts[family] = struct{}{}
	}
	res := &Result{Fonts: debug.SortedKeys(r.fonts), AssetErrors: r.assetErr}

	css, err := globalCSS(&doc.DocumentStyle)
	if err != nil {
		return nil, err
	}
	var fontURL string
	if opts.Fonts != nil {
		fontURL = opts.Fonts.URL(res.Fonts)
	}

	page := assemble(doc.Title, resolveLang(opts.Lang, log), fontURL, css, opts.CustomStylesheet, content)
	if res.HTML, err = page.WriteToBytes(); err != nil {
		return nil, fmt.Errorf("unable to serialize document: %w", err)
	}
	res.HTML = append(res.HTML, '\n')

	if r.assetErr != nil {
		log.Warn("Some images were omitted", zap.Error(r.assetErr))
	}
	return res, nil
}

func resolveLang(lang string, log *zap.Logger) string {
	if lang == "" {
		return language.English.String()
	}
	tag, err := language.Parse(lang)
	if err != nil {
		log.Warn("Bad document language, using default", zap.String("lang", lang), zap.Error(err))
		return language.English.String()
	}
	return tag.String()
}

func assemble(title, lang, fontURL, css, customCSS string, content *etree.Element) *etree.Document {
	doc := etree.NewDocument()
	doc.WriteSettings = etree.WriteSettings{CanonicalText: true, CanonicalAttrVal: true}
	doc.CreateDirective("DOCTYPE html")
	doc.CreateText("\n")

	html := doc.CreateElement("html")
	html.CreateAttr("lang", lang)
	html.CreateText("\n")

	head := html.CreateElement("head")
	head.SetTail("\n")
	head.CreateText("\n")
	line := func(el *etree.Element) *etree.Element {
		el.SetTail("\n")
		return el
	}

	meta := line(head.CreateElement("meta"))
	meta.CreateAttr("charset", "UTF-8")
	meta = line(head.CreateElement("meta"))
	meta.CreateAttr("name", "viewport")
	meta.CreateAttr("content", "width=device-width")
	line(head.CreateElement("title")).SetText(title)
	if fontURL != "" {
		link := line(head.CreateElement("link"))
		link.CreateAttr("rel", "stylesheet")
		link.CreateAttr("href", fontURL)
	}
	line(head.CreateElement("style")).SetText(css)
	if customCSS != "" {
		link := line(head.CreateElement("link"))
		link.CreateAttr("rel", "stylesheet")
		link.CreateAttr("href", customCSS)
	}

	body := html.CreateElement("body")
	body.SetTail("\n")
	body.CreateText("\n")
	body.AddChild(content)
	content.SetTail("\n")

	closeEmpty(&doc.Element)
	return doc
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true, "track": true, "wbr": true,
}

// closeEmpty makes sure non-void elements are serialized with explicit end
// tag, HTML parsers do not understand self-closing <div/>.
func closeEmpty(el *etree.Element) {
	for _, child := range el.ChildElements() {
		if len(child.Child) == 0 && !voidElements[child.Tag] {
			child.CreateText("")
			continue
		}
		closeEmpty(child)
	}
}

type pageGeometry struct {
	Width, Height            string
	Top, Right, Bottom, Left string
}

type cssParams struct {
	ContainerWidth int
	TOCLevels      []int
	Page           *pageGeometry
}

// marginPoints returns declared margin, explicit zero included.
func marginPoints(d *gdoc.Dimension) float64 {
	if d == nil || d.Magnitude == nil {
		return defaultMarginPt
	}
	return *d.Magnitude
}

// containerWidth is usable page width in pixels plus padding.
func containerWidth(ds *gdoc.DocumentStyle) int {
	width := defaultContainerWidth
	if ds.PageSize != nil {
		if pw, ok := ds.PageSize.Width.Points(); ok {
			if usable := pw - marginPoints(ds.MarginLeft) - marginPoints(ds.MarginRight); usable > 0 {
				width = gdoc.PointsToPixels(usable)
			}
		}
	}
	return width + containerPadding
}

func pageSize(ds *gdoc.DocumentStyle) *pageGeometry {
	if ds.PageSize == nil {
		return nil
	}
	w, wok := ds.PageSize.Width.Points()
	h, hok := ds.PageSize.Height.Points()
	if !wok || !hok {
		return nil
	}
	inches := func(pt float64) string {
		return formatNumber(pt / pointsPerInch)
	}
	return &pageGeometry{
		Width:  inches(w),
		Height: inches(h),
		Top:    inches(marginPoints(ds.MarginTop)),
		Right:  inches(marginPoints(ds.MarginRight)),
		Bottom: inches(marginPoints(ds.MarginBottom)),
		Left:   inches(marginPoints(ds.MarginLeft)),
	}
}

func globalCSS(ds *gdoc.DocumentStyle) (string, error) {
	params := cssParams{
		ContainerWidth: containerWidth(ds),
		Page:           pageSize(ds),
	}
	for lvl := 1; lvl <= maxTOCLevel; lvl++ {
		params.TOCLevels = append(params.TOCLevels, lvl)
	}
	var buf bytes.Buffer
	if err := cssTemplate.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("unable to prepare document stylesheet: %w", err)
	}
	return buf.String(), nil
}
