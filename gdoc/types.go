package gdoc

import (
	"math"
	"strconv"
	"strings"
)

// Type definitions for the subset of Google Docs API v1 document resource we
// render. Optional scalars are pointers so an explicitly present false or zero
// can be told apart from an absent field.

// PixelsPerPoint converts document lengths (points) to CSS pixels (96/72).
const PixelsPerPoint = 1.3333

// PointsToPixels converts points to whole CSS pixels.
func PointsToPixels(pt float64) int {
	return int(math.Round(pt * PixelsPerPoint))
}

// StyleType is a named style tag, e.g. "TITLE" or "HEADING_2".
type StyleType string

const (
	StyleNormalText StyleType = "NORMAL_TEXT"
	StyleTitle      StyleType = "TITLE"
	StyleSubtitle   StyleType = "SUBTITLE"
	StyleHeading1   StyleType = "HEADING_1"
	StyleHeading2   StyleType = "HEADING_2"
	StyleHeading3   StyleType = "HEADING_3"
	StyleHeading4   StyleType = "HEADING_4"
	StyleHeading5   StyleType = "HEADING_5"
	StyleHeading6   StyleType = "HEADING_6"
)

// HeadingLevel returns 1-6 for HEADING_N style types and 0 for anything else.
func (s StyleType) HeadingLevel() int {
	rest, ok := strings.CutPrefix(string(s), "HEADING_")
	if !ok {
		return 0
	}
	lvl, err := strconv.Atoi(rest)
	if err != nil || lvl < 1 || lvl > 6 {
		return 0
	}
	return lvl
}

// OrDefault returns NORMAL_TEXT for an unset style type.
func (s StyleType) OrDefault() StyleType {
	if s == "" {
		return StyleNormalText
	}
	return s
}

type Alignment string

const (
	AlignStart     Alignment = "START"
	AlignCenter    Alignment = "CENTER"
	AlignEnd       Alignment = "END"
	AlignJustified Alignment = "JUSTIFIED"
)

type Direction string

const (
	DirectionLTR Direction = "LEFT_TO_RIGHT"
	DirectionRTL Direction = "RIGHT_TO_LEFT"
)

type BaselineOffset string

const (
	BaselineNone        BaselineOffset = "NONE"
	BaselineSuperscript BaselineOffset = "SUPERSCRIPT"
	BaselineSubscript   BaselineOffset = "SUBSCRIPT"
)

type Unit string

const UnitPt Unit = "PT"

// Dimension is a length. Docs API always reports points.
type Dimension struct {
	Magnitude *float64 `json:"magnitude,omitempty"`
	Unit      Unit     `json:"unit,omitempty"`
}

// Points returns the magnitude when it is set and non-zero.
func (d *Dimension) Points() (float64, bool) {
	if d == nil || d.Magnitude == nil || *d.Magnitude == 0 {
		return 0, false
	}
	return *d.Magnitude, true
}

type Size struct {
	Width  *Dimension `json:"width,omitempty"`
	Height *Dimension `json:"height,omitempty"`
}

type RGBColor struct {
	Red   *float64 `json:"red,omitempty"`
	Green *float64 `json:"green,omitempty"`
	Blue  *float64 `json:"blue,omitempty"`
}

type Color struct {
	RGBColor *RGBColor `json:"rgbColor,omitempty"`
}

// OptionalColor with no color set means transparent.
type OptionalColor struct {
	Color *Color `json:"color,omitempty"`
}

// RGB returns the color as #rrggbb, missing components are zero. Color
// without any component set is treated as not specified.
func (c *OptionalColor) RGB() (string, bool) {
	if c == nil || c.Color == nil || c.Color.RGBColor == nil {
		return "", false
	}
	rgb := c.Color.RGBColor
	if rgb.Red == nil && rgb.Green == nil && rgb.Blue == nil {
		return "", false
	}
	comp := func(v *float64) int {
		if v == nil {
			return 0
		}
		return int(math.Round(*v * 255))
	}
	var b strings.Builder
	b.WriteByte('#')
	for _, v := range [...]int{comp(rgb.Red), comp(rgb.Green), comp(rgb.Blue)} {
		s := strconv.FormatInt(int64(min(max(v, 0), 255)), 16)
		if len(s) == 1 {
			b.WriteByte('0')
		}
		b.WriteString(s)
	}
	return b.String(), true
}

type WeightedFontFamily struct {
	FontFamily string `json:"fontFamily,omitempty"`
	Weight     int    `json:"weight,omitempty"`
}

// HeadingLink is the tab-aware form of a heading reference.
type HeadingLink struct {
	ID    string `json:"id,omitempty"`
	TabID string `json:"tabId,omitempty"`
}

type Link struct {
	URL        string       `json:"url,omitempty"`
	HeadingID  string       `json:"headingId,omitempty"`
	BookmarkID string       `json:"bookmarkId,omitempty"`
	Heading    *HeadingLink `json:"heading,omitempty"`
}

// TargetHeadingID returns referenced heading id, if any.
func (l *Link) TargetHeadingID() string {
	if l == nil {
		return ""
	}
	if l.HeadingID != "" {
		return l.HeadingID
	}
	if l.Heading != nil {
		return l.Heading.ID
	}
	return ""
}

type TextStyle struct {
	Bold               *bool               `json:"bold,omitempty"`
	Italic             *bool               `json:"italic,omitempty"`
	Underline          *bool               `json:"underline,omitempty"`
	Strikethrough      *bool               `json:"strikethrough,omitempty"`
	BaselineOffset     BaselineOffset      `json:"baselineOffset,omitempty"`
	FontSize           *Dimension          `json:"fontSize,omitempty"`
	WeightedFontFamily *WeightedFontFamily `json:"weightedFontFamily,omitempty"`
	ForegroundColor    *OptionalColor      `json:"foregroundColor,omitempty"`
	BackgroundColor    *OptionalColor      `json:"backgroundColor,omitempty"`
	Link               *Link               `json:"link,omitempty"`
}

// FontFamily returns font family name or empty string.
func (ts *TextStyle) FontFamily() string {
	if ts == nil || ts.WeightedFontFamily == nil {
		return ""
	}
	return ts.WeightedFontFamily.FontFamily
}

type ParagraphStyle struct {
	HeadingID       string     `json:"headingId,omitempty"`
	NamedStyleType  StyleType  `json:"namedStyleType,omitempty"`
	Alignment       Alignment  `json:"alignment,omitempty"`
	LineSpacing     *float64   `json:"lineSpacing,omitempty"`
	Direction       Direction  `json:"direction,omitempty"`
	SpaceAbove      *Dimension `json:"spaceAbove,omitempty"`
	SpaceBelow      *Dimension `json:"spaceBelow,omitempty"`
	IndentFirstLine *Dimension `json:"indentFirstLine,omitempty"`
	IndentStart     *Dimension `json:"indentStart,omitempty"`
	IndentEnd       *Dimension `json:"indentEnd,omitempty"`
}

// RTL reports right-to-left paragraph direction.
func (ps *ParagraphStyle) RTL() bool {
	return ps != nil && ps.Direction == DirectionRTL
}

type NamedStyle struct {
	NamedStyleType StyleType      `json:"namedStyleType"`
	TextStyle      TextStyle      `json:"textStyle"`
	ParagraphStyle ParagraphStyle `json:"paragraphStyle"`
}

type NamedStyles struct {
	Styles []NamedStyle `json:"styles,omitempty"`
}

// ParagraphElementKind distinguishes inline content of a paragraph.
type ParagraphElementKind string

const (
	ElementTextRun      ParagraphElementKind = "text-run"
	ElementInlineObject ParagraphElementKind = "inline-object"
	ElementOther        ParagraphElementKind = "other"
)

type TextRun struct {
	Content   string    `json:"content"`
	TextStyle TextStyle `json:"textStyle"`
}

type InlineObjectElement struct {
	InlineObjectID string    `json:"inlineObjectId"`
	TextStyle      TextStyle `json:"textStyle"`
}

// ParagraphElement is a tagged union, exactly one of the variant pointers is
// set for supported kinds. Everything else (page breaks, footnote references,
// auto text, ...) decodes to ElementOther.
type ParagraphElement struct {
	StartIndex          int                  `json:"startIndex,omitempty"`
	EndIndex            int                  `json:"endIndex,omitempty"`
	TextRun             *TextRun             `json:"textRun,omitempty"`
	InlineObjectElement *InlineObjectElement `json:"inlineObjectElement,omitempty"`
}

func (pe *ParagraphElement) Kind() ParagraphElementKind {
	switch {
	case pe.TextRun != nil:
		return ElementTextRun
	case pe.InlineObjectElement != nil:
		return ElementInlineObject
	default:
		return ElementOther
	}
}

type Bullet struct {
	ListID       string    `json:"listId"`
	NestingLevel int       `json:"nestingLevel,omitempty"`
	TextStyle    TextStyle `json:"textStyle"`
}

type Paragraph struct {
	Elements       []ParagraphElement `json:"elements,omitempty"`
	ParagraphStyle ParagraphStyle     `json:"paragraphStyle"`
	Bullet         *Bullet            `json:"bullet,omitempty"`
}

// PlainText concatenates all text runs.
func (p *Paragraph) PlainText() string {
	var b strings.Builder
	for i := range p.Elements {
		if tr := p.Elements[i].TextRun; tr != nil {
			b.WriteString(tr.Content)
		}
	}
	return b.String()
}

type TableCellStyle struct {
	RowSpan          int            `json:"rowSpan,omitempty"`
	ColumnSpan       int            `json:"columnSpan,omitempty"`
	BackgroundColor  *OptionalColor `json:"backgroundColor,omitempty"`
	ContentAlignment string         `json:"contentAlignment,omitempty"`
}

type TableCell struct {
	Content        []Block        `json:"content,omitempty"`
	TableCellStyle TableCellStyle `json:"tableCellStyle"`
}

type TableRow struct {
	TableCells []TableCell `json:"tableCells,omitempty"`
}

type Table struct {
	Rows      int        `json:"rows,omitempty"`
	Columns   int        `json:"columns,omitempty"`
	TableRows []TableRow `json:"tableRows,omitempty"`
}

type TableOfContents struct {
	Content []Block `json:"content,omitempty"`
}

type SectionBreak struct {
	SectionStyle *struct {
		SectionType string `json:"sectionType,omitempty"`
	} `json:"sectionStyle,omitempty"`
}

// BlockKind distinguishes the structural elements of a document body.
type BlockKind string

const (
	BlockParagraph       BlockKind = "paragraph"
	BlockTable           BlockKind = "table"
	BlockSectionBreak    BlockKind = "section-break"
	BlockTableOfContents BlockKind = "table-of-contents"
	BlockUnknown         BlockKind = "unknown"
)

// Block is a structural element of the body, a tagged union.
type Block struct {
	StartIndex      int              `json:"startIndex,omitempty"`
	EndIndex        int              `json:"endIndex,omitempty"`
	Paragraph       *Paragraph       `json:"paragraph,omitempty"`
	Table           *Table           `json:"table,omitempty"`
	SectionBreak    *SectionBreak    `json:"sectionBreak,omitempty"`
	TableOfContents *TableOfContents `json:"tableOfContents,omitempty"`
}

func (b *Block) Kind() BlockKind {
	switch {
	case b.Paragraph != nil:
		return BlockParagraph
	case b.Table != nil:
		return BlockTable
	case b.SectionBreak != nil:
		return BlockSectionBreak
	case b.TableOfContents != nil:
		return BlockTableOfContents
	default:
		return BlockUnknown
	}
}

type Body struct {
	Content []Block `json:"content,omitempty"`
}

type GlyphType string

const (
	GlyphUnspecified GlyphType = "GLYPH_TYPE_UNSPECIFIED"
	GlyphNone        GlyphType = "NONE"
	GlyphDecimal     GlyphType = "DECIMAL"
	GlyphZeroDecimal GlyphType = "ZERO_DECIMAL"
	GlyphUpperAlpha  GlyphType = "UPPER_ALPHA"
	GlyphAlpha       GlyphType = "ALPHA"
	GlyphUpperRoman  GlyphType = "UPPER_ROMAN"
	GlyphRoman       GlyphType = "ROMAN"
)

type NestingLevel struct {
	GlyphType   GlyphType `json:"glyphType,omitempty"`
	GlyphSymbol string    `json:"glyphSymbol,omitempty"`
	GlyphFormat string    `json:"glyphFormat,omitempty"`
	StartNumber int       `json:"startNumber,omitempty"`
}

// Ordered reports whether the level is rendered with numbers or letters.
// Levels with a glyph symbol are always bulleted.
func (nl *NestingLevel) Ordered() bool {
	if nl.GlyphSymbol != "" {
		return false
	}
	switch nl.GlyphType {
	case GlyphDecimal, GlyphZeroDecimal, GlyphUpperAlpha, GlyphAlpha, GlyphUpperRoman, GlyphRoman:
		return true
	}
	return strings.Contains(strings.ToUpper(string(nl.GlyphType)), "NUMBER")
}

type ListProperties struct {
	NestingLevels []NestingLevel `json:"nestingLevels,omitempty"`
}

type List struct {
	ListProperties ListProperties `json:"listProperties"`
}

// Level returns nesting level definition or nil when out of range.
func (l *List) Level(n int) *NestingLevel {
	if l == nil || n < 0 || n >= len(l.ListProperties.NestingLevels) {
		return nil
	}
	return &l.ListProperties.NestingLevels[n]
}

type ImageProperties struct {
	ContentURI string `json:"contentUri,omitempty"`
	SourceURI  string `json:"sourceUri,omitempty"`
}

// Transform is not part of the inline object schema proper, some exports
// carry it and we honor the scale factors when present.
type Transform struct {
	ScaleX *float64 `json:"scaleX,omitempty"`
	ScaleY *float64 `json:"scaleY,omitempty"`
}

type EmbeddedObject struct {
	Title           string           `json:"title,omitempty"`
	Description     string           `json:"description,omitempty"`
	ImageProperties *ImageProperties `json:"imageProperties,omitempty"`
	Size            *Size            `json:"size,omitempty"`
	Transform       *Transform       `json:"transform,omitempty"`
}

type InlineObjectProperties struct {
	EmbeddedObject *EmbeddedObject `json:"embeddedObject,omitempty"`
}

type InlineObject struct {
	ObjectID               string                 `json:"objectId"`
	InlineObjectProperties InlineObjectProperties `json:"inlineObjectProperties"`
}

// ContentURI returns image content location or empty string when object is
// not an image.
func (o *InlineObject) ContentURI() string {
	eo := o.InlineObjectProperties.EmbeddedObject
	if eo == nil || eo.ImageProperties == nil {
		return ""
	}
	return eo.ImageProperties.ContentURI
}

// AltText returns title or description of embedded object.
func (o *InlineObject) AltText() string {
	eo := o.InlineObjectProperties.EmbeddedObject
	if eo == nil {
		return ""
	}
	if eo.Title != "" {
		return eo.Title
	}
	return eo.Description
}

// DisplaySize returns rendered size in pixels: declared size in points
// multiplied by scale factors.
func (o *InlineObject) DisplaySize() (int, int, bool) {
	eo := o.InlineObjectProperties.EmbeddedObject
	if eo == nil || eo.Size == nil {
		return 0, 0, false
	}
	w, wok := eo.Size.Width.Points()
	h, hok := eo.Size.Height.Points()
	if !wok || !hok {
		return 0, 0, false
	}
	sx, sy := 1.0, 1.0
	if eo.Transform != nil {
		if eo.Transform.ScaleX != nil {
			sx = *eo.Transform.ScaleX
		}
		if eo.Transform.ScaleY != nil {
			sy = *eo.Transform.ScaleY
		}
	}
	return int(math.Round(w * PixelsPerPoint * sx)), int(math.Round(h * PixelsPerPoint * sy)), true
}

type DocumentStyle struct {
	PageSize     *Size      `json:"pageSize,omitempty"`
	MarginTop    *Dimension `json:"marginTop,omitempty"`
	MarginBottom *Dimension `json:"marginBottom,omitempty"`
	MarginLeft   *Dimension `json:"marginLeft,omitempty"`
	MarginRight  *Dimension `json:"marginRight,omitempty"`
}

// Document is the root of a fetched document. It is never modified after
// decoding.
type Document struct {
	DocumentID    string                  `json:"documentId"`
	Title         string                  `json:"title"`
	RevisionID    string                  `json:"revisionId,omitempty"`
	Body          Body                    `json:"body"`
	DocumentStyle DocumentStyle           `json:"documentStyle"`
	NamedStyles   NamedStyles             `json:"namedStyles"`
	Lists         map[string]List         `json:"lists,omitempty"`
	InlineObjects map[string]InlineObject `json:"inlineObjects,omitempty"`
}

// NamedStyle returns document-wide default for the style type or nil.
func (d *Document) NamedStyle(t StyleType) *NamedStyle {
	for i := range d.NamedStyles.Styles {
		if d.NamedStyles.Styles[i].NamedStyleType == t {
			return &d.NamedStyles.Styles[i]
		}
	}
	return nil
}

// List returns list definition by id or nil.
func (d *Document) List(id string) *List {
	l, ok := d.Lists[id]
	if !ok {
		return nil
	}
	return &l
}

// InlineObject returns inline object by id or nil.
func (d *Document) InlineObject(id string) *InlineObject {
	o, ok := d.InlineObjects[id]
	if !ok {
		return nil
	}
	return &o
}
