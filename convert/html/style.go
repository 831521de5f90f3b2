package html

import (
	"strconv"
	"strings"

	"gdc/gdoc"
)

// styleSheet holds document-wide named styles keyed by style type.
type styleSheet struct {
	named map[gdoc.StyleType]*gdoc.NamedStyle
}

func newStyleSheet(doc *gdoc.Document) *styleSheet {
	s := &styleSheet{named: make(map[gdoc.StyleType]*gdoc.NamedStyle, len(doc.NamedStyles.Styles))}
	for i := range doc.NamedStyles.Styles {
		ns := &doc.NamedStyles.Styles[i]
		if _, exists := s.named[ns.NamedStyleType]; exists {
			continue
		}
		s.named[ns.NamedStyleType] = ns
	}
	return s
}

// resolveParagraphStyle layers override on top of the named style for t.
// Missing named style is an empty baseline.
func (s *styleSheet) resolveParagraphStyle(t gdoc.StyleType, over *gdoc.ParagraphStyle) gdoc.ParagraphStyle {
	var base *gdoc.ParagraphStyle
	if ns, ok := s.named[t.OrDefault()]; ok {
		base = &ns.ParagraphStyle
	}
	return base.Merge(over)
}

func (s *styleSheet) resolveTextStyle(t gdoc.StyleType, over *gdoc.TextStyle) gdoc.TextStyle {
	var base *gdoc.TextStyle
	if ns, ok := s.named[t.OrDefault()]; ok {
		base = &ns.TextStyle
	}
	return base.Merge(over)
}

// physicalAlignment maps logical alignment to CSS text-align value. Under
// right-to-left direction start and end swap before mapping.
func physicalAlignment(ps *gdoc.ParagraphStyle) string {
	align := ps.Alignment
	if ps.RTL() {
		switch align {
		case gdoc.AlignStart:
			align = gdoc.AlignEnd
		case gdoc.AlignEnd:
			align = gdoc.AlignStart
		}
	}
	switch align {
	case gdoc.AlignStart:
		return "left"
	case gdoc.AlignCenter:
		return "center"
	case gdoc.AlignEnd:
		return "right"
	case gdoc.AlignJustified:
		return "justify"
	default:
		return ""
	}
}

type blockTag struct {
	name  string
	class string
}

// elementForStyleType selects markup element for a paragraph style type.
func elementForStyleType(t gdoc.StyleType) blockTag {
	switch t {
	case gdoc.StyleTitle:
		return blockTag{name: "h1", class: "title"}
	case gdoc.StyleSubtitle:
		return blockTag{name: "h2", class: "subtitle"}
	}
	if lvl := t.HeadingLevel(); lvl > 0 {
		return blockTag{name: "h" + strconv.Itoa(lvl)}
	}
	return blockTag{name: "p"}
}

func anchorID(headingID string) string {
	return "heading-" + headingID
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writePixels(b *strings.Builder, prop string, d *gdoc.Dimension) {
	if pt, ok := d.Points(); ok {
		b.WriteString(prop)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(gdoc.PointsToPixels(pt)))
		b.WriteString("px;")
	}
}

// paragraphCSS produces inline style for resolved paragraph style. Zero and
// absent values produce nothing.
func paragraphCSS(ps *gdoc.ParagraphStyle) string {
	var b strings.Builder
	if align := physicalAlignment(ps); align != "" {
		b.WriteString("text-align:" + align + ";")
	}
	if ps.LineSpacing != nil && *ps.LineSpacing != 0 {
		// browsers default to about 1.2, scaled for a closer match
		b.WriteString("line-height:" + formatNumber(*ps.LineSpacing*1.25/100) + ";")
	}
	writePixels(&b, "margin-top", ps.SpaceAbove)
	writePixels(&b, "margin-bottom", ps.SpaceBelow)
	if _, ok := ps.IndentFirstLine.Points(); ok {
		writePixels(&b, "text-indent", ps.IndentFirstLine)
	} else if ps.RTL() {
		writePixels(&b, "margin-right", ps.IndentStart)
	} else {
		writePixels(&b, "margin-left", ps.IndentStart)
	}
	return b.String()
}

func isSet(v *bool) bool {
	return v != nil && *v
}

// textClasses lists presentation classes for resolved text style.
func textClasses(ts *gdoc.TextStyle) []string {
	var classes []string
	if isSet(ts.Bold) {
		classes = append(classes, "bold")
	}
	if isSet(ts.Italic) {
		classes = append(classes, "italic")
	}
	if isSet(ts.Underline) {
		classes = append(classes, "underline")
	}
	if isSet(ts.Strikethrough) {
		classes = append(classes, "strikethrough")
	}
	switch ts.BaselineOffset {
	case gdoc.BaselineSuperscript:
		classes = append(classes, "superscript")
	case gdoc.BaselineSubscript:
		classes = append(classes, "subscript")
	}
	return classes
}

// textCSS produces inline style for resolved text style.
func textCSS(ts *gdoc.TextStyle) string {
	var b strings.Builder
	if pt, ok := ts.FontSize.Points(); ok {
		b.WriteString("font-size:" + formatNumber(pt) + "pt;")
	}
	if fam := ts.FontFamily(); fam != "" {
		b.WriteString("font-family:'" + fam + "', sans-serif;")
	}
	if color, ok := ts.ForegroundColor.RGB(); ok {
		b.WriteString("color:" + color + ";")
	}
	return b.String()
}

// linkHref returns link target, heading reference wins over URL. Bookmarks
// are not rendered as links.
func linkHref(l *gdoc.Link) string {
	if l == nil {
		return ""
	}
	if id := l.TargetHeadingID(); id != "" {
		return "#" + anchorID(id)
	}
	return l.URL
}
