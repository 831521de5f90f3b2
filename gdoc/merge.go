package gdoc

// Layered style merge. The override (closer to the element) wins for every
// field it sets, structured groups are merged field by field unless override
// supplies an explicitly empty group, which replaces baseline wholesale.
// Absent fields never clear baseline values. Inputs are never modified, all
// results are freshly allocated.

func pick[T any](base, over *T) *T {
	if over != nil {
		return clonePtr(over)
	}
	return clonePtr(base)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func pickValue[T comparable](base, over T) T {
	var zero T
	if over != zero {
		return over
	}
	return base
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (d *Dimension) empty() bool {
	return d.Magnitude == nil && d.Unit == ""
}

func (d *Dimension) clone() *Dimension {
	if d == nil {
		return nil
	}
	return &Dimension{Magnitude: clonePtr(d.Magnitude), Unit: d.Unit}
}

func mergeDimension(base, over *Dimension) *Dimension {
	switch {
	case over == nil:
		return base.clone()
	case base == nil || over.empty():
		return over.clone()
	}
	return &Dimension{
		Magnitude: pick(base.Magnitude, over.Magnitude),
		Unit:      pickValue(base.Unit, over.Unit),
	}
}

// Equal compares dimensions structurally.
func (d *Dimension) Equal(o *Dimension) bool {
	if d == nil || o == nil {
		return d == o
	}
	return ptrEqual(d.Magnitude, o.Magnitude) && d.Unit == o.Unit
}

func mergeFontFamily(base, over *WeightedFontFamily) *WeightedFontFamily {
	switch {
	case over == nil && base == nil:
		return nil
	case over == nil:
		v := *base
		return &v
	case base == nil || *over == (WeightedFontFamily{}):
		v := *over
		return &v
	}
	return &WeightedFontFamily{
		FontFamily: pickValue(base.FontFamily, over.FontFamily),
		Weight:     pickValue(base.Weight, over.Weight),
	}
}

func (c *RGBColor) clone() *RGBColor {
	if c == nil {
		return nil
	}
	return &RGBColor{Red: clonePtr(c.Red), Green: clonePtr(c.Green), Blue: clonePtr(c.Blue)}
}

func mergeRGB(base, over *RGBColor) *RGBColor {
	switch {
	case over == nil:
		return base.clone()
	case base == nil || (over.Red == nil && over.Green == nil && over.Blue == nil):
		return over.clone()
	}
	return &RGBColor{
		Red:   pick(base.Red, over.Red),
		Green: pick(base.Green, over.Green),
		Blue:  pick(base.Blue, over.Blue),
	}
}

func (c *OptionalColor) clone() *OptionalColor {
	if c == nil {
		return nil
	}
	res := &OptionalColor{}
	if c.Color != nil {
		res.Color = &Color{RGBColor: c.Color.RGBColor.clone()}
	}
	return res
}

func mergeColor(base, over *OptionalColor) *OptionalColor {
	switch {
	case over == nil:
		return base.clone()
	case base == nil || base.Color == nil || over.Color == nil || over.Color.RGBColor == nil:
		// explicitly empty color means "transparent", replaces baseline
		return over.clone()
	}
	return &OptionalColor{Color: &Color{RGBColor: mergeRGB(base.Color.RGBColor, over.Color.RGBColor)}}
}

// Equal compares colors structurally, absent components are not equal to
// explicit zero.
func (c *OptionalColor) Equal(o *OptionalColor) bool {
	if c == nil || o == nil {
		return c == o
	}
	if c.Color == nil || o.Color == nil {
		return c.Color == o.Color
	}
	a, b := c.Color.RGBColor, o.Color.RGBColor
	if a == nil || b == nil {
		return a == b
	}
	return ptrEqual(a.Red, b.Red) && ptrEqual(a.Green, b.Green) && ptrEqual(a.Blue, b.Blue)
}

func (l *Link) clone() *Link {
	if l == nil {
		return nil
	}
	res := *l
	if l.Heading != nil {
		h := *l.Heading
		res.Heading = &h
	}
	return &res
}

func (l *Link) empty() bool {
	return l.URL == "" && l.HeadingID == "" && l.BookmarkID == "" && l.Heading == nil
}

func mergeLink(base, over *Link) *Link {
	switch {
	case over == nil:
		return base.clone()
	case base == nil || over.empty():
		return over.clone()
	}
	return &Link{
		URL:        pickValue(base.URL, over.URL),
		HeadingID:  pickValue(base.HeadingID, over.HeadingID),
		BookmarkID: pickValue(base.BookmarkID, over.BookmarkID),
		Heading:    pick(base.Heading, over.Heading),
	}
}

// Equal compares link targets.
func (l *Link) Equal(o *Link) bool {
	if l == nil || o == nil {
		return l == o
	}
	return l.URL == o.URL && l.HeadingID == o.HeadingID && l.BookmarkID == o.BookmarkID && ptrEqual(l.Heading, o.Heading)
}

// Merge returns text style with override applied on top of ts. Nil receiver
// is an empty baseline.
func (ts *TextStyle) Merge(over *TextStyle) TextStyle {
	var base TextStyle
	if ts != nil {
		base = *ts
	}
	if over == nil {
		over = &TextStyle{}
	}
	return TextStyle{
		Bold:               pick(base.Bold, over.Bold),
		Italic:             pick(base.Italic, over.Italic),
		Underline:          pick(base.Underline, over.Underline),
		Strikethrough:      pick(base.Strikethrough, over.Strikethrough),
		BaselineOffset:     pickValue(base.BaselineOffset, over.BaselineOffset),
		FontSize:           mergeDimension(base.FontSize, over.FontSize),
		WeightedFontFamily: mergeFontFamily(base.WeightedFontFamily, over.WeightedFontFamily),
		ForegroundColor:    mergeColor(base.ForegroundColor, over.ForegroundColor),
		BackgroundColor:    mergeColor(base.BackgroundColor, over.BackgroundColor),
		Link:               mergeLink(base.Link, over.Link),
	}
}

// Merge returns paragraph style with override applied on top of ps. Nil
// receiver is an empty baseline.
func (ps *ParagraphStyle) Merge(over *ParagraphStyle) ParagraphStyle {
	var base ParagraphStyle
	if ps != nil {
		base = *ps
	}
	if over == nil {
		over = &ParagraphStyle{}
	}
	return ParagraphStyle{
		HeadingID:       pickValue(base.HeadingID, over.HeadingID),
		NamedStyleType:  pickValue(base.NamedStyleType, over.NamedStyleType),
		Alignment:       pickValue(base.Alignment, over.Alignment),
		LineSpacing:     pick(base.LineSpacing, over.LineSpacing),
		Direction:       pickValue(base.Direction, over.Direction),
		SpaceAbove:      mergeDimension(base.SpaceAbove, over.SpaceAbove),
		SpaceBelow:      mergeDimension(base.SpaceBelow, over.SpaceBelow),
		IndentFirstLine: mergeDimension(base.IndentFirstLine, over.IndentFirstLine),
		IndentStart:     mergeDimension(base.IndentStart, over.IndentStart),
		IndentEnd:       mergeDimension(base.IndentEnd, over.IndentEnd),
	}
}

// SameAppearance reports whether two effective text styles render the same,
// comparing bold, italic, underline, strikethrough, baseline offset, font
// size, font family, foreground color and link. Other fields are ignored.
func (ts *TextStyle) SameAppearance(o *TextStyle) bool {
	return ptrEqual(ts.Bold, o.Bold) &&
		ptrEqual(ts.Italic, o.Italic) &&
		ptrEqual(ts.Underline, o.Underline) &&
		ptrEqual(ts.Strikethrough, o.Strikethrough) &&
		ts.BaselineOffset == o.BaselineOffset &&
		ts.FontSize.Equal(o.FontSize) &&
		ptrEqual(ts.WeightedFontFamily, o.WeightedFontFamily) &&
		ts.ForegroundColor.Equal(o.ForegroundColor) &&
		ts.Link.Equal(o.Link)
}
