package content

import (
	"gdc/utils/debug"
)

// String returns a readable tree of the whole Content starting with parsed
// document. It exists solely for manual inspection during debugging.
func (c *Content) String() string {
	if c == nil {
		return "<nil Content>"
	}

	out := c.Doc.String()

	if len(c.Headings) > 0 {
		tw := debug.NewTreeWriter()
		tw.Line(0, "Headings index: %d", len(c.Headings))
		for _, id := range debug.SortedKeys(c.Headings) {
			tw.Line(1, "Heading[%q] style[%s] level[%d]", id, c.Headings[id], c.Headings.Level(id))
		}
		out += "\n" + tw.String()
	}

	if len(c.Images) > 0 {
		tw := debug.NewTreeWriter()
		tw.Line(0, "Images referenced: %d", len(c.Images))
		for i, id := range c.Images {
			obj := c.Doc.InlineObject(id)
			if obj == nil {
				tw.Line(1, "Image[%d] id[%q] <undefined>", i, id)
				continue
			}
			w, h, _ := obj.DisplaySize()
			tw.Line(1, "Image[%d] id[%q] alt[%q] display[%dx%d]", i, id, obj.AltText(), w, h)
		}
		out += "\n" + tw.String()
	}
	return out
}
