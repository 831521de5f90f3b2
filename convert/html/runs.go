package html

import (
	"strings"

	"gdc/gdoc"
)

type unitKind int

const (
	unitText unitKind = iota
	unitImage
)

// emissionUnit is either merged text with its effective style or a
// standalone image reference.
type emissionUnit struct {
	kind     unitKind
	text     string
	style    gdoc.TextStyle
	objectID string
}

// coalesce merges adjacent text runs which render identically. Images are
// emitted standalone and always terminate merging. Elements of other kinds
// carry nothing to render and are skipped without affecting the accumulator.
// resolve maps run text style to effective one.
func coalesce(elements []gdoc.ParagraphElement, resolve func(*gdoc.TextStyle) gdoc.TextStyle) []emissionUnit {
	var (
		units = make([]emissionUnit, 0, len(elements))
		acc   strings.Builder
		open  bool
	)
	flush := func() {
		if open {
			units[len(units)-1].text = acc.String()
			acc.Reset()
			open = false
		}
	}

	for i := range elements {
		el := &elements[i]
		switch el.Kind() {
		case gdoc.ElementInlineObject:
			flush()
			units = append(units, emissionUnit{kind: unitImage, objectID: el.InlineObjectElement.InlineObjectID})
		case gdoc.ElementTextRun:
			style := resolve(&el.TextRun.TextStyle)
			if open && units[len(units)-1].style.SameAppearance(&style) {
				acc.WriteString(el.TextRun.Content)
				continue
			}
			flush()
			units = append(units, emissionUnit{kind: unitText, style: style})
			acc.WriteString(el.TextRun.Content)
			open = true
		case gdoc.ElementOther:
		}
	}
	flush()
	return units
}
