package gdoc

// HeadingIndex maps heading anchor ids to the style type of the paragraph
// declaring them. Only top level body paragraphs are indexed, first
// declaration wins.
type HeadingIndex map[string]StyleType

// BuildHeadingIndex scans document body once.
func BuildHeadingIndex(doc *Document) HeadingIndex {
	idx := make(HeadingIndex)
	for i := range doc.Body.Content {
		p := doc.Body.Content[i].Paragraph
		if p == nil || p.ParagraphStyle.HeadingID == "" {
			continue
		}
		if _, exists := idx[p.ParagraphStyle.HeadingID]; exists {
			continue
		}
		idx[p.ParagraphStyle.HeadingID] = p.ParagraphStyle.NamedStyleType
	}
	return idx
}

// Level returns heading level (1-6) of anchor or 0 when anchor is unknown or
// does not point to HEADING_N paragraph.
func (hi HeadingIndex) Level(id string) int {
	st, ok := hi[id]
	if !ok {
		return 0
	}
	return st.HeadingLevel()
}

// InlineObjectIDs returns ids of all inline objects referenced from the
// body, including table cells and table of contents, in document order
// without duplicates.
func InlineObjectIDs(doc *Document) []string {
	var (
		ids  []string
		seen = make(map[string]struct{})
		walk func(blocks []Block)
	)
	walk = func(blocks []Block) {
		for i := range blocks {
			b := &blocks[i]
			switch b.Kind() {
			case BlockParagraph:
				for j := range b.Paragraph.Elements {
					el := b.Paragraph.Elements[j].InlineObjectElement
					if el == nil {
						continue
					}
					if _, ok := seen[el.InlineObjectID]; ok {
						continue
					}
					seen[el.InlineObjectID] = struct{}{}
					ids = append(ids, el.InlineObjectID)
				}
			case BlockTable:
				for _, row := range b.Table.TableRows {
					for _, cell := range row.TableCells {
						walk(cell.Content)
					}
				}
			case BlockTableOfContents:
				walk(b.TableOfContents.Content)
			}
		}
	}
	walk(doc.Body.Content)
	return ids
}
