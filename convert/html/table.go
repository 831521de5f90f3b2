package html

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"gdc/gdoc"
)

const cellBorder = "border:1px solid #ccc;"

// renderTable emits table. Every cell is a separate flow with its own list
// state. Cells covered by a row or column span of another cell are skipped.
func (r *renderer) renderTable(parent *etree.Element, t *gdoc.Table) error {
	table := parent.CreateElement("table")
	table.CreateAttr("class", "doc-table")
	table.CreateAttr("style", "border-collapse:collapse; "+cellBorder)
	table.CreateText("\n")
	table.SetTail("\n")

	covered := make(map[[2]int]struct{})
	for ri := range t.TableRows {
		tr := table.CreateElement("tr")
		tr.SetTail("\n")
		for ci := range t.TableRows[ri].TableCells {
			if _, skip := covered[[2]int{ri, ci}]; skip {
				continue
			}
			cell := &t.TableRows[ri].TableCells[ci]
			st := &cell.TableCellStyle
			rows, cols := max(st.RowSpan, 1), max(st.ColumnSpan, 1)
			for dr := range rows {
				for dc := range cols {
					if dr > 0 || dc > 0 {
						covered[[2]int{ri + dr, ci + dc}] = struct{}{}
					}
				}
			}

			td := tr.CreateElement("td")
			td.CreateAttr("style", cellCSS(st))
			if cols > 1 {
				td.CreateAttr("colspan", strconv.Itoa(cols))
			}
			if rows > 1 {
				td.CreateAttr("rowspan", strconv.Itoa(rows))
			}
			if err := r.renderFlow(td, cell.Content); err != nil {
				return err
			}
		}
	}
	return nil
}

func cellCSS(st *gdoc.TableCellStyle) string {
	var b strings.Builder
	b.WriteString(cellBorder + " padding:0.5em;")
	if color, ok := st.BackgroundColor.RGB(); ok {
		b.WriteString(" background-color:" + color + ";")
	}
	switch st.ContentAlignment {
	case "TOP":
		b.WriteString(" vertical-align:top;")
	case "MIDDLE":
		b.WriteString(" vertical-align:middle;")
	case "BOTTOM":
		b.WriteString(" vertical-align:bottom;")
	}
	return b.String()
}
