package debug

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/maruel/natural"
)

// TreeWriter accumulates indented dump of nested structures.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	tw.w.WriteString(strings.Repeat("  ", max(depth, 0)))
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes label with quoted text value, empty values are left bare.
func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Flags writes label followed by names of set flags, nothing when no flag is
// set.
func (tw TreeWriter) Flags(depth int, label string, flags map[string]bool) {
	var set []string
	for _, name := range SortedKeys(flags) {
		if flags[name] {
			set = append(set, name)
		}
	}
	if len(set) == 0 {
		return
	}
	tw.Line(depth, "%s: %s", label, strings.Join(set, ","))
}

// SortedKeys returns map keys in natural order so dumps are stable and
// "item10" follows "item9".
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case natural.Less(a, b):
			return -1
		default:
			return 1
		}
	})
	return keys
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
