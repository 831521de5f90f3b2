package html

import (
	"strconv"

	"github.com/beevik/etree"

	"gdc/config"
	"gdc/gdoc"
)

type listKind int

const (
	listUnordered listKind = iota
	listOrdered
)

func (k listKind) tag() string {
	if k == listOrdered {
		return "ol"
	}
	return "ul"
}

func (k listKind) String() string {
	return k.tag()
}

// listScope is a single open list.
type listScope struct {
	kind  listKind
	rtl   bool
	level int
	glyph *gdoc.NestingLevel
}

func newListScope(nl *gdoc.NestingLevel, level int, rtl bool) listScope {
	sc := listScope{kind: listUnordered, rtl: rtl, level: level, glyph: nl}
	if nl.Ordered() {
		sc.kind = listOrdered
	}
	return sc
}

// listMarker is a single open or close of a list scope.
type listMarker struct {
	open  bool
	scope listScope
}

// listStack tracks open list scopes during one pass over a block sequence.
//
// In flat mode scopes are keyed by kind only: at most one list is open and a
// bullet of a different kind replaces it. In nested mode the stack mirrors
// nesting levels of the bullet, one frame per level.
type listStack struct {
	nested bool
	frames []listScope
}

func newListStack(nesting config.ListNesting) *listStack {
	return &listStack{nested: nesting == config.ListNestingNested}
}

func (s *listStack) depth() int {
	return len(s.frames)
}

func (s *listStack) push(sc listScope) listMarker {
	s.frames = append(s.frames, sc)
	return listMarker{open: true, scope: sc}
}

func (s *listStack) pop() listMarker {
	sc := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return listMarker{scope: sc}
}

// transition computes markers for the next block. chain holds scopes for
// nesting levels 0 through the bullet level; empty chain for a bulleted
// block means bullet could not be resolved and nothing changes.
func (s *listStack) transition(bulleted bool, chain []listScope) []listMarker {
	if !bulleted {
		switch {
		case len(s.frames) == 0:
			return nil
		case s.nested:
			return s.drain()
		default:
			return []listMarker{s.pop()}
		}
	}
	if len(chain) == 0 {
		return nil
	}

	if !s.nested {
		desired := chain[len(chain)-1]
		switch {
		case len(s.frames) == 0:
			return []listMarker{s.push(desired)}
		case s.frames[len(s.frames)-1].kind == desired.kind:
			return nil
		default:
			return []listMarker{s.pop(), s.push(desired)}
		}
	}

	keep := 0
	for keep < len(s.frames) && keep < len(chain) && s.frames[keep].kind == chain[keep].kind {
		keep++
	}
	var markers []listMarker
	for len(s.frames) > keep {
		markers = append(markers, s.pop())
	}
	for _, sc := range chain[keep:] {
		markers = append(markers, s.push(sc))
	}
	return markers
}

// drain closes every open scope, innermost first.
func (s *listStack) drain() []listMarker {
	markers := make([]listMarker, 0, len(s.frames))
	for len(s.frames) > 0 {
		markers = append(markers, s.pop())
	}
	return markers
}

// flowBuilder applies list markers to the output tree of a single block
// flow: document body or table cell.
type flowBuilder struct {
	root  *etree.Element
	stack *listStack
	open  []*etree.Element
}

func newFlowBuilder(root *etree.Element, nesting config.ListNesting) *flowBuilder {
	return &flowBuilder{root: root, stack: newListStack(nesting)}
}

func (f *flowBuilder) transition(bulleted bool, chain []listScope) {
	f.apply(f.stack.transition(bulleted, chain))
}

func (f *flowBuilder) drain() {
	f.apply(f.stack.drain())
}

func (f *flowBuilder) apply(markers []listMarker) {
	for _, m := range markers {
		if !m.open {
			f.open = f.open[:len(f.open)-1]
			continue
		}
		parent := f.root
		if n := len(f.open); n > 0 {
			parent = lastItem(f.open[n-1])
		}
		list := parent.CreateElement(m.scope.kind.tag())
		decorateList(list, &m.scope)
		list.CreateText("\n")
		list.SetTail("\n")
		f.open = append(f.open, list)
	}
}

// container returns element next block goes into: a fresh item of the
// innermost open list or the flow root.
func (f *flowBuilder) container() *etree.Element {
	n := len(f.open)
	if n == 0 {
		return f.root
	}
	li := f.open[n-1].CreateElement("li")
	li.SetTail("\n")
	return li
}

// lastItem returns last item of the list creating one when list is empty.
func lastItem(list *etree.Element) *etree.Element {
	items := list.SelectElements("li")
	if len(items) > 0 {
		return items[len(items)-1]
	}
	li := list.CreateElement("li")
	li.SetTail("\n")
	return li
}

func decorateList(list *etree.Element, sc *listScope) {
	if sc.kind == listOrdered && sc.glyph != nil {
		switch sc.glyph.GlyphType {
		case gdoc.GlyphAlpha:
			list.CreateAttr("type", "a")
		case gdoc.GlyphUpperAlpha:
			list.CreateAttr("type", "A")
		case gdoc.GlyphRoman:
			list.CreateAttr("type", "i")
		case gdoc.GlyphUpperRoman:
			list.CreateAttr("type", "I")
		}
		if sc.glyph.StartNumber > 1 {
			list.CreateAttr("start", strconv.Itoa(sc.glyph.StartNumber))
		}
	}
	if sc.rtl {
		list.CreateAttr("dir", "rtl")
	}
}
