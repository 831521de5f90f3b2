package css

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// cssEscapeDoubleQuoted escapes a string for use inside CSS double quotes.
func cssEscapeDoubleQuoted(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Declaration is a single property declaration. Value is kept as written,
// whitespace collapsed.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Rule is a qualified rule: grouped selectors with declarations in source
// order.
type Rule struct {
	Selectors    []string
	Declarations []Declaration
}

// Selector returns grouped selectors as written in stylesheet.
func (r *Rule) Selector() string {
	return strings.Join(r.Selectors, ", ")
}

// Get returns value of the last declaration of property, later declarations
// win as they do in browsers.
func (r *Rule) Get(property string) (string, bool) {
	for i := len(r.Declarations) - 1; i >= 0; i-- {
		if r.Declarations[i].Property == property {
			return r.Declarations[i].Value, true
		}
	}
	return "", false
}

// FontFace represents an @font-face declaration.
type FontFace struct {
	Family       string // unquoted font-family value
	Declarations []Declaration
}

// MediaBlock represents a @media block with its query and nested rules.
type MediaBlock struct {
	Query string
	Rules []Rule
}

// StylesheetItem is a single top-level item in a stylesheet.
// Exactly one of Rule, MediaBlock, FontFace or Import is non-nil.
type StylesheetItem struct {
	Rule       *Rule
	MediaBlock *MediaBlock
	FontFace   *FontFace
	Import     *string
}

// Stylesheet represents a parsed CSS stylesheet.
type Stylesheet struct {
	Items    []StylesheetItem // all top-level items in source order
	Warnings []string         // dropped or malformed content
}

// Imports returns all @import URLs from the stylesheet in source order.
func (s *Stylesheet) Imports() []string {
	var urls []string
	for _, item := range s.Items {
		if item.Import != nil {
			urls = append(urls, *item.Import)
		}
	}
	return urls
}

// FontFaces returns all @font-face declarations with non-empty family in
// source order.
func (s *Stylesheet) FontFaces() []FontFace {
	var faces []FontFace
	for _, item := range s.Items {
		if item.FontFace != nil && item.FontFace.Family != "" {
			faces = append(faces, *item.FontFace)
		}
	}
	return faces
}

var genericFamilies = map[string]bool{
	"serif": true, "sans-serif": true, "monospace": true, "cursive": true, "fantasy": true,
	"system-ui": true, "ui-serif": true, "ui-sans-serif": true, "ui-monospace": true, "ui-rounded": true,
	"math": true, "emoji": true, "fangsong": true, "inherit": true, "initial": true, "unset": true,
}

// FontFamilies returns distinct font family names referenced by font-family
// declarations which are neither generic nor defined by @font-face in the
// same stylesheet, in order of first appearance.
func (s *Stylesheet) FontFamilies() []string {
	local := make(map[string]bool)
	for _, ff := range s.FontFaces() {
		local[strings.ToLower(ff.Family)] = true
	}

	var (
		families []string
		seen     = make(map[string]bool)
	)
	collect := func(r *Rule) {
		for _, d := range r.Declarations {
			if d.Property != "font-family" {
				continue
			}
			for name := range strings.SplitSeq(d.Value, ",") {
				name = unquote(name)
				key := strings.ToLower(name)
				if name == "" || genericFamilies[key] || local[key] || seen[key] || strings.HasPrefix(key, "var(") {
					continue
				}
				seen[key] = true
				families = append(families, name)
			}
		}
	}
	for _, item := range s.Items {
		switch {
		case item.Rule != nil:
			collect(item.Rule)
		case item.MediaBlock != nil:
			for i := range item.MediaBlock.Rules {
				collect(&item.MediaBlock.Rules[i])
			}
		}
	}
	return families
}

// urlRewritePattern matches url() references in CSS values for RewriteURLs.
// Handles: url("path"), url('path'), url(path)
var urlRewritePattern = regexp.MustCompile(`url\s*\(\s*(?:["']([^"']*)["']|([^)"]*))\s*\)`)

// WriteTo writes the stylesheet to w in source order, implementing io.WriterTo.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, item := range s.Items {
		var (
			n   int
			err error
		)
		switch {
		case item.Import != nil:
			n, err = fmt.Fprintf(w, "@import url(\"%s\");\n", cssEscapeDoubleQuoted(*item.Import))
		case item.FontFace != nil:
			n, err = writeBlock(w, "", "@font-face", item.FontFace.Declarations)
		case item.MediaBlock != nil:
			n, err = writeMediaBlock(w, item.MediaBlock)
		case item.Rule != nil:
			n, err = writeBlock(w, "", item.Rule.Selector(), item.Rule.Declarations)
		}
		total += int64(n)
		if err != nil {
			return total, err
		}

		if i < len(s.Items)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

func writeBlock(w io.Writer, indent, head string, decls []Declaration) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s%s {\n", indent, head)
	total += n
	if err != nil {
		return total, err
	}
	for _, d := range decls {
		important := ""
		if d.Important {
			important = " !important"
		}
		n, err = fmt.Fprintf(w, "%s  %s: %s%s;\n", indent, d.Property, d.Value, important)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = fmt.Fprintf(w, "%s}\n", indent)
	total += n
	return total, err
}

func writeMediaBlock(w io.Writer, mb *MediaBlock) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "@media %s {\n", mb.Query)
	total += n
	if err != nil {
		return total, err
	}
	for i := range mb.Rules {
		if i > 0 {
			n, err = fmt.Fprint(w, "\n")
			total += n
			if err != nil {
				return total, err
			}
		}
		n, err = writeBlock(w, "  ", mb.Rules[i].Selector(), mb.Rules[i].Declarations)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}

// RewriteURLs walks all URL references in the stylesheet and applies fn to
// each. This covers @import URLs and url() references in declarations.
func (s *Stylesheet) RewriteURLs(fn func(originalURL string) string) {
	for i := range s.Items {
		item := &s.Items[i]
		switch {
		case item.Import != nil:
			newURL := fn(*item.Import)
			item.Import = &newURL
		case item.FontFace != nil:
			rewriteURLsInDeclarations(item.FontFace.Declarations, fn)
		case item.Rule != nil:
			rewriteURLsInDeclarations(item.Rule.Declarations, fn)
		case item.MediaBlock != nil:
			for j := range item.MediaBlock.Rules {
				rewriteURLsInDeclarations(item.MediaBlock.Rules[j].Declarations, fn)
			}
		}
	}
}

func rewriteURLsInDeclarations(decls []Declaration, fn func(string) string) {
	for i := range decls {
		if strings.Contains(decls[i].Value, "url(") {
			decls[i].Value = rewriteURLsInValue(decls[i].Value, fn)
		}
	}
}

// rewriteURLsInValue replaces url() references in a CSS value string.
func rewriteURLsInValue(value string, fn func(string) string) string {
	return urlRewritePattern.ReplaceAllStringFunc(value, func(match string) string {
		sub := urlRewritePattern.FindStringSubmatch(match)
		if len(sub) < 3 {
			return match
		}
		// group 1 is quoted URL, group 2 is unquoted URL
		originalURL := sub[1]
		if originalURL == "" {
			originalURL = sub[2]
		}
		newURL := fn(strings.TrimSpace(originalURL))
		return fmt.Sprintf("url(\"%s\")", cssEscapeDoubleQuoted(newURL))
	})
}
