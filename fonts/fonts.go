// Package fonts links font families used by the page to Google Fonts.
package fonts

import (
	"net/url"
	"slices"
	"strings"

	"github.com/maruel/natural"

	"gdc/config"
)

const googleCSS2 = "https://fonts.googleapis.com/css2"

// Linker builds Google Fonts css2 URLs. Nil *Linker is valid and never
// produces a link.
type Linker struct {
	exclude map[string]bool
}

// NewLinker returns linker configured by cfg or nil when linking is disabled.
func NewLinker(cfg *config.FontsConfig) *Linker {
	if cfg == nil || !cfg.Google {
		return nil
	}
	l := &Linker{exclude: make(map[string]bool, len(cfg.Exclude))}
	for _, name := range cfg.Exclude {
		l.exclude[strings.ToLower(strings.TrimSpace(name))] = true
	}
	return l
}

// Families returns names which would be requested: excluded and duplicate
// (case insensitive) names removed, natural order.
func (l *Linker) Families(families []string) []string {
	if l == nil {
		return nil
	}
	var (
		names []string
		seen  = make(map[string]bool, len(families))
	)
	for _, name := range families {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || l.exclude[key] || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})
	return names
}

// URL returns stylesheet URL loading all families or empty string when
// there is nothing to load.
func (l *Linker) URL(families []string) string {
	names := l.Families(families)
	if len(names) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(googleCSS2)
	for i, name := range names {
		if i == 0 {
			b.WriteString("?family=")
		} else {
			b.WriteString("&family=")
		}
		b.WriteString(url.QueryEscape(name))
	}
	b.WriteString("&display=swap")
	return b.String()
}
