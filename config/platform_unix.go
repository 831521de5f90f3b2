//go:build !windows

package config

import (
	"os"
	"strings"

	"golang.org/x/term"
)

func forbiddenNameRune(sym rune) bool {
	return sym == 0 || sym == os.PathSeparator || sym == os.PathListSeparator
}

// leading dots would produce hidden files
func trimNamePrefix(name string) string {
	return strings.TrimLeft(name, ".")
}

func colorTerminal(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
