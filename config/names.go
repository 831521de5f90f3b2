package config

import (
	"os"
	"strings"
	"unicode/utf8"
)

// maxNameBytes is a common file system limit for a single path element.
const maxNameBytes = 255

const badFileName = "_bad_file_name_"

// CleanFileName removes characters not allowed in file names on current
// platform and keeps result within file system limits.
func CleanFileName(in string) string {
	out := trimNamePrefix(strings.Map(func(sym rune) rune {
		if forbiddenNameRune(sym) {
			return -1
		}
		return sym
	}, in))
	out = strings.TrimRight(out, " .")
	for len(out) > maxNameBytes {
		_, size := utf8.DecodeLastRuneInString(out)
		out = strings.TrimRight(out[:len(out)-size], " .")
	}
	if len(out) == 0 {
		out = badFileName
	}
	return out
}

// EnableColorOutput checks if colorized output is possible. NO_COLOR
// environment variable always disables it.
func EnableColorOutput(stream *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return colorTerminal(stream)
}
