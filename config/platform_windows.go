//go:build windows

package config

import (
	"os"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/term"
)

func forbiddenNameRune(sym rune) bool {
	return sym < 32 || strings.ContainsRune(`<>":/\|?*;`, sym)
}

func trimNamePrefix(name string) string {
	return name
}

// colorTerminal turns on VT100 sequence processing, available starting with
// Windows 10 console.
func colorTerminal(stream *os.File) bool {
	if windows.RtlGetVersion().MajorVersion < 10 || !term.IsTerminal(int(stream.Fd())) {
		return false
	}
	handle := windows.Handle(stream.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(handle, &mode); err != nil {
		return false
	}
	return windows.SetConsoleMode(handle, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}
