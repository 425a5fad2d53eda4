package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

// renderCheckLine formats one preflight result as "  NAME: [OK] detail".
func renderCheckLine(name string, passed bool, detail string, colorize bool) string {
	status := "[FAIL]"
	color := ansiRed
	if passed {
		status = "[OK]"
		color = ansiGreen
	}
	line := fmt.Sprintf("  %-24s %s %s", name+":", status, detail)
	if colorize {
		return color + line + ansiReset
	}
	return line
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
