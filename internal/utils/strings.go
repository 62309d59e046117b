package utils

import (
	"strings"

	"github.com/PolarWolf314/passman/internal/ui"
)

// FormatNames formats vendor or account names as an indented list.
func FormatNames(names []string) string {
	return formatList(names, ui.Highlight)
}

func formatList(items []string, f ui.Formatter) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, item := range items {
		b.WriteString("    - ")
		b.WriteString(f.Sprint(item))
		b.WriteString("\n")
	}
	return b.String()
}
