package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/PolarWolf314/passman/internal/policy"
)

// Formatter applies semantic formatting to text.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint formats the arguments and returns the resulting string.
func (f Formatter) Sprint(a ...any) string {
	return f.render(fmt.Sprint(a...))
}

// Sprintf formats according to a format specifier and returns the resulting string.
func (f Formatter) Sprintf(format string, a ...any) string {
	return f.render(fmt.Sprintf(format, a...))
}

func (f Formatter) render(text string) string {
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// EnsureNewline ensures the string ends with a newline character.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

// noColor reports whether color output should be disabled, honouring
// NO_COLOR (https://no-color.org/) and fatih/color's terminal detection.
func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

var (
	// Code formats runnable commands. Yellow, or `backticks`.
	Code = Formatter{color.New(color.FgYellow), "`", "`"}

	// Path formats file or directory paths.
	Path = Formatter{color.New(color.FgYellow), "", ""}

	// Flag formats CLI flags like --allow-expired.
	Flag = Formatter{color.New(color.FgYellow), "", ""}

	Success = Formatter{color.New(color.FgGreen), "", ""}
	Error   = Formatter{color.New(color.FgRed), "", ""}
	Warning = Formatter{color.New(color.FgYellow), "", ""}
	Info    = Formatter{color.New(color.FgCyan), "", ""}

	// Highlight formats user values like vendors, accounts and user ids.
	// Cyan, or 'single quotes'.
	Highlight = Formatter{color.New(color.FgCyan), "'", "'"}

	// Secret formats a revealed secret or one-time code. Bold, never decorated
	// so it can be copied verbatim.
	Secret = Formatter{color.New(color.Bold), "", ""}

	// Muted formats secondary text. Gray, or (parentheses).
	Muted = Formatter{color.New(color.FgHiBlack), "(", ")"}
)

// Status renders a classification in the color matching its urgency.
func Status(c policy.Classification) string {
	switch c {
	case policy.Fresh:
		return Success.Sprint(c.String())
	case policy.SoftWarning:
		return Warning.Sprint(c.String())
	default:
		return Error.Sprint(c.String())
	}
}

// Days renders an age in whole days.
func Days(age time.Duration) string {
	days := int(age / (24 * time.Hour))
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
