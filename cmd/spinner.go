package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/PolarWolf314/passman/internal/ui"
)

// startSpinner starts a spinner on stderr unless verbose or debug output is on.
// The returned cleanup must be deferred. It stops the spinner and prints
// FinalMSG to out, so FinalMSG values do not need a trailing newline.
func startSpinner(out io.Writer, message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
	} else {
		Logger.Infof("%s", message)
	}

	cleanup := func() {
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Stop would print FinalMSG to the spinner's writer otherwise.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Fprint(out, finalMsg)
		}
	}

	return s, cleanup
}
