package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadStdin reads all content from stdin.
// Returns an error if stdin is empty, is a terminal (no piped data), or cannot be read.
func ReadStdin() ([]byte, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat stdin: %w", err)
	}

	// ModeCharDevice means stdin is a terminal, not a pipe.
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return nil, fmt.Errorf("no data provided on stdin (hint: pipe the secret to this command)")
	}

	return ReadSecretFrom(os.Stdin)
}

// ReadSecretFrom reads r to the end and strips one trailing line ending, so
// `echo secret | passman write --stdin` stores "secret".
func ReadSecretFrom(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	s := strings.TrimSuffix(string(data), "\n")
	s = strings.TrimSuffix(s, "\r")
	if s == "" {
		return nil, fmt.Errorf("input is empty")
	}

	return []byte(s), nil
}
