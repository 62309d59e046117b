package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ReadHidden prompts for a secret without echoing input.
// Returns an error if stdin is not a terminal.
func ReadHidden(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("cannot read secret: stdin is not a terminal (hint: use --stdin)")
	}

	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}

	return secret, nil
}

// ReadLine prints prompt to out and reads one line from in, without the line ending.
func ReadLine(in io.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if err == io.EOF && line == "" {
		return "", fmt.Errorf("no input provided")
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
