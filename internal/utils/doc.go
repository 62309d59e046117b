// Package utils provides terminal and I/O helpers for the passman CLI.
//
// # Terminal Utilities
//
// Functions for prompting the user:
//   - ReadHidden: reads a secret without echoing it
//   - ReadLine: reads a single visible line, such as a user id
//   - IsTerminal: checks if stdin is a terminal, to tell prompts from piped input
//
// # I/O Utilities
//
// Functions for reading piped input:
//   - ReadStdin: reads all data from standard input
//   - ReadSecretFrom: reads a secret from a reader, dropping the trailing newline
//
// # String Utilities
//
// Functions for formatting lists of names for output.
package utils
