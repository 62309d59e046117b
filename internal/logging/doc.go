// Package logger provides leveled, colored logging for passman.
//
// A Logger is a small value constructed once by the CLI and passed into
// every component that reports progress. There is no package-level logger.
//
// # Verbosity Levels
//
//   - Verbose: shows info messages
//   - Debug: shows debug messages
//
// Warnings and errors are always shown.
//
// # Usage
//
//	log := logger.Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Decrypting %s", path)
//
// The zero value is a quiet logger that only reports warnings and errors.
// Tests redirect output by setting Out and Err.
package logger
