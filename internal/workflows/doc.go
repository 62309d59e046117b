// Package workflows wires the vault, the crypto engine, the age policy and the
// otp engine into the operations the CLI exposes.
//
// The cmd/ package stays a thin layer that:
//   - Parses command-line flags and arguments
//   - Builds a Service from the resolved settings
//   - Formats the result for display
//
// Workflows handle everything else: validating the identity, choosing
// recipients, creating the record file, encrypting and decrypting, classifying
// the record's age and deriving one-time codes.
//
// # Error Handling
//
// Workflows return errors from the internal/errors package so the CLI can pick
// a message without string matching:
//
//	result, err := svc.Read(ctx, id)
//	if errors.Is(err, perrors.ErrNotFound) {
//	    // Suggest `passman list`
//	}
//
// A HardExpired record is not an error. Read reports the classification and
// the caller decides whether to show the secret.
//
// # Context Usage
//
// Every workflow accepts a context.Context and checks it once on entry. Work
// already started is not interrupted, so a record file is never left half
// written by a cancellation.
package workflows
