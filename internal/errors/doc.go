// Package errors provides typed error values for passman.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
// Errors are grouped by the component that produces them:
//
//   - Storage errors: vault layout and file access (ErrNotFound, ErrAlreadyExists)
//   - Crypto errors: record framing and the keyring (ErrNoRecipients, ErrDecryptionFailed)
//   - OTP errors: one-time code derivation (ErrVerificationMismatch)
//   - Input errors: caller supplied values (ErrEmptySecret, ErrInvalidConfig)
//
// # Usage
//
// Return errors from internal packages, wrapped with context:
//
//	return nil, fmt.Errorf("opening %s: %w", path, perrors.ErrNotFound)
//
// Handle errors in the CLI layer:
//
//	result, err := svc.Read(ctx, id)
//	if errors.Is(err, perrors.ErrNotFound) {
//	    // Show user-friendly message
//	}
//
// Provider failures are wrapped with the sentinel first and the cause
// formatted after it, so both the category and the detail survive:
//
//	return fmt.Errorf("%w: %v", perrors.ErrEncryptionFailed, err)
package errors
