// Package otp derives time-based one-time passwords (RFC 6238) from stored
// seeds.
//
// Every code is checked against the same seed and time before it is
// returned. A code that fails its own validation points at a broken seed or
// a broken clock, and is reported as ErrVerificationMismatch instead of
// being handed to the user.
//
// Seeds are base32, case-insensitive, with or without padding, as shown by
// most providers when enrolling an authenticator.
package otp
