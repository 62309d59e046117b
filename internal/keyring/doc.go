// Package keyring defines the public-key capability passman encrypts with.
//
// The vault never touches key material directly. It depends on the Provider
// interface, which encrypts plaintext to a RecipientSet, decrypts with
// whatever private keys it holds, and reports the recipients of those keys
// so callers can default to "everyone who can currently decrypt".
//
// # Age Backend
//
// AgeProvider implements Provider with filippo.io/age. Identities are read
// from files:
//
//   - age identity files (AGE-SECRET-KEY-1..., comments allowed)
//   - OpenSSH private keys (ed25519 or rsa), via filippo.io/age/agessh
//
// Recipients are age public keys (age1...) or ssh authorized-key lines
// (ssh-ed25519 AAAA...). Ciphertext is binary age format by default, or
// ASCII armored when Armor is set. Decrypt accepts either.
//
// Key generation is not part of this package.
package keyring
