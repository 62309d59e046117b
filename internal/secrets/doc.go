// Package secrets converts secret records to and from ciphertext.
//
// A Record is the unit of storage: an optional user id, the secret itself
// and the UTC time it was created. Records are framed as a flat JSON object
// with a stable field order:
//
//	{"user_id":"me@example.com","secret":"hunter2","genesis":"2024-05-01T09:30:00.123456Z"}
//
// user_id is omitted when empty. genesis is written as RFC 3339 in UTC;
// records written by older tools with a naive timestamp (no zone) are read
// as UTC.
//
// # Engine
//
// Engine sits between records and a keyring.Provider. It never sees key
// material: Encrypt frames the record and hands the plaintext to the
// provider, Decrypt does the reverse. Plaintext buffers are zeroed once
// the provider is done with them.
//
// Failures are reported with the crypto sentinels from internal/errors:
// ErrNoRecipients, ErrEncryptionFailed, ErrDecryptionFailed and
// ErrMalformedRecord.
package secrets
