// Package vault maps secret identities to files and guards how those files
// are created and opened.
//
// # Layout
//
// Every record lives at a path derived only from its identity:
//
//	<crypt_home>/passman/<account>/<vendor>-<secret_type><ext>
//
// where secret_type is passphrase, token or otp and ext is the ciphertext
// extension of the keyring in use (.age).
//
// # Write Discipline
//
// Records are written at most once. PrepareForWrite refuses an existing
// file, creates parent directories with 0700 and the record file itself
// with 0600 before any bytes are written. The returned WriteHandle removes
// the file on Close unless Commit was called, so a failed encryption never
// leaves an empty record behind.
//
// There is no locking. Two writers racing on the same path are resolved by
// O_EXCL: the loser gets ErrAlreadyExists.
package vault
