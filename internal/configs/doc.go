// Package configs manages the user configuration for passman.
//
// Configuration is a single TOML file, by default at
// <os.UserConfigDir()>/passman/config.toml. The --config flag or the
// PASSMAN_CONFIG environment variable point at a different file.
//
// # Configuration
//
// The config stores:
//   - crypt_home: the directory holding the passman/ vault tree
//   - account: the account used when --account is not given
//   - identity_files: files with the private keys used to decrypt
//   - recipients: extra recipients added to every write
//   - armor: whether new records are ASCII armored
//   - [age_policy]: the soft and hard rotation limits in days
//   - [otp]: the TOTP period, digit count and hash algorithm
//
// A missing file is not an error. Load returns the defaults and the file is
// only written by Save.
//
// # Settings
//
// Resolve turns a Config into Settings, filling defaults and applying the
// PASSMAN_CRYPT_HOME override. Settings are passed explicitly to the
// components that need them; there is no package-level state.
package configs
