package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	perrors "github.com/PolarWolf314/passman/internal/errors"
	logger "github.com/PolarWolf314/passman/internal/logging"
)

// Store resolves record paths and hands out scoped file handles.
type Store struct {
	ext string
	log logger.Logger
}

// NewStore returns a Store for ciphertext files ending in ext.
func NewStore(ext string, log logger.Logger) *Store {
	return &Store{ext: ext, log: log}
}

// Resolve derives the record path for id. It never touches the filesystem.
func (s *Store) Resolve(id Identity) (string, error) {
	if err := id.Validate(); err != nil {
		return "", err
	}
	name := id.Vendor + "-" + string(id.SecretType) + s.ext
	return filepath.Join(AccountHome(id.CryptHome, id.Account), name), nil
}

// List returns the vendors in accountHome that have a record of type t, sorted.
func (s *Store) List(accountHome string, t SecretType) ([]string, error) {
	if _, err := ParseSecretType(string(t)); err != nil {
		return nil, err
	}

	info, err := os.Stat(accountHome)
	if err != nil {
		return nil, storageError(accountHome, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", accountHome, perrors.ErrNotFound)
	}

	suffix := "-" + string(t) + s.ext
	matches, err := doublestar.Glob(os.DirFS(accountHome), "*"+suffix, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", accountHome, err)
	}

	vendors := make([]string, 0, len(matches))
	for _, m := range matches {
		vendor := strings.TrimSuffix(m, suffix)
		if vendor == "" {
			continue
		}
		vendors = append(vendors, vendor)
	}
	sort.Strings(vendors)

	s.log.Debugf("Found %d %s record(s) in %s", len(vendors), t, accountHome)
	return vendors, nil
}

// Accounts returns the account directories under cryptHome, sorted.
func (s *Store) Accounts(cryptHome string) ([]string, error) {
	root := filepath.Join(cryptHome, VaultDir)
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, storageError(root, err)
	}

	var accounts []string
	for _, e := range entries {
		if e.IsDir() {
			accounts = append(accounts, e.Name())
		}
	}
	sort.Strings(accounts)
	return accounts, nil
}

// PrepareForWrite creates the record file at path with 0600 permissions.
//
// It fails with ErrAlreadyExists if the file exists. Parent directories are
// created as needed. The caller must Close the handle, and Commit it once
// all content has been written.
func (s *Store) PrepareForWrite(path string) (*WriteHandle, error) {
	if _, err := os.Lstat(path); err == nil {
		s.log.Debugf("Record %s already exists", path)
		return nil, fmt.Errorf("%s: %w", path, perrors.ErrAlreadyExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, storageError(path, err)
	}

	parent := filepath.Dir(path)
	if _, err := os.Stat(parent); errors.Is(err, fs.ErrNotExist) {
		s.log.Debugf("Creating parent directory %s", parent)
	}
	if err := os.MkdirAll(parent, 0700); err != nil {
		return nil, storageError(parent, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, storageError(path, err)
	}
	// Enforce the exact mode regardless of umask.
	if err := f.Chmod(0600); err != nil {
		f.Close()
		os.Remove(path)
		return nil, storageError(path, err)
	}

	s.log.Debugf("Created %s with mode 0600", path)
	return &WriteHandle{f: f, path: path, log: s.log}, nil
}

// PrepareForRead opens the record at path for reading.
func (s *Store) PrepareForRead(path string) (*ReadHandle, error) {
	info, err := os.Stat(path)
	if err != nil {
		s.log.Debugf("Record %s is not readable: %v", path, err)
		return nil, storageError(path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", path, perrors.ErrNotFound)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, storageError(path, err)
	}
	return &ReadHandle{f: f, path: path}, nil
}

// storageError maps filesystem errors onto the storage taxonomy, keeping the cause.
func storageError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s: %w: %w", path, perrors.ErrNotFound, err)
	case errors.Is(err, fs.ErrExist):
		return fmt.Errorf("%s: %w: %w", path, perrors.ErrAlreadyExists, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%s: %w: %w", path, perrors.ErrPermissionDenied, err)
	default:
		return fmt.Errorf("%s: %w", path, err)
	}
}
