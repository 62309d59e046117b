package vault

import (
	"errors"
	"fmt"
	"os"

	logger "github.com/PolarWolf314/passman/internal/logging"
)

// WriteHandle is a freshly created record file.
type WriteHandle struct {
	f         *os.File
	path      string
	log       logger.Logger
	closed    bool
	committed bool
	removed   bool
}

func (h *WriteHandle) Write(p []byte) (int, error) {
	if h.closed {
		return 0, fmt.Errorf("write to closed record %s", h.path)
	}
	return h.f.Write(p)
}

// Path returns the record path.
func (h *WriteHandle) Path() string {
	return h.path
}

// Commit flushes and closes the file, marking the write as complete.
func (h *WriteHandle) Commit() error {
	if h.closed {
		return fmt.Errorf("commit of closed record %s", h.path)
	}
	if err := h.f.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", h.path, err)
	}
	h.closed = true
	if err := h.f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", h.path, err)
	}
	h.committed = true
	return nil
}

// Close releases the file. If Commit was not called, the partial record is removed.
// Close is safe to call more than once.
func (h *WriteHandle) Close() error {
	var errs []error
	if !h.closed {
		h.closed = true
		if err := h.f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", h.path, err))
		}
	}
	if !h.committed && !h.removed {
		h.removed = true
		h.log.Debugf("Removing incomplete record %s", h.path)
		if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("removing incomplete record %s: %w", h.path, err))
		}
	}
	return errors.Join(errs...)
}

// ReadHandle is an open record file.
type ReadHandle struct {
	f      *os.File
	path   string
	closed bool
}

func (h *ReadHandle) Read(p []byte) (int, error) {
	return h.f.Read(p)
}

// Path returns the record path.
func (h *ReadHandle) Path() string {
	return h.path
}

// Close is safe to call more than once.
func (h *ReadHandle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	return h.f.Close()
}
