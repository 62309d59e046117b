package secrets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	perrors "github.com/PolarWolf314/passman/internal/errors"
)

// genesisLayouts are tried in order when reading a record. The second form
// is the zone-less ISO timestamp older records carry.
var genesisLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// Record is a single stored credential.
type Record struct {
	// UserID is only set for passphrase records.
	UserID string
	// Secret is the credential, or the base32 seed for otp records.
	Secret string
	// Genesis is the UTC creation time. It is set once when the record is written.
	Genesis time.Time
}

// Equal reports whether two records hold the same values.
func (r Record) Equal(other Record) bool {
	return r.UserID == other.UserID && r.Secret == other.Secret && r.Genesis.Equal(other.Genesis)
}

// ValidateEncoding returns ErrInvalidEncoding unless UserID and Secret are valid UTF-8.
func (r Record) ValidateEncoding() error {
	if !utf8.ValidString(r.UserID) {
		return fmt.Errorf("%w: user id", perrors.ErrInvalidEncoding)
	}
	if !utf8.ValidString(r.Secret) {
		return fmt.Errorf("%w: secret", perrors.ErrInvalidEncoding)
	}
	return nil
}

type encodedRecord struct {
	UserID  string `json:"user_id,omitempty"`
	Secret  string `json:"secret"`
	Genesis string `json:"genesis"`
}

type decodedRecord struct {
	UserID  *string `json:"user_id"`
	Secret  *string `json:"secret"`
	Genesis *string `json:"genesis"`
}

// Marshal encodes r as canonical plaintext.
// Values that are not valid UTF-8 are rejected instead of being replaced.
func Marshal(r Record) ([]byte, error) {
	if err := r.ValidateEncoding(); err != nil {
		return nil, err
	}
	return json.Marshal(encodedRecord{
		UserID:  r.UserID,
		Secret:  r.Secret,
		Genesis: r.Genesis.UTC().Format(time.RFC3339Nano),
	})
}

// Unmarshal decodes plaintext produced by Marshal.
func Unmarshal(plaintext []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(plaintext))
	dec.DisallowUnknownFields()

	var d decodedRecord
	if err := dec.Decode(&d); err != nil {
		return Record{}, fmt.Errorf("%w: %v", perrors.ErrMalformedRecord, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Record{}, fmt.Errorf("%w: trailing data after record", perrors.ErrMalformedRecord)
	}

	if d.Secret == nil {
		return Record{}, fmt.Errorf("%w: missing secret", perrors.ErrMalformedRecord)
	}
	if d.Genesis == nil {
		return Record{}, fmt.Errorf("%w: missing genesis", perrors.ErrMalformedRecord)
	}

	genesis, err := parseGenesis(*d.Genesis)
	if err != nil {
		return Record{}, err
	}

	r := Record{Secret: *d.Secret, Genesis: genesis}
	if d.UserID != nil {
		r.UserID = *d.UserID
	}
	return r, nil
}

func parseGenesis(s string) (time.Time, error) {
	for _, layout := range genesisLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized genesis %q", perrors.ErrMalformedRecord, s)
}
