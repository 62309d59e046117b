package workflows

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"filippo.io/age"

	perrors "github.com/PolarWolf314/passman/internal/errors"
	"github.com/PolarWolf314/passman/internal/keyring"
	logger "github.com/PolarWolf314/passman/internal/logging"
	"github.com/PolarWolf314/passman/internal/otp"
	"github.com/PolarWolf314/passman/internal/policy"
	"github.com/PolarWolf314/passman/internal/secrets"
	"github.com/PolarWolf314/passman/internal/vault"
)

const rfcSeed = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

type testEnv struct {
	svc       *Service
	cryptHome string
	recipient string
	now       time.Time
}

// failingProvider holds real keys but refuses to encrypt.
type failingProvider struct {
	keyring.Provider
}

func (failingProvider) Encrypt([]byte, keyring.RecipientSet) ([]byte, error) {
	return nil, errors.New("keyring locked")
}

func newTestEnv(t *testing.T, wrap func(keyring.Provider) keyring.Provider) *testEnv {
	t.Helper()
	dir := t.TempDir()

	id, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("Failed to generate identity: %v", err)
	}
	identityFile := filepath.Join(dir, "identity.txt")
	if err := os.WriteFile(identityFile, []byte(id.String()+"\n"), 0600); err != nil {
		t.Fatalf("Failed to write identity: %v", err)
	}

	log := logger.Logger{Out: &bytes.Buffer{}, Err: &bytes.Buffer{}}
	var provider keyring.Provider
	provider, err = keyring.NewAgeProvider(keyring.AgeConfig{IdentityFiles: []string{identityFile}}, log)
	if err != nil {
		t.Fatalf("NewAgeProvider failed: %v", err)
	}
	if wrap != nil {
		provider = wrap(provider)
	}

	otpEngine, err := otp.New(otp.Options{}, log)
	if err != nil {
		t.Fatalf("otp.New failed: %v", err)
	}

	env := &testEnv{
		cryptHome: filepath.Join(dir, "crypt"),
		recipient: id.Recipient().String(),
		now:       time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	env.svc = New(Deps{
		Store:    vault.NewStore(provider.Extension(), log),
		Engine:   secrets.NewEngine(provider, log),
		Provider: provider,
		Policy:   policy.Default(),
		OTP:      otpEngine,
		Logger:   log,
		Now:      func() time.Time { return env.now },
	})
	return env
}

func (e *testEnv) identity(vendor string, t vault.SecretType) vault.Identity {
	return vault.Identity{CryptHome: e.cryptHome, Account: "default", Vendor: vendor, SecretType: t}
}

func TestWriteThenRead(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	id := env.identity("github", vault.Passphrase)

	written, err := env.svc.Write(ctx, id, secrets.Record{UserID: "octocat", Secret: "hunter2"}, keyring.RecipientSet{})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	want := filepath.Join(env.cryptHome, "passman", "default", "github-passphrase.age")
	if written.Path != want {
		t.Errorf("Expected path %s, got %s", want, written.Path)
	}
	if len(written.Recipients) != 1 || written.Recipients[0] != env.recipient {
		t.Errorf("Expected default recipients [%s], got %v", env.recipient, written.Recipients)
	}
	if !written.Genesis.Equal(env.now) {
		t.Errorf("Expected genesis %v, got %v", env.now, written.Genesis)
	}

	read, err := env.svc.Read(ctx, id)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if read.Record.UserID != "octocat" || read.Record.Secret != "hunter2" {
		t.Errorf("Unexpected record: %+v", read.Record)
	}
	if read.Classification != policy.Fresh {
		t.Errorf("Expected fresh record, got %s", read.Classification)
	}
	if read.Code != "" {
		t.Errorf("Expected no code for a passphrase record, got %q", read.Code)
	}
}

func TestWriteStripsUserIDForTokens(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	id := env.identity("aws", vault.Token)

	if _, err := env.svc.Write(ctx, id, secrets.Record{UserID: "ignored", Secret: "AKIA"}, keyring.RecipientSet{}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	read, err := env.svc.Read(ctx, id)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if read.Record.UserID != "" {
		t.Errorf("Expected no user id on a token record, got %q", read.Record.UserID)
	}
}

func TestWriteExistingRecordIsUntouched(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	id := env.identity("github", vault.Token)

	first, err := env.svc.Write(ctx, id, secrets.Record{Secret: "first"}, keyring.RecipientSet{})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	before, err := os.ReadFile(first.Path)
	if err != nil {
		t.Fatalf("Failed to read record: %v", err)
	}

	_, err = env.svc.Write(ctx, id, secrets.Record{Secret: "second"}, keyring.RecipientSet{})
	if !errors.Is(err, perrors.ErrAlreadyExists) {
		t.Fatalf("Expected ErrAlreadyExists, got: %v", err)
	}

	after, err := os.ReadFile(first.Path)
	if err != nil {
		t.Fatalf("Failed to read record: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("Existing record was modified")
	}
}

func TestWriteRejectsEmptySecret(t *testing.T) {
	env := newTestEnv(t, nil)
	id := env.identity("github", vault.Token)

	if _, err := env.svc.Write(context.Background(), id, secrets.Record{Secret: "  "}, keyring.RecipientSet{}); !errors.Is(err, perrors.ErrEmptySecret) {
		t.Errorf("Expected ErrEmptySecret, got: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.cryptHome, "passman")); !os.IsNotExist(err) {
		t.Error("Expected nothing to be created for an empty secret")
	}
}

func TestWriteRejectsInvalidIdentity(t *testing.T) {
	env := newTestEnv(t, nil)
	id := env.identity("../escape", vault.Token)

	if _, err := env.svc.Write(context.Background(), id, secrets.Record{Secret: "x"}, keyring.RecipientSet{}); !errors.Is(err, perrors.ErrInvalidIdentity) {
		t.Errorf("Expected ErrInvalidIdentity, got: %v", err)
	}
}

func TestWriteEncryptionFailureLeavesNoFile(t *testing.T) {
	env := newTestEnv(t, func(p keyring.Provider) keyring.Provider { return failingProvider{p} })
	id := env.identity("github", vault.Token)

	_, err := env.svc.Write(context.Background(), id, secrets.Record{Secret: "x"}, keyring.RecipientSet{})
	if !errors.Is(err, perrors.ErrEncryptionFailed) {
		t.Fatalf("Expected ErrEncryptionFailed, got: %v", err)
	}

	path := filepath.Join(env.cryptHome, "passman", "default", "github-token.age")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected no record file after a failed write, stat returned: %v", err)
	}
}

func TestWriteInvalidExplicitRecipient(t *testing.T) {
	env := newTestEnv(t, nil)
	id := env.identity("github", vault.Token)

	_, err := env.svc.Write(context.Background(), id, secrets.Record{Secret: "x"}, keyring.NewRecipientSet("not-a-key"))
	if !errors.Is(err, perrors.ErrEncryptionFailed) {
		t.Errorf("Expected ErrEncryptionFailed, got: %v", err)
	}
	if !errors.Is(err, perrors.ErrInvalidRecipient) {
		t.Errorf("Expected ErrInvalidRecipient in the chain, got: %v", err)
	}
}

func TestWriteToOtherRecipientIsUnreadable(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	id := env.identity("github", vault.Token)

	other, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("Failed to generate identity: %v", err)
	}

	if _, err := env.svc.Write(ctx, id, secrets.Record{Secret: "x"}, keyring.NewRecipientSet(other.Recipient().String())); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := env.svc.Read(ctx, id); !errors.Is(err, perrors.ErrDecryptionFailed) {
		t.Errorf("Expected ErrDecryptionFailed, got: %v", err)
	}
}

func TestReadMissingRecord(t *testing.T) {
	env := newTestEnv(t, nil)

	if _, err := env.svc.Read(context.Background(), env.identity("nope", vault.Passphrase)); !errors.Is(err, perrors.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}
	if _, err := os.Stat(env.cryptHome); !os.IsNotExist(err) {
		t.Error("Read must not create directories")
	}
}

func TestReadClassifiesAge(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	tests := []struct {
		vendor string
		age    time.Duration
		want   policy.Classification
	}{
		{"fresh", 60 * 24 * time.Hour, policy.Fresh},
		{"stale", 61 * 24 * time.Hour, policy.SoftWarning},
		{"expired", 91 * 24 * time.Hour, policy.HardExpired},
	}

	for _, tt := range tests {
		id := env.identity(tt.vendor, vault.Token)
		rec := secrets.Record{Secret: "x", Genesis: env.now.Add(-tt.age)}
		if _, err := env.svc.Write(ctx, id, rec, keyring.RecipientSet{}); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		read, err := env.svc.Read(ctx, id)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if read.Classification != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.vendor, tt.want, read.Classification)
		}
		if read.Age != tt.age {
			t.Errorf("%s: expected age %v, got %v", tt.vendor, tt.age, read.Age)
		}
	}
}

func TestReadOTPRecordDerivesCode(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.now = time.Unix(59, 0).UTC()
	id := env.identity("google", vault.OTP)

	if _, err := env.svc.Write(ctx, id, secrets.Record{Secret: rfcSeed}, keyring.RecipientSet{}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	read, err := env.svc.Read(ctx, id)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if read.Code != "287082" {
		t.Errorf("Expected code 287082, got %q", read.Code)
	}
	if read.Remaining != time.Second {
		t.Errorf("Expected 1s remaining, got %v", read.Remaining)
	}
}

func TestReadOTPRecordWithBadSeed(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	id := env.identity("broken", vault.OTP)

	if _, err := env.svc.Write(ctx, id, secrets.Record{Secret: "!!!"}, keyring.RecipientSet{}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := env.svc.Read(ctx, id); !errors.Is(err, perrors.ErrInvalidSeed) {
		t.Errorf("Expected ErrInvalidSeed, got: %v", err)
	}
}

func TestListAndAccounts(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	for _, vendor := range []string{"github", "aws-prod", "gitlab"} {
		if _, err := env.svc.Write(ctx, env.identity(vendor, vault.Token), secrets.Record{Secret: "x"}, keyring.RecipientSet{}); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if _, err := env.svc.Write(ctx, env.identity("github", vault.Passphrase), secrets.Record{Secret: "x"}, keyring.RecipientSet{}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	vendors, err := env.svc.List(ctx, vault.AccountHome(env.cryptHome, "default"), vault.Token)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"aws-prod", "github", "gitlab"}
	if len(vendors) != len(want) {
		t.Fatalf("Expected %v, got %v", want, vendors)
	}
	for i := range want {
		if vendors[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, vendors)
			break
		}
	}

	accounts, err := env.svc.Accounts(ctx, env.cryptHome)
	if err != nil {
		t.Fatalf("Accounts failed: %v", err)
	}
	if len(accounts) != 1 || accounts[0] != "default" {
		t.Errorf("Expected [default], got %v", accounts)
	}

	if _, err := env.svc.List(ctx, vault.AccountHome(env.cryptHome, "missing"), vault.Token); !errors.Is(err, perrors.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a missing account, got: %v", err)
	}
}

func TestRecipientsIncludesExtra(t *testing.T) {
	env := newTestEnv(t, nil)
	other, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("Failed to generate identity: %v", err)
	}
	env.svc.extra = keyring.NewRecipientSet(other.Recipient().String())

	got, err := env.svc.Recipients(context.Background())
	if err != nil {
		t.Fatalf("Recipients failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected local and extra recipient, got %v", got)
	}
}

func TestGenerateOTP(t *testing.T) {
	env := newTestEnv(t, nil)

	code, err := env.svc.GenerateOTP(context.Background(), rfcSeed, time.Unix(59, 0))
	if err != nil {
		t.Fatalf("GenerateOTP failed: %v", err)
	}
	if code != "287082" {
		t.Errorf("Expected 287082, got %s", code)
	}
}

func TestCancelledContextDoesNothing(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	id := env.identity("github", vault.Token)
	if _, err := env.svc.Write(ctx, id, secrets.Record{Secret: "x"}, keyring.RecipientSet{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
	if _, err := os.Stat(env.cryptHome); !os.IsNotExist(err) {
		t.Error("Cancelled write must not touch the filesystem")
	}
	if _, err := env.svc.Read(ctx, id); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
}

func TestWriteRejectsInvalidUTF8(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		id   vault.Identity
		rec  secrets.Record
	}{
		{"binary secret", env.identity("github", vault.Token), secrets.Record{Secret: "k\xfe\xffey"}},
		{"binary user id", env.identity("gitlab", vault.Passphrase), secrets.Record{UserID: "oct\xffcat", Secret: "hunter2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.svc.Write(ctx, tt.id, tt.rec, keyring.RecipientSet{}); !errors.Is(err, perrors.ErrInvalidEncoding) {
				t.Fatalf("Expected ErrInvalidEncoding, got: %v", err)
			}
			if _, err := env.svc.Read(ctx, tt.id); !errors.Is(err, perrors.ErrNotFound) {
				t.Errorf("Expected no record to be stored, got: %v", err)
			}
		})
	}
}

func TestWriteBinaryUserIDIgnoredForTokens(t *testing.T) {
	env := newTestEnv(t, nil)
	id := env.identity("aws", vault.Token)

	if _, err := env.svc.Write(context.Background(), id, secrets.Record{UserID: "\xff", Secret: "AKIA"}, keyring.RecipientSet{}); err != nil {
		t.Errorf("Expected the dropped user id not to be checked, got: %v", err)
	}
}
