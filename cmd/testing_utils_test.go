package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"filippo.io/age"

	"github.com/PolarWolf314/passman/internal/configs"
)

// testVault is an isolated crypt home with one age identity configured.
type testVault struct {
	t         *testing.T
	dir       string
	cryptHome string
	recipient string

	// now, when set, replaces the clock for every command run.
	now func() time.Time
	// clipboard receives whatever read would copy.
	clipboard []string
	// terminal reports stdin as interactive. Input is treated as piped by default.
	terminal bool
}

func setupTestVault(t *testing.T) *testVault {
	t.Helper()
	dir := t.TempDir()

	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	t.Setenv(configs.CryptHomeEnv, "")
	t.Setenv("NO_COLOR", "1")

	id, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("Failed to generate identity: %v", err)
	}
	identityFile := filepath.Join(dir, "identity.txt")
	if err := os.WriteFile(identityFile, []byte(id.String()+"\n"), 0600); err != nil {
		t.Fatalf("Failed to write identity: %v", err)
	}

	tv := &testVault{
		t:         t,
		dir:       dir,
		cryptHome: filepath.Join(dir, "crypt"),
		recipient: id.Recipient().String(),
	}

	config := configs.Default()
	config.CryptHome = tv.cryptHome
	config.IdentityFiles = []string{identityFile}
	configPath := filepath.Join(dir, "config.toml")
	if err := configs.Save(configPath, config); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
	t.Setenv(configs.ConfigEnv, configPath)

	t.Cleanup(ResetGlobalState)
	return tv
}

// run executes passman with args and stdin, returning stdout and stderr.
func (tv *testVault) run(stdin string, args ...string) (string, string, error) {
	tv.t.Helper()
	ResetGlobalState()
	if tv.now != nil {
		now = tv.now
	}
	stdinIsTerminal = func() bool { return tv.terminal }
	copyToClipboard = func(s string) error {
		tv.clipboard = append(tv.clipboard, s)
		return nil
	}

	var stdout, stderr bytes.Buffer
	RootCmd.SetOut(&stdout)
	RootCmd.SetErr(&stderr)
	RootCmd.SetIn(strings.NewReader(stdin))
	RootCmd.SetArgs(args)

	err := Execute(context.Background())
	return stdout.String(), stderr.String(), err
}

// mustRun fails the test if the command returns an error.
func (tv *testVault) mustRun(stdin string, args ...string) string {
	tv.t.Helper()
	stdout, stderr, err := tv.run(stdin, args...)
	if err != nil {
		tv.t.Fatalf("passman %s failed: %v\nstdout: %s\nstderr: %s", strings.Join(args, " "), err, stdout, stderr)
	}
	return stdout
}
