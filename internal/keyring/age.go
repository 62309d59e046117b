package keyring

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/age"
	"filippo.io/age/agessh"
	"filippo.io/age/armor"
	"golang.org/x/crypto/ssh"

	perrors "github.com/PolarWolf314/passman/internal/errors"
	logger "github.com/PolarWolf314/passman/internal/logging"
)

// AgeExtension is the file extension of age ciphertext.
const AgeExtension = ".age"

// AgeConfig configures an AgeProvider.
type AgeConfig struct {
	// IdentityFiles lists files holding private keys. Missing files are skipped.
	IdentityFiles []string

	// Armor writes ASCII armored ciphertext instead of binary.
	Armor bool
}

// AgeProvider implements Provider with age encryption.
type AgeProvider struct {
	identities []age.Identity
	recipients RecipientSet
	armor      bool
	log        logger.Logger
}

// NewAgeProvider loads every identity file in cfg.
//
// A provider with no identities can still encrypt to explicit recipients,
// but Decrypt and ListAvailableRecipients return ErrNoIdentities.
func NewAgeProvider(cfg AgeConfig, log logger.Logger) (*AgeProvider, error) {
	p := &AgeProvider{
		armor: cfg.Armor,
		log:   log,
	}

	for _, path := range cfg.IdentityFiles {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			log.Debugf("Identity file %s does not exist, skipping", path)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading identity file %s: %w", path, err)
		}

		if err := p.addIdentities(data); err != nil {
			return nil, fmt.Errorf("parsing identity file %s: %w", path, err)
		}
		log.Debugf("Loaded identities from %s", path)
	}

	return p, nil
}

func (p *AgeProvider) addIdentities(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("-----BEGIN")) {
		return p.addSSHIdentity(data)
	}

	ids, err := age.ParseIdentities(bytes.NewReader(data))
	if err != nil {
		return err
	}

	for _, id := range ids {
		p.identities = append(p.identities, id)
		if x, ok := id.(*age.X25519Identity); ok {
			p.recipients.Add(x.Recipient().String())
		}
	}
	return nil
}

func (p *AgeProvider) addSSHIdentity(pemBytes []byte) error {
	id, err := agessh.ParseIdentity(pemBytes)
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if errors.As(err, &missing) {
			return fmt.Errorf("passphrase protected ssh keys are not supported: %w", err)
		}
		return err
	}

	signer, err := ssh.ParsePrivateKey(pemBytes)
	if err != nil {
		return fmt.Errorf("deriving ssh public key: %w", err)
	}

	p.identities = append(p.identities, id)
	p.recipients.Add(strings.TrimSpace(string(ssh.MarshalAuthorizedKey(signer.PublicKey()))))
	return nil
}

// Encrypt encrypts plaintext to every recipient in the set.
func (p *AgeProvider) Encrypt(plaintext []byte, recipients RecipientSet) ([]byte, error) {
	if recipients.IsEmpty() {
		return nil, perrors.ErrNoRecipients
	}

	parsed := make([]age.Recipient, 0, recipients.Len())
	for _, r := range recipients.Sorted() {
		rcpt, err := ParseRecipient(r)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, rcpt)
	}

	var buf bytes.Buffer
	var dst io.Writer = &buf

	var armorWriter io.WriteCloser
	if p.armor {
		armorWriter = armor.NewWriter(&buf)
		dst = armorWriter
	}

	w, err := age.Encrypt(dst, parsed...)
	if err != nil {
		return nil, fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing plaintext to encryptor: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing encryptor: %w", err)
	}
	if armorWriter != nil {
		if err := armorWriter.Close(); err != nil {
			return nil, fmt.Errorf("closing armor writer: %w", err)
		}
	}

	p.log.Debugf("Encrypted %d bytes to %d recipient(s)", len(plaintext), len(parsed))
	return buf.Bytes(), nil
}

// Decrypt decrypts binary or armored age ciphertext.
func (p *AgeProvider) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(p.identities) == 0 {
		return nil, perrors.ErrNoIdentities
	}

	br := bufio.NewReader(bytes.NewReader(ciphertext))
	var src io.Reader = br
	if start, _ := br.Peek(len(armor.Header)); string(start) == armor.Header {
		src = armor.NewReader(br)
	}

	r, err := age.Decrypt(src, p.identities...)
	if err != nil {
		return nil, fmt.Errorf("creating age decryptor: %w", err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted data: %w", err)
	}

	return plaintext, nil
}

// ListAvailableRecipients returns the recipients of all loaded identities.
func (p *AgeProvider) ListAvailableRecipients() (RecipientSet, error) {
	if p.recipients.IsEmpty() {
		return RecipientSet{}, perrors.ErrNoIdentities
	}
	return NewRecipientSet(p.recipients.Sorted()...), nil
}

func (p *AgeProvider) Extension() string {
	return AgeExtension
}

// ParseRecipient parses an age public key or an ssh authorized-key line.
func ParseRecipient(s string) (age.Recipient, error) {
	s = strings.TrimSpace(s)

	switch {
	case strings.HasPrefix(s, "age1"):
		r, err := age.ParseX25519Recipient(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", perrors.ErrInvalidRecipient, err)
		}
		return r, nil
	case strings.HasPrefix(s, "ssh-"):
		r, err := agessh.ParseRecipient(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", perrors.ErrInvalidRecipient, err)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w: unrecognized recipient %q", perrors.ErrInvalidRecipient, s)
	}
}
