package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/bengobox/blog-seeder/internal/config"
	"golang.org/x/crypto/argon2"
)

var (
	// ErrInvalidHash indicates the stored hash cannot be parsed.
	ErrInvalidHash = errors.New("invalid password hash")
	// ErrMismatch indicates the password does not match the hash.
	ErrMismatch = errors.New("password mismatch")
)

// Hasher produces Argon2id hashes in the PHC string format:
// $argon2id$v=19$m=<KiB>,t=<iterations>,p=<threads>$<salt>$<key>
type Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen uint32
}

// NewHasher constructs a Hasher from the security configuration.
func NewHasher(cfg config.SecurityConfig) *Hasher {
	h := &Hasher{
		time:    cfg.Argon2Time,
		memory:  cfg.Argon2Memory,
		threads: cfg.Argon2Threads,
		keyLen:  cfg.Argon2KeyLength,
		saltLen: cfg.Argon2SaltLen,
	}
	if h.saltLen == 0 {
		h.saltLen = 16
	}
	if h.keyLen == 0 {
		h.keyLen = 32
	}
	if h.threads == 0 {
		h.threads = 1
	}
	return h
}

// Hash creates a new Argon2id hash for the supplied plain text password.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, h.time, h.memory, h.threads, h.keyLen)
	enc := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.time, h.threads, enc.EncodeToString(salt), enc.EncodeToString(key)), nil
}

// Compare verifies that password matches hash using the parameters encoded
// in the hash, in constant time.
func (h *Hasher) Compare(hash, password string) error {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return ErrInvalidHash
	}
	var (
		memory, iterations uint32
		threads            uint8
	)
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return ErrInvalidHash
	}

	enc := base64.RawStdEncoding
	salt, err := enc.DecodeString(parts[4])
	if err != nil {
		return ErrInvalidHash
	}
	want, err := enc.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return ErrInvalidHash
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(want)))
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrMismatch
	}
	return nil
}
