// AngelaMos | 2026
// password.go

package core

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

// ArgonParams are the argon2id cost settings encoded into every hash.
type ArgonParams struct {
	Memory  uint32
	Time    uint32
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

var DefaultArgonParams = ArgonParams{
	Memory:  64 * 1024,
	Time:    1,
	Threads: 4,
	KeyLen:  32,
	SaltLen: 16,
}

var ErrMalformedHash = errors.New("malformed password hash")

// PasswordCheck is the outcome of comparing a password to a stored hash.
// Rehash is set when the password matched a hash produced with outdated
// parameters; callers should persist it.
type PasswordCheck struct {
	Match  bool
	Rehash string
}

func HashPassword(password string) (string, error) {
	return hashWith(password, DefaultArgonParams)
}

func hashWith(password string, p ArgonParams) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)

	return encodedHash{params: p, salt: salt, key: key}.String(), nil
}

func CheckPassword(password, stored string) (PasswordCheck, error) {
	h, err := parseHash(stored)
	if err != nil {
		return PasswordCheck{}, err
	}

	if !h.matches(password) {
		return PasswordCheck{}, nil
	}

	check := PasswordCheck{Match: true}
	if !h.params.sameCost(DefaultArgonParams) {
		// A failed rehash still lets the login through on the old hash.
		if fresh, err := HashPassword(password); err == nil {
			check.Rehash = fresh
		}
	}
	return check, nil
}

var dummyHash = sync.OnceValues(func() (string, error) {
	return HashPassword("crm-login-timing-equalizer")
})

// CheckPasswordOrDummy behaves like CheckPassword but, when no stored hash
// exists, burns the same argon2 work against a throwaway hash and reports no
// match. Login uses it so unknown usernames take as long as wrong passwords.
func CheckPasswordOrDummy(password, stored string) (PasswordCheck, error) {
	if stored != "" {
		return CheckPassword(password, stored)
	}

	dummy, err := dummyHash()
	if err != nil {
		return PasswordCheck{}, fmt.Errorf("dummy hash: %w", err)
	}
	_, _ = CheckPassword(password, dummy) //nolint:errcheck // result intentionally discarded
	return PasswordCheck{}, nil
}

type encodedHash struct {
	params ArgonParams
	salt   []byte
	key    []byte
}

// String renders the PHC form $argon2id$v=19$m=..,t=..,p=..$salt$key.
func (h encodedHash) String() string {
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(h.salt),
		base64.RawStdEncoding.EncodeToString(h.key),
	)
}

func (h encodedHash) matches(password string) bool {
	other := argon2.IDKey(
		[]byte(password),
		h.salt,
		h.params.Time,
		h.params.Memory,
		h.params.Threads,
		h.params.KeyLen,
	)
	return subtle.ConstantTimeCompare(h.key, other) == 1
}

func parseHash(s string) (encodedHash, error) {
	var h encodedHash

	parts := strings.Split(s, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return h, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return h, fmt.Errorf("%w: version %q", ErrMalformedHash, parts[2])
	}

	if _, err := fmt.Sscanf(
		parts[3],
		"m=%d,t=%d,p=%d",
		&h.params.Memory,
		&h.params.Time,
		&h.params.Threads,
	); err != nil {
		return h, fmt.Errorf("%w: params %q", ErrMalformedHash, parts[3])
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return h, fmt.Errorf("%w: salt", ErrMalformedHash)
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return h, fmt.Errorf("%w: key", ErrMalformedHash)
	}

	h.params.SaltLen = len(h.salt)
	h.params.KeyLen = uint32(len(h.key)) //nolint:gosec // argon2 keys are a few dozen bytes
	return h, nil
}

func (p ArgonParams) sameCost(other ArgonParams) bool {
	return p.Memory == other.Memory &&
		p.Time == other.Time &&
		p.Threads == other.Threads &&
		p.KeyLen == other.KeyLen
}
