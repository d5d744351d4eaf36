package security

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

type Argon2Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// DefaultParams cost roughly 100-300ms per hash on commodity hardware.
var DefaultParams = Argon2Params{
	Time:    3,
	Memory:  64 * 1024,
	Threads: 2,
	KeyLen:  32,
	SaltLen: 16,
}

// Hasher hashes and verifies passwords. At most `concurrency` hashes run at
// once; further callers wait for a slot instead of failing.
type Hasher struct {
	params Argon2Params
	slots  *semaphore.Weighted
	dummy  []byte
}

func NewHasher(params Argon2Params, concurrency int) (*Hasher, error) {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	h := &Hasher{
		params: params,
		slots:  semaphore.NewWeighted(int64(concurrency)),
	}

	dummy, err := hashArgon2("folio-dummy-password", params)
	if err != nil {
		return nil, err
	}
	h.dummy = dummy
	return h, nil
}

func (h *Hasher) Hash(ctx context.Context, password string) ([]byte, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire hash slot: %w", err)
	}
	defer h.slots.Release(1)

	return hashArgon2(password, h.params)
}

// Verify reports whether password matches digest. Malformed digests and
// cancelled contexts yield false.
func (h *Hasher) Verify(ctx context.Context, password string, digest []byte) bool {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.slots.Release(1)

	return verifyDigest(password, digest)
}

// VerifyDummy spends the same work as Verify against a digest that never
// matches. Used when there is no stored digest so both paths cost the same.
func (h *Hasher) VerifyDummy(ctx context.Context, password string) {
	_ = h.Verify(ctx, password+"\x00", h.dummy)
}

func hashArgon2(password string, params Argon2Params) ([]byte, error) {
	salt := make([]byte, params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Threads, params.KeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, params.Memory, params.Time, params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash))

	return []byte(encoded), nil
}

func verifyDigest(password string, digest []byte) bool {
	encoded := string(digest)
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		return verifyArgon2(password, encoded)
	case strings.HasPrefix(encoded, "$2a$"), strings.HasPrefix(encoded, "$2b$"), strings.HasPrefix(encoded, "$2y$"):
		// accounts imported from the previous deployment carry bcrypt digests
		return bcrypt.CompareHashAndPassword(digest, []byte(password)) == nil
	default:
		return false
	}
}

func verifyArgon2(password string, encoded string) bool {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, hash
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return false
	}

	params, ok := parseParams(parts[3])
	if !ok {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return false
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Threads, uint32(len(hash)))

	return subtle.ConstantTimeCompare(hash, computed) == 1
}

// parseParams reads "m=..,t=..,p=..". Each key must appear exactly once.
func parseParams(s string) (Argon2Params, bool) {
	var params Argon2Params
	seen := map[string]bool{}
	for _, kv := range strings.Split(s, ",") {
		key, value, found := strings.Cut(kv, "=")
		if !found || seen[key] {
			return Argon2Params{}, false
		}
		seen[key] = true
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil || n == 0 {
			return Argon2Params{}, false
		}
		switch key {
		case "m":
			params.Memory = uint32(n)
		case "t":
			params.Time = uint32(n)
		case "p":
			if n > 255 {
				return Argon2Params{}, false
			}
			params.Threads = uint8(n)
		default:
			return Argon2Params{}, false
		}
	}
	if !seen["m"] || !seen["t"] || !seen["p"] {
		return Argon2Params{}, false
	}
	return params, true
}
