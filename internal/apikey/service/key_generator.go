package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	apikeyDomain "github.com/allisson/jobtracker/internal/apikey/domain"
)

const (
	prefixBytes = 9  // 12 base64url chars
	secretBytes = 32 // 43 base64url chars
)

type keyGenerator struct{}

// NewKeyGenerator creates a KeyGenerator backed by crypto/rand. Both parts use unpadded
// base64url, whose alphabet has no '.', so the token separator stays unambiguous.
func NewKeyGenerator() KeyGenerator {
	return &keyGenerator{}
}

func (g *keyGenerator) Issue() (prefix, secret, token string, err error) {
	prefix, err = randomString(prefixBytes)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to generate key prefix: %w", err)
	}

	secret, err = randomString(secretBytes)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to generate key secret: %w", err)
	}

	return prefix, secret, apikeyDomain.FormatToken(prefix, secret), nil
}

func randomString(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
