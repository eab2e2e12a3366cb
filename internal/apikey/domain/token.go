package domain

import "strings"

// FormatToken assembles the bearer token handed to the key owner.
func FormatToken(prefix, secret string) string {
	return TokenMarker + prefix + "." + secret
}

// ParseToken splits "ak_<prefix>.<secret>" into its parts. Prefix and secret must both be
// non-empty and separated by exactly one dot.
func ParseToken(token string) (prefix, secret string, err error) {
	rest, ok := strings.CutPrefix(token, TokenMarker)
	if !ok || strings.Count(rest, ".") != 1 {
		return "", "", ErrInvalidTokenFormat
	}

	prefix, secret, _ = strings.Cut(rest, ".")
	if prefix == "" || secret == "" {
		return "", "", ErrInvalidTokenFormat
	}
	return prefix, secret, nil
}
