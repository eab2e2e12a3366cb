// Package service provides API key issuance and HMAC request signature verification.
package service

// KeyGenerator issues new API key material.
type KeyGenerator interface {
	// Issue returns an independent random prefix and secret, and the token built from them.
	Issue() (prefix, secret, token string, err error)
}

// SignatureVerifier checks the optional HMAC signature on an authenticated request.
type SignatureVerifier interface {
	// Verify returns nil when both signing headers are absent or the signature is valid.
	Verify(secret string, in SignatureInput) error
}

// SignatureInput is the part of a request covered by the signature.
type SignatureInput struct {
	Method    string
	Path      string // Without the query string
	Body      []byte
	Timestamp string // Raw X-Timestamp header
	Signature string // Raw X-Signature header, lowercase hex
}
