package domain

// HTTP headers carrying credentials and request signatures.
const (
	HeaderAPIKey    = "X-API-Key"
	HeaderTimestamp = "X-Timestamp"
	HeaderSignature = "X-Signature"
)

// TokenMarker starts every API key token.
const TokenMarker = "ak_"

// MaxNameLength bounds APIKey.Name.
const MaxNameLength = 100
