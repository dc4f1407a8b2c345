package surrogate

import (
	"crypto/sha1"
	"encoding/base64"
)

// Reserved token strings hashed once per run to produce the shared bucket surrogates.
const (
	reservedStopWords = "stop words"
	reservedStopAbove = "stop above"
	reservedStopBelow = "stop below"
)

// Hasher computes salted, optionally truncated SHA1 surrogates.
type Hasher struct {
	salt   string
	length int
}

// NewHasher returns a Hasher that appends salt to every token and keeps at
// most length characters of the encoded digest. length <= 0 keeps the full
// 27-character digest.
func NewHasher(salt string, length int) Hasher {
	return Hasher{salt: salt, length: length}
}

// Sum returns base64url_nopad(SHA1(token + salt)), truncated when configured.
func (h Hasher) Sum(token string) string {
	sum := sha1.Sum([]byte(token + h.salt))
	encoded := base64.RawURLEncoding.EncodeToString(sum[:])
	if h.length > 0 && h.length < len(encoded) {
		return encoded[:h.length]
	}
	return encoded
}

// Reserved holds the precomputed shared surrogates for the three buckets.
type Reserved struct {
	StopWord  Value
	StopAbove Value
	StopBelow Value
}

// Reserved hashes the three reserved bucket names with the hasher's salt and length.
func (h Hasher) Reserved() Reserved {
	return Reserved{
		StopWord:  Digest(h.Sum(reservedStopWords)),
		StopAbove: Digest(h.Sum(reservedStopAbove)),
		StopBelow: Digest(h.Sum(reservedStopBelow)),
	}
}
