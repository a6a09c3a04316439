package utils

import "math/rand/v2"

// DefaultShareTokenLength is the length of generated share tokens
const DefaultShareTokenLength = 10

const shareTokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateShareToken returns a random token drawn uniformly from 0-9a-zA-Z.
// Tokens are unguessable enough for share links, not for credentials.
// Uniqueness is enforced by the database, not here.
func GenerateShareToken(length int) string {
	if length <= 0 {
		length = DefaultShareTokenLength
	}

	b := make([]byte, length)
	for i := range b {
		b[i] = shareTokenAlphabet[rand.IntN(len(shareTokenAlphabet))]
	}
	return string(b)
}

// IsShareToken reports whether s could have been produced by
// GenerateShareToken
func IsShareToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}
