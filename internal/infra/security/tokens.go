// File: internal/infra/security/tokens.go
package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strconv"
)

const (
	// NonceBytes is the entropy of a correlation nonce; hex encoding doubles the length.
	NonceBytes = 30

	paymentTokenMin = 10000000
	paymentTokenMax = 1999999999
)

// TokenGenerator draws correlation nonces and payment tokens from one random source.
// The zero value uses crypto/rand; tests inject a fixed-sequence reader.
type TokenGenerator struct {
	src io.Reader
}

// NewTokenGenerator wraps src; a nil src means crypto/rand.Reader.
func NewTokenGenerator(src io.Reader) *TokenGenerator {
	return &TokenGenerator{src: src}
}

func (g *TokenGenerator) reader() io.Reader {
	if g == nil || g.src == nil {
		return rand.Reader
	}
	return g.src
}

// Nonce returns NonceBytes random bytes, hex encoded.
func (g *TokenGenerator) Nonce() (string, error) {
	b := make([]byte, NonceBytes)
	if _, err := io.ReadFull(g.reader(), b); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// PaymentToken returns a decimal token uniform in [10000000, 1999999999].
func (g *TokenGenerator) PaymentToken() (string, error) {
	n, err := rand.Int(g.reader(), big.NewInt(paymentTokenMax-paymentTokenMin+1))
	if err != nil {
		return "", fmt.Errorf("rand payment token: %w", err)
	}
	return strconv.FormatInt(n.Int64()+paymentTokenMin, 10), nil
}
