//go:build !integration

package security

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strconv"
	"testing"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestTokenGenerator_Nonce(t *testing.T) {
	g := NewTokenGenerator(nil)

	a, err := g.Nonce()
	if err != nil {
		t.Fatalf("Nonce: %v", err)
	}
	b, _ := g.Nonce()
	if len(a) != NonceBytes*2 {
		t.Errorf("expected %d hex chars, got %d", NonceBytes*2, len(a))
	}
	if _, err := hex.DecodeString(a); err != nil {
		t.Errorf("nonce is not hex: %v", err)
	}
	if a == b {
		t.Error("two nonces from crypto/rand must differ")
	}
}

func TestTokenGenerator_DeterministicSource(t *testing.T) {
	seq := bytes.Repeat([]byte{0xab}, 64)
	n1, err := NewTokenGenerator(bytes.NewReader(seq)).Nonce()
	if err != nil {
		t.Fatalf("Nonce: %v", err)
	}
	n2, _ := NewTokenGenerator(bytes.NewReader(seq)).Nonce()
	if n1 != n2 {
		t.Errorf("same source must yield same nonce: %s vs %s", n1, n2)
	}
	if n1 != hex.EncodeToString(seq[:NonceBytes]) {
		t.Errorf("unexpected nonce %s", n1)
	}
}

func TestTokenGenerator_PaymentTokenRange(t *testing.T) {
	g := NewTokenGenerator(nil)
	for i := 0; i < 200; i++ {
		tok, err := g.PaymentToken()
		if err != nil {
			t.Fatalf("PaymentToken: %v", err)
		}
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			t.Fatalf("token %q is not numeric", tok)
		}
		if n < paymentTokenMin || n > paymentTokenMax {
			t.Fatalf("token %d out of range", n)
		}
	}
}

func TestTokenGenerator_SourceErrors(t *testing.T) {
	g := NewTokenGenerator(failingReader{})
	if _, err := g.Nonce(); err == nil {
		t.Error("expected nonce error")
	}
	if _, err := g.PaymentToken(); err == nil {
		t.Error("expected payment token error")
	}
}
