package mbills

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"mbills-payments/internal/domain/ports/adapter"
)

var _ adapter.RequestSigner = (*Signer)(nil)

// Credential is a single-use HTTP Basic credential bound to one URL and one nonce.
type Credential struct {
	Username string
	Password string
}

// Header returns the value that follows "Basic " in the Authorization header.
func (c Credential) Header() string {
	return base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
}

// NonceSource supplies a nonce when the caller does not pass one.
type NonceSource interface {
	PaymentToken() (string, error)
}

// Signer builds the time-boxed mBills auth credential:
//
//	username = clientID "." nonce "." unixSeconds
//	password = hex(sha256(username + clientSecret + url))
type Signer struct {
	clientID     string
	clientSecret string
	now          func() time.Time
	nonces       NonceSource
}

func NewSigner(clientID, clientSecret string, nonces NonceSource, now func() time.Time) (*Signer, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("mbills signer: client id and secret are required")
	}
	if now == nil {
		now = time.Now
	}
	return &Signer{clientID: clientID, clientSecret: clientSecret, now: now, nonces: nonces}, nil
}

// Sign binds a credential to url and nonce. An empty nonce is replaced by a
// freshly generated payment token.
func (s *Signer) Sign(url, nonce string) (Credential, error) {
	if nonce == "" {
		if s.nonces == nil {
			return Credential{}, errors.New("mbills signer: no nonce and no nonce source")
		}
		n, err := s.nonces.PaymentToken()
		if err != nil {
			return Credential{}, err
		}
		nonce = n
	}
	username := s.clientID + "." + nonce + "." + strconv.FormatInt(s.now().Unix(), 10)
	sum := sha256.Sum256([]byte(username + s.clientSecret + url))
	return Credential{Username: username, Password: hex.EncodeToString(sum[:])}, nil
}

// Credential signs url and returns the encoded Basic header value.
func (s *Signer) Credential(url, nonce string) (string, error) {
	c, err := s.Sign(url, nonce)
	if err != nil {
		return "", err
	}
	return c.Header(), nil
}
