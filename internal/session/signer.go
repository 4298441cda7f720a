package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidCookie = errors.New("session: invalid cookie")

// Signer binds session ids to the server secret so a browser cannot
// present an id it was not issued.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("session: signing secret is required")
	}
	return &Signer{secret: []byte(secret)}, nil
}

// Sign returns "<id>.<mac>".
func (s *Signer) Sign(sessionID string) string {
	return sessionID + "." + base64.RawURLEncoding.EncodeToString(s.mac(sessionID))
}

// Verify returns the session id carried by a signed value.
func (s *Signer) Verify(value string) (string, error) {
	id, sig, ok := strings.Cut(value, ".")
	if !ok || id == "" || sig == "" {
		return "", ErrInvalidCookie
	}
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return "", ErrInvalidCookie
	}
	if !hmac.Equal(got, s.mac(id)) {
		return "", ErrInvalidCookie
	}
	return id, nil
}

func (s *Signer) mac(id string) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(id))
	return h.Sum(nil)
}
