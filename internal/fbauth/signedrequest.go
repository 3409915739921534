// Package fbauth decodes the signed requests the platform POSTs to the app.
// A signed request is "<signature>.<payload>" where both segments are
// base64url-encoded and the signature is an HMAC-SHA256 over the raw payload
// segment.
package fbauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
)

// PayloadUser carries the per-user fields the platform includes alongside
// the identity assertion.
type PayloadUser struct {
	Country string `json:"country"`
	Locale  string `json:"locale"`
}

// Payload is the decoded body of a verified signed request. UserID is empty
// when the user has not yet authorized the app.
type Payload struct {
	Algorithm  string       `json:"algorithm"`
	UserID     string       `json:"user_id"`
	IssuedAt   int64        `json:"issued_at"`
	OAuthToken string       `json:"oauth_token,omitempty"`
	User       *PayloadUser `json:"user,omitempty"`
}

// Decode verifies raw against secret and returns the payload, or nil if the
// request is malformed or the signature doesn't check out. Callers treat nil
// uniformly as "unauthenticated".
func Decode(raw string, secret []byte) *Payload {
	sigSeg, payloadSeg, ok := strings.Cut(raw, ".")
	if !ok {
		return nil
	}
	// The platform omits padding; tolerate it either way, but then the MAC
	// has to cover the stripped segment we actually decode.
	payloadSeg = strings.TrimRight(payloadSeg, "=")

	sig, err := decodeSegment(sigSeg)
	if err != nil {
		return nil
	}
	body, err := decodeSegment(payloadSeg)
	if err != nil {
		return nil
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	if !strings.EqualFold(payload.Algorithm, "HMAC-SHA256") {
		return nil
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payloadSeg))
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return nil
	}

	return &payload
}

// Sign produces a signed request for payload, the counterpart of Decode.
// Used by tests and local tooling; the platform does the signing in
// production.
func Sign(payload *Payload, secret []byte) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	payloadSeg := base64.RawURLEncoding.EncodeToString(body)

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payloadSeg))
	sigSeg := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	return sigSeg + "." + payloadSeg, nil
}

// decodeSegment accepts base64url with or without padding; the platform
// omits it.
func decodeSegment(seg string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(seg, "="))
}
