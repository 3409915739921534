package fbauth

import (
	"encoding/base64"
	"strings"
	"testing"
)

var testSecret = []byte("app-secret-for-tests")

func signedRequest(t *testing.T, payload *Payload, secret []byte) string {
	t.Helper()
	raw, err := Sign(payload, secret)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	return raw
}

func TestDecode_RoundTrip(t *testing.T) {
	payload := &Payload{
		Algorithm: "HMAC-SHA256",
		UserID:    "1234567890",
		IssuedAt:  1350000000,
		User:      &PayloadUser{Country: "fr", Locale: "fr_FR"},
	}
	raw := signedRequest(t, payload, testSecret)

	decoded := Decode(raw, testSecret)
	if decoded == nil {
		t.Fatal("Decode() returned nil for a valid signed request")
	}
	if decoded.UserID != "1234567890" {
		t.Errorf("UserID = %q, want %q", decoded.UserID, "1234567890")
	}
	if decoded.User == nil || decoded.User.Country != "fr" {
		t.Errorf("User country not recovered: %+v", decoded.User)
	}
}

func TestDecode_WrongSecret(t *testing.T) {
	raw := signedRequest(t, &Payload{Algorithm: "HMAC-SHA256", UserID: "1"}, testSecret)

	if got := Decode(raw, []byte("some-other-secret")); got != nil {
		t.Fatalf("Decode() with wrong secret = %+v, want nil", got)
	}
}

func TestDecode_TamperedPayload(t *testing.T) {
	raw := signedRequest(t, &Payload{Algorithm: "HMAC-SHA256", UserID: "1"}, testSecret)

	sigSeg, _, _ := strings.Cut(raw, ".")
	forged := base64.RawURLEncoding.EncodeToString(
		[]byte(`{"algorithm":"HMAC-SHA256","user_id":"999"}`))

	if got := Decode(sigSeg+"."+forged, testSecret); got != nil {
		t.Fatalf("Decode() accepted tampered payload: %+v", got)
	}
}

func TestDecode_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"no delimiter":  "abcdef",
		"bad base64":    "!!not-base64!!.!!also-not!!",
		"bad json":      base64.RawURLEncoding.EncodeToString([]byte("sig")) + "." + base64.RawURLEncoding.EncodeToString([]byte("not json")),
		"empty payload": base64.RawURLEncoding.EncodeToString([]byte("sig")) + ".",
	}

	for name, raw := range cases {
		if got := Decode(raw, testSecret); got != nil {
			t.Errorf("%s: Decode() = %+v, want nil", name, got)
		}
	}
}

func TestDecode_UnsupportedAlgorithm(t *testing.T) {
	raw := signedRequest(t, &Payload{Algorithm: "HMAC-MD5", UserID: "1"}, testSecret)

	if got := Decode(raw, testSecret); got != nil {
		t.Fatalf("Decode() accepted unsupported algorithm: %+v", got)
	}
}

func TestDecode_PaddedSegments(t *testing.T) {
	// The platform strips base64 padding but some test harnesses don't.
	raw := signedRequest(t, &Payload{Algorithm: "HMAC-SHA256", UserID: "42"}, testSecret)
	sigSeg, payloadSeg, _ := strings.Cut(raw, ".")

	padded := sigSeg + "==." + payloadSeg + "=="
	decoded := Decode(padded, testSecret)
	if decoded == nil || decoded.UserID != "42" {
		t.Fatalf("Decode() rejected padded segments: %+v", decoded)
	}
}
