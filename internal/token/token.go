// Package token issues the activation codes used to confirm account-link
// requests over email. A code is bound to both its issue time and a snapshot
// of the link's state, so it expires on its own and dies the moment the link
// changes underneath it.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const digestLen = 20 // hex chars kept from the HMAC digest

// Generator produces and verifies state-bound activation codes.
type Generator struct {
	secret []byte
	delay  time.Duration
	now    func() time.Time
}

// New returns a Generator whose codes stay valid for delay after issuance.
func New(secret []byte, delay time.Duration) *Generator {
	return &Generator{secret: secret, delay: delay, now: time.Now}
}

// WithClock overrides the time source. Tests use this to move the clock.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate derives a code from the current time and the given state
// snapshot. The code is opaque to callers but URL-safe.
func (g *Generator) Generate(state string) string {
	return g.generateAt(state, g.now().Unix())
}

// Verify reports whether code was generated for state within the validity
// window. It recomputes from the *current* state, so a stale code presented
// after the state changed fails even inside the window.
func (g *Generator) Verify(code, state string) bool {
	tsSeg, _, ok := strings.Cut(code, "-")
	if !ok {
		return false
	}
	ts, err := strconv.ParseInt(tsSeg, 36, 64)
	if err != nil {
		return false
	}

	age := g.now().Unix() - ts
	if age < 0 || age > int64(g.delay/time.Second) {
		return false
	}

	expected := g.generateAt(state, ts)
	return hmac.Equal([]byte(expected), []byte(code))
}

func (g *Generator) generateAt(state string, ts int64) string {
	mac := hmac.New(sha256.New, g.secret)
	fmt.Fprintf(mac, "%d\x00%s", ts, state)
	digest := hex.EncodeToString(mac.Sum(nil))
	return strconv.FormatInt(ts, 36) + "-" + digest[:digestLen]
}
