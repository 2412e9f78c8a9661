package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
)

// SubscribeMode is the hub.mode value sent by the platform when registering a webhook.
const SubscribeMode = "subscribe"

// SignatureHeader carries the HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Hub-Signature-256"

// ErrBadSignature is returned when a delivery's signature does not match its body.
var ErrBadSignature = errors.New("invalid webhook signature")

// Verifier answers subscription handshakes and authenticates deliveries.
type Verifier struct {
	verifyToken string
	appSecret   string
}

// NewVerifier creates a Verifier. An empty appSecret disables signature checks.
func NewVerifier(verifyToken, appSecret string) *Verifier {
	return &Verifier{verifyToken: verifyToken, appSecret: appSecret}
}

// Verify returns the challenge to echo when mode is subscribe and token
// matches the configured verify token.
func (v *Verifier) Verify(mode, token, challenge string) (string, bool) {
	if mode != SubscribeMode || v.verifyToken == "" {
		return "", false
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(v.verifyToken)) != 1 {
		return "", false
	}
	return challenge, true
}

// CheckSignature validates header, formatted as "sha256=<hex>", against body.
func (v *Verifier) CheckSignature(body []byte, header string) error {
	if v.appSecret == "" {
		return nil
	}

	sig, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return ErrBadSignature
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return ErrBadSignature
	}

	mac := hmac.New(sha256.New, []byte(v.appSecret))
	mac.Write(body)
	if !hmac.Equal(got, mac.Sum(nil)) {
		return ErrBadSignature
	}
	return nil
}

// Sign computes the signature header value for body. Used by tests and tooling
// that replay deliveries.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
