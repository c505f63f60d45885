package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// PaymentVerifier checks the authenticity of a gateway payment callback.
type PaymentVerifier interface {
	Verify(orderRef, paymentRef, signature string) error
}

type hmacVerifier struct {
	secret []byte
}

// NewPaymentVerifier builds a verifier around the gateway key secret. The
// secret stays server-side; it is never part of any response.
func NewPaymentVerifier(secret string) (PaymentVerifier, error) {
	if secret == "" {
		return nil, errors.New("payment signature secret required")
	}
	return &hmacVerifier{secret: []byte(secret)}, nil
}

// Verify recomputes HMAC-SHA256(secret, orderRef + "|" + paymentRef) and
// compares the hex digest against the supplied signature in constant time.
func (v *hmacVerifier) Verify(orderRef, paymentRef, signature string) error {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderRef + "|" + paymentRef))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return errors.New("signature mismatch")
	}
	return nil
}

// Sign is the inverse of Verify; exported for tests and local tooling that
// need to fabricate gateway callbacks.
func Sign(secret, orderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}
