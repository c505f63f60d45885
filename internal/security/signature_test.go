package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentVerifier_AcceptsValidSignature(t *testing.T) {
	v, err := NewPaymentVerifier("key-secret")
	require.NoError(t, err)

	sig := Sign("key-secret", "order_1", "pay_1")
	assert.NoError(t, v.Verify("order_1", "pay_1", sig))
}

func TestPaymentVerifier_RejectsTamperedSignature(t *testing.T) {
	v, err := NewPaymentVerifier("key-secret")
	require.NoError(t, err)

	sig := Sign("key-secret", "order_1", "pay_1")
	tampered := []byte(sig)
	if tampered[0] == 'a' {
		tampered[0] = 'b'
	} else {
		tampered[0] = 'a'
	}

	assert.Error(t, v.Verify("order_1", "pay_1", string(tampered)))
}

func TestPaymentVerifier_RejectsWrongRefs(t *testing.T) {
	v, err := NewPaymentVerifier("key-secret")
	require.NoError(t, err)
	sig := Sign("key-secret", "order_1", "pay_1")

	tests := []struct {
		name             string
		orderRef, payRef string
	}{
		{"swapped refs", "pay_1", "order_1"},
		{"different order", "order_2", "pay_1"},
		{"different payment", "order_1", "pay_2"},
		{"empty refs", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, v.Verify(tt.orderRef, tt.payRef, sig))
		})
	}
}

func TestPaymentVerifier_SecretMatters(t *testing.T) {
	v, err := NewPaymentVerifier("secret-a")
	require.NoError(t, err)

	sig := Sign("secret-b", "order_1", "pay_1")
	assert.Error(t, v.Verify("order_1", "pay_1", sig))
}

func TestPaymentVerifier_KnownVector(t *testing.T) {
	// echo -n "order_1|pay_1" | openssl dgst -sha256 -hmac "key-secret"
	const want = "5e0781daf9ca49ca8bcdbe2023ee024d94ba973ed2534739a2970c200144e8cc"
	assert.Equal(t, want, Sign("key-secret", "order_1", "pay_1"))

	v, err := NewPaymentVerifier("key-secret")
	require.NoError(t, err)
	assert.NoError(t, v.Verify("order_1", "pay_1", want))
}

func TestNewPaymentVerifier_EmptySecret(t *testing.T) {
	_, err := NewPaymentVerifier("")
	assert.Error(t, err)
}
