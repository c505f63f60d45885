package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adarsh180/accidentaware/internal/entity"
)

func TestCreateIntent_Success(t *testing.T) {
	var gotAuthUser, gotAuthPass string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)
		gotAuthUser, gotAuthPass, _ = r.BasicAuth()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"order_abc","amount":119800,"currency":"INR","receipt":"rcpt_1","status":"created"}`))
	}))
	defer srv.Close()

	c := NewRazorpayClient(srv.URL, "key-id", "key-secret", time.Second)
	in, err := c.CreateIntent(context.Background(), 119800, "INR", "rcpt_1")
	require.NoError(t, err)

	assert.Equal(t, "order_abc", in.ID)
	assert.Equal(t, int64(119800), in.AmountCents)
	assert.Equal(t, "INR", in.Currency)
	assert.Equal(t, "created", in.Status)
	assert.Equal(t, "key-id", gotAuthUser)
	assert.Equal(t, "key-secret", gotAuthPass)
	assert.Equal(t, float64(119800), gotBody["amount"])
	assert.Equal(t, "rcpt_1", gotBody["receipt"])
}

func TestCreateIntent_BadRequestIsInvalidAmount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount must be at least 100"}}`))
	}))
	defer srv.Close()

	c := NewRazorpayClient(srv.URL, "key-id", "key-secret", time.Second)
	_, err := c.CreateIntent(context.Background(), 1, "INR", "rcpt_1")

	require.ErrorIs(t, err, entity.ErrInvalidAmount)
	assert.Contains(t, err.Error(), "at least 100")
}

func TestCreateIntent_ServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewRazorpayClient(srv.URL, "key-id", "key-secret", time.Second)
	_, err := c.CreateIntent(context.Background(), 59900, "INR", "rcpt_1")

	assert.ErrorIs(t, err, entity.ErrGatewayUnavailable)
}

func TestCreateIntent_ConnectionRefusedIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewRazorpayClient(srv.URL, "key-id", "key-secret", time.Second)
	_, err := c.CreateIntent(context.Background(), 59900, "INR", "rcpt_1")

	assert.ErrorIs(t, err, entity.ErrGatewayUnavailable)
}

func TestCreateIntent_TimeoutIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewRazorpayClient(srv.URL, "key-id", "key-secret", time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.CreateIntent(ctx, 59900, "INR", "rcpt_1")
	assert.ErrorIs(t, err, entity.ErrGatewayUnavailable)
}

func TestCreateIntent_GarbageResponseIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewRazorpayClient(srv.URL, "key-id", "key-secret", time.Second)
	_, err := c.CreateIntent(context.Background(), 59900, "INR", "rcpt_1")

	assert.ErrorIs(t, err, entity.ErrGatewayUnavailable)
}
