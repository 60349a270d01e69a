package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyValidToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bot123:abc/getMe", r.URL.Path)
		w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"username":"nova_bot"}}`))
	}))
	defer srv.Close()

	v := NewVerifier(srv.URL)
	username, err := v.Verify(context.Background(), "123:abc")
	require.NoError(t, err)
	assert.Equal(t, "nova_bot", username)
}

func TestVerifyRejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	v := NewVerifier(srv.URL)
	_, err := v.Verify(context.Background(), "bad-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformedTokenRejected(t *testing.T) {
	// The Bot API answers malformed tokens with a JSON 404, not a 401.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
	}))
	defer srv.Close()

	v := NewVerifier(srv.URL)
	_, err := v.Verify(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyUnreachableProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	v := NewVerifier(srv.URL)
	_, err := v.Verify(context.Background(), "123:abc")
	require.Error(t, err)
	// Unreachable is NOT the invalid-token outcome
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMissingUsername(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true}}`))
	}))
	defer srv.Close()

	v := NewVerifier(srv.URL)
	username, err := v.Verify(context.Background(), "123:abc")
	require.NoError(t, err)
	assert.Equal(t, "unknown", username)
}
