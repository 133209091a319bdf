package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, trace *bytes.Buffer) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	if trace == nil {
		return NewClient(srv.URL+"/", time.Second, nil)
	}
	return NewClient(srv.URL+"/", time.Second, trace)
}

func TestClientCodedError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"SESSION_NOT_FOUND","message":"Session not found"}}`))
	}, nil)

	err := c.Post(context.Background(), "/api/terminar_partida_por_id", map[string]int{"id_partida": 9}, nil)

	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, http.StatusNotFound, remote.Status)
	assert.Equal(t, "SESSION_NOT_FOUND", remote.Code)
	assert.Equal(t, "Session not found (SESSION_NOT_FOUND)", err.Error())
}

func TestClientMessageError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"Faltan datos"}`))
	}, nil)

	err := c.PostForm(context.Background(), "/registro", url.Values{}, nil)
	require.Error(t, err)
	assert.Equal(t, "Faltan datos", err.Error())
}

func TestClientPlainError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}, nil)

	err := c.Get(context.Background(), "/api/health", nil)
	require.Error(t, err)
	assert.Equal(t, "HTTP 502: bad gateway", err.Error())
}

func TestClientDecodesAndTraces(t *testing.T) {
	var trace bytes.Buffer
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "Ana", r.PostForm.Get("nombre"))
		w.Header().Set("X-Request-ID", "req-1")
		_, _ = w.Write([]byte(`{"success":true,"message":"Jugador registrado"}`))
	}, &trace)

	var result Result
	require.NoError(t, c.PostForm(context.Background(), "/registro", url.Values{"nombre": {"Ana"}}, &result))

	assert.True(t, result.Success)
	assert.Equal(t, "Jugador registrado", result.Message)
	assert.Contains(t, trace.String(), "> POST ")
	assert.Contains(t, trace.String(), "< 200 req-1")
}
