package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"codestats-proxy/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SeeOtherSwitchesToGet(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/graphql":
			assert.Equal(t, http.MethodPost, r.Method)
			http.Redirect(w, r, "/result", http.StatusSeeOther)
		case "/result":
			assert.Equal(t, http.MethodGet, r.Method)
			body, _ := io.ReadAll(r.Body)
			assert.Empty(t, body)
			w.Write([]byte(`{"ok":true}`))
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, err := postJSON[struct {
		OK bool `json:"ok"`
	}](ctx, NewClient(), srv.URL+"/graphql", map[string]string{"q": "x"}, nil)
	require.NoError(t, err)
	assert.True(t, got.OK)
}

func TestClient_TemporaryRedirectKeepsMethod(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/old":
			http.Redirect(w, r, "/new", http.StatusTemporaryRedirect)
		case "/new":
			assert.Equal(t, http.MethodPost, r.Method)
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"q":"x"}`, string(body))
			w.Write([]byte(`{}`))
		}
	})

	_, err := postJSON[map[string]any](context.Background(), NewClient(), srv.URL+"/old", map[string]string{"q": "x"}, nil)
	assert.NoError(t, err)
}

func TestClient_RedirectWithoutLocationIsProtocolError(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	})

	_, err := getText(context.Background(), NewClient(), srv.URL+"/x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstreamProtocol))
}
