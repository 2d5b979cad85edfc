package xpost

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/vaultforge/internal/config"
	apperrors "github.com/dpshade/vaultforge/internal/errors"
)

var testCreds = config.XCredentials{
	APIKey: "ck", APISecret: "cs", AccessToken: "at", AccessSecret: "as",
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(config.XCredentials{APIKey: "only"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConfiguration))
}

func TestPostSignsAndReturnsID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		assert.True(t, strings.HasPrefix(auth, "OAuth "), auth)
		assert.Contains(t, auth, `oauth_consumer_key="ck"`)
		assert.Contains(t, auth, `oauth_token="at"`)

		var body createRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello #go", body.Text)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"data":{"id":"1234567890","text":"hello #go"}}`)
	}))
	defer srv.Close()

	c, err := NewClient(testCreds, WithEndpoint(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	id, err := c.Post(context.Background(), "hello #go")
	require.NoError(t, err)
	assert.Equal(t, "1234567890", id)
}

func TestPostErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"title":"Forbidden","detail":"duplicate content"}`)
	}))
	defer srv.Close()

	c, err := NewClient(testCreds, WithEndpoint(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = c.Post(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeXPost))
	assert.Contains(t, err.Error(), "duplicate content")
}

func TestPostMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{}}`)
	}))
	defer srv.Close()

	c, err := NewClient(testCreds, WithEndpoint(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = c.Post(context.Background(), "x")
	assert.Error(t, err)
}
