package client

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset() {
	mu.Lock()
	httpClient = nil
	defaults = Options{}
	mu.Unlock()
}

// TestGetClientSingleton validates that GetClient returns same instance
func TestGetClientSingleton(t *testing.T) {
	reset()

	client1 := GetClient()
	client2 := GetClient()

	require.NotNil(t, client1)
	assert.Same(t, client1, client2)
}

func TestNewAppliesOptions(t *testing.T) {
	c := New(Options{BaseURL: "http://campus.test/api", Timeout: 5 * time.Second, Token: "tok"})

	assert.Equal(t, "http://campus.test/api", c.BaseURL)
	assert.Equal(t, "tok", c.Token)
	assert.Equal(t, userAgent, c.Header.Get("User-Agent"))
}

func TestRequestsCarryBearerAndRequestID(t *testing.T) {
	var auth, requestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		requestID = r.Header.Get(RequestIDHeader)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, Token: "secret"})
	resp, err := c.R().Get("/message/partners/list")
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode())
	assert.Equal(t, "Bearer secret", auth)
	assert.Len(t, requestID, 36)
}

func TestSetAndClearAuthToken(t *testing.T) {
	reset()
	Init(Options{BaseURL: "http://campus.test/api"})

	SetAuthToken("abc")
	assert.Equal(t, "abc", GetClient().Token)

	ClearAuthToken()
	assert.Empty(t, GetClient().Token)
	assert.Equal(t, "http://campus.test/api", GetClient().BaseURL)
}
