// Package testutils holds shared helpers for exercising code against a fake
// POS backend.
package testutils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/swiftretail/pos-terminal/internal/config"
	"github.com/swiftretail/pos-terminal/pkg/backend"
)

// NewBackendClient starts an httptest server around handler and returns a
// client pointed at it. The server is torn down with the test.
func NewBackendClient(t *testing.T, handler http.Handler) backend.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return backend.New(config.Backend{
		BaseURL:        server.URL + "/api",
		RequestTimeout: 2 * time.Second,
	})
}
