package web_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/elevate/internal/testutil"
	"github.com/mcoot/elevate/internal/web"
)

func TestServerServesUntilShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	cfg := web.DefaultServerConfig()
	cfg.Addr = ln.Addr().String()
	server := web.NewServer(handler, cfg, testutil.NopLogger())
	assert.Equal(t, ln.Addr().String(), server.Addr())

	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "ok", string(body))

	require.NoError(t, server.Shutdown(context.Background()))
	assert.NoError(t, <-errCh)
}
