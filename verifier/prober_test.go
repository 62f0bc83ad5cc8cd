package verifier

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listenerPort(t *testing.T, addr net.Addr) int {
	t.Helper()
	_, portStr, err := net.SplitHostPort(addr.String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return port
}

func TestSmokeTestHealthyEndpoint(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	ok, detail := smokeTest(listenerPort(t, ts.Listener.Addr()), 3, 10*time.Millisecond)
	assert.True(t, ok)
	assert.Equal(t, "HTTP 200", detail)
}

func TestSmokeTestErrorStatusCountsAsAlive(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	ok, detail := smokeTest(listenerPort(t, ts.Listener.Addr()), 3, 10*time.Millisecond)
	assert.True(t, ok, "an answering application is alive regardless of status")
	assert.Equal(t, "HTTP 500", detail)
}

func TestSmokeTestUnreachablePort(t *testing.T) {
	// Grab a free port and close it again so nothing listens there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listenerPort(t, ln.Addr())
	require.NoError(t, ln.Close())

	ok, detail := smokeTest(port, 2, time.Millisecond)
	assert.False(t, ok)
	assert.Contains(t, detail, "2 attempts")
}

func TestParseHostPort(t *testing.T) {
	port, err := parseHostPort("0.0.0.0:32768\n")
	require.NoError(t, err)
	assert.Equal(t, 32768, port)

	port, err = parseHostPort("0.0.0.0:49153\n[::]:49153\n")
	require.NoError(t, err)
	assert.Equal(t, 49153, port)

	_, err = parseHostPort("")
	assert.Error(t, err)
}
