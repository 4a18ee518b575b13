package helper

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

// ClosedLocalAddress returns a loopback host and port that nothing listens on,
// so dialing it is refused immediately.
func ClosedLocalAddress(t testing.TB) (string, int) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "error in arranging test data")

	addr := listener.Addr().(*net.TCPAddr)
	require.NoError(t, listener.Close(), "error in arranging test data")

	return addr.IP.String(), addr.Port
}
