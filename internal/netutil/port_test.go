package netutil

import (
	"net"
	"strconv"
	"testing"

	"edadash/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocatePortReturnsValidPort(t *testing.T) {
	port, err := AllocatePort()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, port, 1)
	assert.LessOrEqual(t, port, 65535)

	// The port was released and can be bound again.
	ln, err := Listen(port)
	require.NoError(t, err)
	require.NoError(t, ln.Close())
}

func TestAllocatePortTwiceGivesDistinctPorts(t *testing.T) {
	first, err := AllocatePort()
	require.NoError(t, err)
	second, err := AllocatePort()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestListenOnBusyPortIsResourceUnavailable(t *testing.T) {
	held, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer held.Close()

	_, err = Listen(held.Addr().(*net.TCPAddr).Port)
	require.Error(t, err)
	assert.True(t, core.IsResourceUnavailable(err))
}

func TestListenRejectsOutOfRangePort(t *testing.T) {
	_, err := Listen(70000)
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))
}

func TestListenFreshBindsAndReportsPort(t *testing.T) {
	ln, port, err := ListenFresh(0)
	require.NoError(t, err)
	defer ln.Close()

	assert.Equal(t, port, ln.Addr().(*net.TCPAddr).Port)
	assert.Equal(t, "http://localhost:"+strconv.Itoa(port), LocalURL(port))
}
