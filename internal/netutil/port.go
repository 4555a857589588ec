// Package netutil reserves local TCP ports for live viewers.
//
// AllocatePort asks the kernel for an ephemeral port and releases it at once,
// so a caller binding afterwards races any other process for that port.
// ListenFresh binds immediately after allocation.
package netutil

import (
	"context"
	"fmt"
	"net"
	"syscall"

	"edadash/domain/core"
)

// loopback is the only interface viewers bind to.
const loopback = "127.0.0.1"

var reuseAddr = net.ListenConfig{
	Control: func(network, address string, c syscall.RawConn) error {
		var sockErr error
		err := c.Control(func(fd uintptr) {
			sockErr = setReuseAddr(fd)
		})
		if err != nil {
			return err
		}
		return sockErr
	},
}

// AllocatePort returns a port in [1, 65535] that was free at the time of the
// call. Failure to open a socket is reported as ErrResourceUnavailable.
func AllocatePort() (int, error) {
	ln, err := reuseAddr.Listen(context.Background(), "tcp", net.JoinHostPort(loopback, "0"))
	if err != nil {
		return 0, core.NewResourceUnavailableError("ephemeral port", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	if err := ln.Close(); err != nil {
		return 0, core.NewResourceUnavailableError("ephemeral port", err)
	}
	return port, nil
}

// ListenFresh allocates a port and binds it on the loopback interface. A lost
// bind race re-allocates a new port up to attempts times; attempts below 1 are
// treated as 1, which never retries.
func ListenFresh(attempts int) (net.Listener, int, error) {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		port, err := AllocatePort()
		if err != nil {
			return nil, 0, err
		}
		ln, err := Listen(port)
		if err == nil {
			return ln, port, nil
		}
		lastErr = err
	}
	return nil, 0, lastErr
}

// Listen binds an explicit loopback port. A port already in use is reported as
// ErrResourceUnavailable.
func Listen(port int) (net.Listener, error) {
	if port < 1 || port > 65535 {
		return nil, core.NewInvalidInputError(fmt.Sprintf("port %d out of range", port), nil)
	}
	ln, err := net.Listen("tcp", net.JoinHostPort(loopback, fmt.Sprint(port)))
	if err != nil {
		return nil, core.NewResourceUnavailableError(fmt.Sprintf("bind port %d", port), err)
	}
	return ln, nil
}

// LocalURL formats the address callers open in a browser.
func LocalURL(port int) string {
	return fmt.Sprintf("http://localhost:%d", port)
}
