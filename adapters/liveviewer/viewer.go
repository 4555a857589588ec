package liveviewer

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"edadash/domain/core"
	"edadash/domain/table"
	"edadash/internal/netutil"
)

// Viewer is one running viewer server bound to a loopback port. It serves a
// single table until Close is called or the process exits.
type Viewer struct {
	ID        core.ID
	Port      int
	URL       string
	StartedAt core.Timestamp

	table  *table.Table
	server *http.Server
	done   chan struct{}

	mu       sync.Mutex
	serveErr error
	closed   bool
}

// newViewer wires the router for t onto an already bound listener
func newViewer(id core.ID, t *table.Table, port int) *Viewer {
	v := &Viewer{
		ID:        id,
		Port:      port,
		URL:       netutil.LocalURL(port),
		StartedAt: core.Now(),
		table:     t,
		done:      make(chan struct{}),
	}
	v.server = &http.Server{
		Handler:           newRouter(v),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return v
}

// serve starts accepting on ln in a background goroutine. The listener is
// already bound, so connections queue even before the goroutine runs.
func (v *Viewer) serve(ln net.Listener) {
	go func() {
		defer close(v.done)
		err := v.server.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			v.mu.Lock()
			v.serveErr = err
			v.mu.Unlock()
		}
	}()
}

// Table returns the table being served
func (v *Viewer) Table() *table.Table {
	return v.table
}

// Err returns the error that stopped the server, if any
func (v *Viewer) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.serveErr
}

// Done is closed once the server has stopped accepting
func (v *Viewer) Done() <-chan struct{} {
	return v.done
}

// Shutdown drains in-flight requests and stops the server
func (v *Viewer) Shutdown(ctx context.Context) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true
	v.mu.Unlock()

	if err := v.server.Shutdown(ctx); err != nil {
		return v.server.Close()
	}
	return nil
}

// Close stops the server, waiting at most five seconds for open requests
func (v *Viewer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return v.Shutdown(ctx)
}
