package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// DefaultShutdownTimeout controls how long to wait for graceful shutdowns.
const DefaultShutdownTimeout = 10 * time.Second

// Drain shuts srv down, waiting at most timeout for in-flight requests. A non-positive
// timeout selects DefaultShutdownTimeout. A server that already closed is not an error.
func Drain(srv *Server, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
