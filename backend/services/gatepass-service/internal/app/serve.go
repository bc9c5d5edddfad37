package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

// Serve runs srv until it fails or ctx is cancelled. On cancellation it stops
// accepting connections and waits up to grace for in-flight requests.
func Serve(ctx context.Context, srv *http.Server, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	utils.Logger.Info("Shutdown requested; draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
