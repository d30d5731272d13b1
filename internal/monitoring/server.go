package monitoring

import (
	"context"
	"log"
	"net/http"
	"time"
)

// Serve exposes /metrics on addr in the background. The returned server
// should be shut down by the caller once the run finishes. Long
// optimizations are the intended consumer; one-shot backtests have no
// reason to scrape.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			// The run itself must not die because the scrape port is taken.
			log.Printf("⚠️ metrics server: %v", err)
		}
	}()

	return srv
}

// Shutdown stops the metrics server, waiting briefly for in-flight
// scrapes.
func Shutdown(srv *http.Server) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
}
