package ioschedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/filmograph/filmdb/internal/iometrics"
	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// MetricsServer serves Prometheus metrics as a supervised service.
type MetricsServer struct {
	server *http.Server
}

// NewMetricsServer creates a metrics endpoint on addr.
func NewMetricsServer(addr string) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", iometrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return &MetricsServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the routes of the endpoint.
func (m *MetricsServer) Handler() http.Handler {
	return m.server.Handler
}

// Serve listens until ctx is done, then shuts the server down.
func (m *MetricsServer) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		err := m.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	slog.Info("Metrics endpoint started", "address", m.server.Addr)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("metrics server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

func (m *MetricsServer) String() string {
	return "metrics-server"
}

// NewSupervisor creates a supervisor of the given services that logs
// restarts and failures through slog.
func NewSupervisor(services ...suture.Service) *suture.Supervisor {
	handler := &sutureslog.Handler{Logger: slog.Default()}
	res := suture.New("filmdb", suture.Spec{
		EventHook:        handler.MustHook(),
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		Timeout:          10 * time.Second,
	})
	for _, v := range services {
		res.Add(v)
	}
	return res
}
