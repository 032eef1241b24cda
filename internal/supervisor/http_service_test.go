// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

package supervisor

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

type fakeServer struct {
	serveErr    error
	shutdownErr error
	shutdowns   int
	block       chan struct{}
}

func (f *fakeServer) ListenAndServe() error {
	if f.block != nil {
		<-f.block
		return http.ErrServerClosed
	}
	return f.serveErr
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	f.shutdowns++
	if f.block != nil {
		close(f.block)
	}
	return f.shutdownErr
}

func TestHTTPServiceCleanCloseIsNotAnError(t *testing.T) {
	svc := NewHTTPService(&fakeServer{serveErr: http.ErrServerClosed}, ":0", time.Second)
	if err := svc.Serve(context.Background()); err != nil {
		t.Fatalf("Serve() = %v, want nil for ErrServerClosed", err)
	}
}

func TestHTTPServicePropagatesListenFailure(t *testing.T) {
	listenErr := errors.New("listen tcp: address already in use")
	svc := NewHTTPService(&fakeServer{serveErr: listenErr}, ":0", time.Second)
	if err := svc.Serve(context.Background()); !errors.Is(err, listenErr) {
		t.Fatalf("Serve() = %v, want %v", err, listenErr)
	}
}

func TestHTTPServiceShutsDownOnContextCancel(t *testing.T) {
	srv := &fakeServer{block: make(chan struct{})}
	svc := NewHTTPService(srv, ":0", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return after context cancellation")
	}
	if srv.shutdowns != 1 {
		t.Fatalf("shutdowns = %d, want 1", srv.shutdowns)
	}
}

func TestHTTPServiceReportsShutdownError(t *testing.T) {
	shutdownErr := errors.New("connections still draining")
	srv := &fakeServer{block: make(chan struct{}), shutdownErr: shutdownErr}
	svc := NewHTTPService(srv, ":0", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, shutdownErr) {
			t.Fatalf("Serve() = %v, want %v", err, shutdownErr)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return after context cancellation")
	}
}
