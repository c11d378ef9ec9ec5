package main

import (
	"context"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"
)

type dummyHandler struct{}

func (d dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func TestStartServer_Configured(t *testing.T) {
	srv := startServer(dummyHandler{}, "0")
	if srv == nil {
		t.Fatalf("expected server")
	}
	if srv.Addr != ":0" {
		t.Fatalf("addr=%s", srv.Addr)
	}
	if srv.ReadHeaderTimeout == 0 || srv.WriteTimeout == 0 {
		t.Fatalf("expected timeouts configured")
	}
}

func TestServeUntilSignal_ContextCancel(t *testing.T) {
	srv := startServer(dummyHandler{}, "0")

	ctx, cancel := context.WithCancel(context.Background())
	cleaned := make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() {
		done <- serveUntilSignal(ctx, srv, func() { close(cleaned) })
	}()

	// Give the server a moment to start listening
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serveUntilSignal err: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("serveUntilSignal did not return after cancel")
	}

	select {
	case <-cleaned:
	default:
		t.Fatalf("cleanup not called")
	}
}

func TestServeUntilSignal_SignalPath(t *testing.T) {
	srv := startServer(dummyHandler{}, "0")

	cleaned := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- serveUntilSignal(context.Background(), srv, func() { close(cleaned) })
	}()

	// Give the goroutine time to set up signal notifications
	time.Sleep(50 * time.Millisecond)

	p, _ := os.FindProcess(os.Getpid())
	_ = p.Signal(syscall.SIGTERM)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("serveUntilSignal did not return after SIGTERM")
	}

	select {
	case <-cleaned:
	default:
		t.Fatalf("cleanup not called after SIGTERM")
	}
}
