package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHealthHandler(nil).Register(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d", w.Code)
	}
}

func TestReadyz(t *testing.T) {
	cases := []struct {
		name   string
		ping   func() error
		expect int
	}{
		{name: "db ok", ping: func() error { return nil }, expect: http.StatusOK},
		{name: "db down", ping: func() error { return errors.New("no conn") }, expect: http.StatusServiceUnavailable},
		{name: "no ping configured", ping: nil, expect: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			NewHealthHandler(tc.ping).Register(r)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			if w.Code != tc.expect {
				t.Fatalf("expected %d, got %d", tc.expect, w.Code)
			}
		})
	}
}
