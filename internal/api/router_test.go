package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SmoothBot/exchange-volume/internal/domain/models"
	"github.com/gin-gonic/gin"
)

func TestRouter_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &mockService{report: &models.DominanceReport{
		Series: []models.DominancePoint{{Date: "2024-01-01", Centralized: 50, Decentralized: 50}},
	}}
	router := NewRouter(NewHandler(svc, nil))

	cases := []struct {
		path   string
		expect int
	}{
		{path: "/api/v1/dominance", expect: http.StatusOK},
		{path: "/api/v1/volume", expect: http.StatusServiceUnavailable},
		{path: "/nope", expect: http.StatusNotFound},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if w.Code != tc.expect {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.expect, w.Code)
		}
	}
}

func TestRouter_RequestIDHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &mockService{report: &models.DominanceReport{}}
	router := NewRouter(NewHandler(svc, nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dominance", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing request id header")
	}
}
