package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := setupRouter()
	registerRoutes(router)
	return router
}

func TestHealthRoute(t *testing.T) {
	router := newTestRouter()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router := newTestRouter()
	for _, route := range []struct {
		method string
		path   string
	}{
		{"GET", "/api/booking/my-orders"},
		{"POST", "/api/booking"},
		{"GET", "/api/payments/my"},
		{"GET", "/api/tickets/my-tickets"},
		{"GET", "/api/notifications"},
		{"GET", "/api/admin/orders"},
	} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(route.method, route.path, nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
	}
}

func TestCallbackSecretGate(t *testing.T) {
	t.Setenv("PAYMENT_CALLBACK_SECRET", "topsecret")
	router := newTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/payments/callback", strings.NewReader(`{"providerRef":"momo-1-1","status":"Success"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/payments/callback", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Callback-Secret", "topsecret")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
