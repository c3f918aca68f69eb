package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRouterMethodGuards(t *testing.T) {
	router := NewRouter(Routes{
		ActiveSessions: okHandler,
		CacheRefresh:   okHandler,
		Health:         okHandler,
	})

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/sessions/active", http.StatusOK},
		{http.MethodPost, "/sessions/active", http.StatusMethodNotAllowed},
		{http.MethodPost, "/internal/cache/refresh", http.StatusOK},
		{http.MethodGet, "/internal/cache/refresh", http.StatusMethodNotAllowed},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.want {
			t.Fatalf("%s %s = %d, want %d", tc.method, tc.path, rec.Code, tc.want)
		}
	}
}

func TestRouterAuthorizedDeviceMethodSwitch(t *testing.T) {
	router := NewRouter(Routes{
		AuthorizedDeviceGet: okHandler,
		AuthorizedDeviceSet: okHandler,
	})

	for _, method := range []string{http.MethodGet, http.MethodPut} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, "/internal/billing/authorized-device", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s = %d, want 200", method, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/internal/billing/authorized-device", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("DELETE = %d, want 405", rec.Code)
	}
}
