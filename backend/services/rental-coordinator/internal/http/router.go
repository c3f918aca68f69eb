package httpserver

import "net/http"

// Routes groups handlers.
type Routes struct {
	ActiveSessions      http.HandlerFunc
	CacheRefresh        http.HandlerFunc
	IdleSweep           http.HandlerFunc
	SessionEnd          http.HandlerFunc
	AuthorizedDeviceGet http.HandlerFunc
	AuthorizedDeviceSet http.HandlerFunc
	Health              http.HandlerFunc
}

// NewRouter registers endpoints.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	if routes.ActiveSessions != nil {
		mux.Handle("/sessions/active", method(http.MethodGet, routes.ActiveSessions))
	}
	if routes.CacheRefresh != nil {
		mux.Handle("/internal/cache/refresh", method(http.MethodPost, routes.CacheRefresh))
	}
	if routes.IdleSweep != nil {
		mux.Handle("/internal/idle-sweep", method(http.MethodPost, routes.IdleSweep))
	}
	if routes.SessionEnd != nil {
		mux.Handle("/internal/sessions/end", method(http.MethodPost, routes.SessionEnd))
	}
	if routes.AuthorizedDeviceGet != nil && routes.AuthorizedDeviceSet != nil {
		mux.HandleFunc("/internal/billing/authorized-device", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				routes.AuthorizedDeviceGet(w, r)
			case http.MethodPut:
				routes.AuthorizedDeviceSet(w, r)
			default:
				w.Header().Set("Allow", "GET, PUT")
				w.WriteHeader(http.StatusMethodNotAllowed)
			}
		})
	}
	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health))
	}
	return mux
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}
