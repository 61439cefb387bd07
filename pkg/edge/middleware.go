package edge

import (
	"net/http"
	"os"
	"path"
	"strings"
)

// normalizePath collapses repeated slashes in the request path before
// dispatch, so "/stream//abc" and "/stream/abc" route identically.
func normalizePath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "//") {
			r.URL.Path = path.Clean(r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}

// withCORS handles CORS and OPTIONS preflight requests with an optional
// explicit allowedOrigins list. If allowedOrigins is nil, it falls back to
// the STREAMLINK_ORIGINS environment variable; "*" allows every origin.
func withCORS(allowedOrigins []string, next http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = originsFromEnv()
	}
	if allowedOrigins == nil {
		return next
	}

	allowAll := len(allowedOrigins) == 1 && allowedOrigins[0] == "*"
	allowedSet := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowedSet[o] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		_, allowed := allowedSet[origin]
		allowed = allowed || allowAll

		if origin != "" && allowed {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}

		if r.Method != http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if origin == "" || !allowed {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.WriteHeader(http.StatusNoContent)
	})
}

func originsFromEnv() (origins []string) {
	raw := os.Getenv("STREAMLINK_ORIGINS")
	if raw == "" {
		return nil
	}
	for _, o := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
