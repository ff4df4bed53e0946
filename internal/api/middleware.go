package api

import (
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

var localhostPattern = regexp.MustCompile(`^(localhost|127\.0\.0\.1):\d+$`)

func cleanOrigin(origin string) string {
	cleaned := strings.TrimPrefix(origin, "https://")
	cleaned = strings.TrimPrefix(cleaned, "http://")
	if idx := strings.Index(cleaned, "/"); idx != -1 {
		cleaned = cleaned[:idx]
	}
	return cleaned
}

func isAllowedOrigin(origin string, allowedOrigins []string) bool {
	cleanedRequest := cleanOrigin(origin)

	// Allow localhost for development
	if localhostPattern.MatchString(cleanedRequest) {
		return true
	}

	for _, allowed := range allowedOrigins {
		if allowed == "*" || cleanOrigin(allowed) == cleanedRequest {
			return true
		}
	}
	return false
}

func allowsAnyOrigin(allowedOrigins []string) bool {
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			return true
		}
	}
	return false
}

// withCORS sets the CORS headers, answers preflight requests with 204 and
// rejects origins that are not allowed
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin != "" && !isAllowedOrigin(origin, s.cfg.AllowedOrigins) {
			s.logger.Warn("Rejected request from disallowed origin", "origin", origin, "path", r.URL.Path)
			s.writeError(w, http.StatusForbidden, "origin not allowed: "+cleanOrigin(origin))
			return
		}

		if allowsAnyOrigin(s.cfg.AllowedOrigins) || origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit limits POST requests per client address
func (s *Server) withRateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			client := clientAddress(r, s.cfg.TrustProxy)
			allowed := s.limiter.Allow(client)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(s.cfg.RateLimitRequests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(s.limiter.Remaining(client)))

			if !allowed {
				s.logger.Warn("Rate limit exceeded", "client", client, "path", r.URL.Path)
				s.writeError(w, http.StatusTooManyRequests, msgTooManyRequests)
				return
			}
		}
		next(w, r)
	}
}

// clientAddress identifies the caller by its connection address. The first
// X-Forwarded-For entry is used only when the API sits behind a trusted proxy.
func clientAddress(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if first = strings.TrimSpace(first); first != "" {
				return first
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
