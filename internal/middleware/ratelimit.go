package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"crm-backend/internal/cache"
)

const (
	loginLimit   = 5
	loginWindow  = time.Minute
	inviteLimit  = 30
	inviteWindow = time.Hour
	joinIPLimit  = 10
	joinWindow   = time.Minute
)

func RateLimitLogin(cacheClient cache.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			key := "rl:login:" + ip
			count, err := cacheClient.IncrWithTTL(key, loginWindow)
			if err == nil && count > loginLimit {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RateLimitInvite(cacheClient cache.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			key := "rl:invite:" + ip
			count, err := cacheClient.IncrWithTTL(key, inviteWindow)
			if err == nil && count > inviteLimit {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitJoin throttles token guessing on the join endpoint, keyed by
// client IP.
func RateLimitJoin(cacheClient cache.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			count, err := cacheClient.IncrWithTTL("rl:join:ip:"+ip, joinWindow)
			if err == nil && count > joinIPLimit {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
