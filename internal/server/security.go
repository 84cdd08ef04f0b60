package server

import (
	"crypto/subtle"
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/osse101/cosmetics/internal/logger"
	"github.com/osse101/cosmetics/internal/metrics"
)

// AuthMiddleware requires the X-API-Key header on every non-public path.
// Failed attempts are reported to detector.
func AuthMiddleware(apiKey string, trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			providedKey := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				ip := extractIP(r, trustedProxies)
				detector.RecordFailedAuth(ip)
				metrics.FailedAuth.Inc()

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"path", r.URL.Path,
					"has_key", providedKey != "",
					"ip", ip)

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isPublicPath(path string) bool {
	for _, public := range PublicPaths {
		if path == public || strings.HasPrefix(path, public+"/") {
			return true
		}
	}
	return false
}

// RequestSizeLimitMiddleware limits request body size
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// DetectorConfig sets the fixed window the detector counts in
type DetectorConfig struct {
	Window            time.Duration
	MaxRequestsPerIP  int
	FailedAuthAlertAt int
}

// DefaultDetectorConfig returns the default rate limit settings
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		Window:            RateWindow,
		MaxRequestsPerIP:  MaxRequestsPerIP,
		FailedAuthAlertAt: FailedAuthAlertAt,
	}
}

// SuspiciousActivityDetector counts requests and failed logins per IP in a
// fixed window. All counters reset together when the window ends.
type SuspiciousActivityDetector struct {
	cfg DetectorConfig
	now func() time.Time

	mu               sync.Mutex
	failedAuthByIP   map[string]int
	requestCountByIP map[string]int
	windowStart      time.Time
}

// NewSuspiciousActivityDetector creates a detector. Non-positive config
// values use the defaults.
func NewSuspiciousActivityDetector(cfg DetectorConfig) *SuspiciousActivityDetector {
	def := DefaultDetectorConfig()
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.MaxRequestsPerIP <= 0 {
		cfg.MaxRequestsPerIP = def.MaxRequestsPerIP
	}
	if cfg.FailedAuthAlertAt <= 0 {
		cfg.FailedAuthAlertAt = def.FailedAuthAlertAt
	}
	d := &SuspiciousActivityDetector{
		cfg:              cfg,
		now:              time.Now,
		failedAuthByIP:   make(map[string]int),
		requestCountByIP: make(map[string]int),
	}
	d.windowStart = d.now()
	return d
}

// RecordFailedAuth records a failed authentication attempt
func (s *SuspiciousActivityDetector) RecordFailedAuth(ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rollWindow()
	s.failedAuthByIP[ip]++

	if count := s.failedAuthByIP[ip]; count >= s.cfg.FailedAuthAlertAt {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", count)
	}
}

// RecordRequest counts a request and reports whether ip is still within
// budget. When it is not, retryAfter is the time left in the window.
func (s *SuspiciousActivityDetector) RecordRequest(ip string) (allowed bool, retryAfter time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rollWindow()
	s.requestCountByIP[ip]++

	count := s.requestCountByIP[ip]
	if count <= s.cfg.MaxRequestsPerIP {
		return true, 0
	}
	if count%HighRateLogInterval == 0 {
		slog.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", count, "window", s.cfg.Window)
	}
	return false, s.windowStart.Add(s.cfg.Window).Sub(s.now())
}

// rollWindow starts a new window once the current one has elapsed.
// Caller must hold the mutex.
func (s *SuspiciousActivityDetector) rollWindow() {
	if now := s.now(); now.Sub(s.windowStart) >= s.cfg.Window {
		s.requestCountByIP = make(map[string]int)
		s.failedAuthByIP = make(map[string]int)
		s.windowStart = now
	}
}

// SecurityLoggingMiddleware enforces the per-IP request budget
func SecurityLoggingMiddleware(trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, retryAfter := detector.RecordRequest(extractIP(r, trustedProxies))
			if !allowed {
				metrics.RateLimited.Inc()
				w.Header().Set(HeaderRetryAfter, strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractIP gets the client IP address from request.
// It only trusts X-Forwarded-For if the request comes from a trusted proxy.
func extractIP(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	if !isTrustedProxy(remoteIP, trustedProxies) {
		return remoteIP
	}

	forwarded := r.Header.Get(HeaderForwardedFor)
	if forwarded == "" {
		return remoteIP
	}
	// Rightmost entry is the hop our trusted proxy saw
	hops := strings.Split(forwarded, ",")
	return strings.TrimSpace(hops[len(hops)-1])
}

// isTrustedProxy matches ip against plain addresses or CIDR prefixes
func isTrustedProxy(ip string, trustedProxies []string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, proxy := range trustedProxies {
		if strings.Contains(proxy, "/") {
			if prefix, err := netip.ParsePrefix(proxy); err == nil && prefix.Contains(addr) {
				return true
			}
			continue
		}
		if p, err := netip.ParseAddr(proxy); err == nil && p == addr {
			return true
		}
	}
	return false
}

// SecurityHeadersMiddleware adds security headers to responses
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set(HeaderContentType, HeaderValueNoSniff)
			h.Set(HeaderFrameOptions, HeaderValueSameOrigin)
			h.Set(HeaderXSSProtection, HeaderValueXSSBlock)
			h.Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)

			next.ServeHTTP(w, r)
		})
	}
}
