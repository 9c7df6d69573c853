package middleware

import (
	"net"
	"net/http"
)

// ClientIP returns the peer address requests are keyed on for rate limiting
// and submission-origin lookups. Proxy headers are not consulted here: the
// router runs chi's RealIP first, which has already folded X-Forwarded-For
// into RemoteAddr.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
