// Package metadata records who is calling: client IP for rate limiting and
// the User-Agent for device classification.
package metadata

import (
	"net"
	"net/http"
	"strings"

	"swissshield/pkg/requestcontext"
)

// ClientMetadata stores client IP and User-Agent on the request context.
// trustedProxies is the number of reverse proxies in front of the server.
func ClientMetadata(trustedProxies int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIPFromRequest(r, trustedProxies)
			ctx := requestcontext.WithClientMetadata(r.Context(), ip, r.Header.Get("User-Agent"))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientIPFromRequest returns the originating client address, "unknown"
// when none is available. Forwarding headers are only read when
// trustedProxies is positive, since without a proxy the client writes them.
func ClientIPFromRequest(r *http.Request, trustedProxies int) string {
	if trustedProxies > 0 {
		if ip := forwardedFor(r.Header.Values("X-Forwarded-For"), trustedProxies); ip != "" {
			return ip
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
	}

	if r.RemoteAddr == "" {
		return "unknown"
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// forwardedFor returns the hop recorded by the outermost trusted proxy.
// Everything left of it came from the client.
func forwardedFor(values []string, trusted int) string {
	var hops []string
	for _, v := range values {
		for _, hop := range strings.Split(v, ",") {
			hops = append(hops, strings.TrimSpace(hop))
		}
	}
	if len(hops) == 0 {
		return ""
	}
	return hops[max(len(hops)-trusted, 0)]
}
