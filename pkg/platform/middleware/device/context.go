// Package device classifies the client from its User-Agent. The class feeds
// metrics labels and audit events; the raw User-Agent is never stored.
package device

import (
	"net/http"

	"github.com/mssola/useragent"

	"swissshield/pkg/requestcontext"
)

// Device classes.
const (
	ClassDesktop = "desktop"
	ClassMobile  = "mobile"
	ClassBot     = "bot"
	ClassUnknown = "unknown"
)

// Classify maps a User-Agent header to a device class.
func Classify(userAgent string) string {
	if userAgent == "" {
		return ClassUnknown
	}
	ua := useragent.New(userAgent)
	switch {
	case ua.Bot():
		return ClassBot
	case ua.Mobile():
		return ClassMobile
	default:
		return ClassDesktop
	}
}

// Middleware stores the device class in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithDeviceClass(r.Context(), Classify(r.Header.Get("User-Agent")))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
