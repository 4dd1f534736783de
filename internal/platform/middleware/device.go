package middleware

import (
	"net/http"

	"github.com/mssola/useragent"

	"personnel/pkg/requestcontext"
)

// Device parses the User-Agent into a compact browser/platform summary and
// stores it in the context for audit events.
func Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithDeviceInfo(r.Context(),
			DeviceInfoFromUserAgent(r.Header.Get("User-Agent")))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// DeviceInfoFromUserAgent renders a UA string as "<browser> <version> / <os>".
// Unparseable or empty strings come back as "unknown".
func DeviceInfoFromUserAgent(rawUA string) string {
	if rawUA == "" {
		return "unknown"
	}
	ua := useragent.New(rawUA)
	name, version := ua.Browser()
	if name == "" {
		return "unknown"
	}
	summary := name
	if version != "" {
		summary += " " + version
	}
	if os := ua.OS(); os != "" {
		summary += " / " + os
	}
	if ua.Bot() {
		summary += " (bot)"
	}
	return summary
}
