package utils

import (
	"net"
	"net/http"
	"strings"

	"github.com/clubhub/clubhub-api/internal/constants"
)

// ClientIP attributes the request to an IP address. The first forwarded
// address takes precedence over the direct peer; malformed values fall back
// to the "unknown" sentinel.
func ClientIP(r *http.Request) string {
	candidate := ""

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		candidate = strings.TrimSpace(strings.Split(forwarded, ",")[0])
	} else if r.RemoteAddr != "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			candidate = r.RemoteAddr
		} else {
			candidate = host
		}
	}

	if net.ParseIP(candidate) == nil {
		return constants.UnknownIP
	}
	return candidate
}
