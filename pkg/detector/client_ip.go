package detector

import (
	"net"
	"strings"
)

const UnknownIP = "unknown"

// ClientIP picks the visitor address from proxy headers, falling back to the
// connection's remote address.
func ClientIP(xForwardedFor, xRealIP, remoteAddr string) string {
	if xForwardedFor != "" {
		first, _, _ := strings.Cut(xForwardedFor, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if ip := strings.TrimSpace(xRealIP); ip != "" {
		return ip
	}

	if host, _, err := net.SplitHostPort(remoteAddr); err == nil && host != "" {
		return host
	}

	if remoteAddr != "" {
		return remoteAddr
	}

	return UnknownIP
}
