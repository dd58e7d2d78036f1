package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Extractor produces the client identifier a request is admitted under. This
// can be a header value, the peer address, authenticated user information,
// anything available on the request that is side-effect free to read (the
// body is off limits).
type Extractor interface {
	Extract(r *http.Request) (string, error)
}

type headerExtractor struct {
	headers  []string
	fallback bool
}

// NewHeaderExtractor keys clients on the joined values of the given headers.
// Headers without a value are skipped. When fallbackToRemoteAddr is set, a
// request carrying none of the headers is keyed on its peer address instead
// of being rejected.
func NewHeaderExtractor(fallbackToRemoteAddr bool, headers ...string) Extractor {
	return &headerExtractor{
		headers:  headers,
		fallback: fallbackToRemoteAddr,
	}
}

func (h *headerExtractor) Extract(r *http.Request) (string, error) {
	values := make([]string, 0, len(h.headers))
	for _, key := range h.headers {
		if value := strings.TrimSpace(r.Header.Get(key)); value != "" {
			values = append(values, value)
		}
	}

	if len(values) == 0 {
		if h.fallback {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				return r.RemoteAddr, nil
			}
			return host, nil
		}
		return "", fmt.Errorf("no value in any of the headers %v", h.headers)
	}

	return strings.Join(values, "-"), nil
}
