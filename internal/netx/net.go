// Package netx has HTTP helpers shared by the API client.
package netx

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultBodyLimit caps how much of a response body is buffered.
const DefaultBodyLimit = 8 << 20

// ReadBody drains and closes resp.Body, reading at most limit bytes.
// A non-positive limit means DefaultBodyLimit.
func ReadBody(resp *http.Response, limit int64) ([]byte, error) {
	defer resp.Body.Close()
	if limit <= 0 {
		limit = DefaultBodyLimit
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return b, nil
}

// IsSuccess reports whether status is in the 2xx range.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}

// RedactedHeaders returns a copy of h in a loggable form. Credential-bearing
// headers are replaced with "[HIDDEN]".
func RedactedHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		switch http.CanonicalHeaderKey(k) {
		case "Authorization", "Cookie", "Set-Cookie", "Proxy-Authorization":
			out[k] = "[HIDDEN]"
		default:
			out[k] = strings.Join(v, ", ")
		}
	}
	return out
}

// RedactQuery masks the access_token query parameter, if present, in a raw
// query string.
func RedactQuery(raw string) string {
	if raw == "" {
		return raw
	}
	parts := strings.Split(raw, "&")
	for i, p := range parts {
		if strings.HasPrefix(p, "access_token=") {
			parts[i] = "access_token=[HIDDEN]"
		}
	}
	return strings.Join(parts, "&")
}
