package server

import (
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ETag returns the strong entity tag of body: its quoted SHA3-256 digest.
func ETag(body []byte) string {
	sum := sha3.Sum256(body)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// etagMatches reports whether an If-None-Match header value matches etag.
// Weak validators compare equal to their strong form.
func etagMatches(header, etag string) bool {
	for candidate := range strings.SplitSeq(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

// writeBody writes body with its ETag. Requests carrying a matching
// If-None-Match get 304 Not Modified without a body. Non-2xx statuses are
// written as is.
func writeBody(w http.ResponseWriter, r *http.Request, status int, contentType string, body []byte) {
	h := w.Header()
	h.Set("Content-Type", contentType)

	if status >= 200 && status < 300 {
		etag := ETag(body)
		h.Set("ETag", etag)
		h.Set("Cache-Control", "no-cache")
		if match := r.Header.Get("If-None-Match"); match != "" && etagMatches(match, etag) {
			h.Del("Content-Type")
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}
