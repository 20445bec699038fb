// Package api declares HTTP contracts and route registration helpers.
package api

import "strings"

// pathParam extracts the single path parameter following prefix.
// It rejects empty parameters and nested paths.
func pathParam(path, prefix string) (string, bool) {
	rest := strings.TrimPrefix(path, prefix)
	if rest == "" || rest == path || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}

// chartRef splits a /charts/ path into metric key and format,
// e.g. "/charts/humidity.svg" yields ("humidity", "svg").
func chartRef(path string) (metric, format string, ok bool) {
	name, ok := pathParam(path, "/charts/")
	if !ok {
		return "", "", false
	}
	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 || dot == len(name)-1 {
		return "", "", false
	}
	return name[:dot], name[dot+1:], true
}

// etagMatches reports whether an If-None-Match header value matches etag.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
