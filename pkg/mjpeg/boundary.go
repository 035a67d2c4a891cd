// Package mjpeg extracts still frames from multipart/x-mixed-replace camera
// streams.
package mjpeg

import (
	"errors"
	"mime"
	"strings"
)

var ErrNoBoundary = errors.New("content type declares no boundary")

// IsMultipart reports whether a response content type announces a
// boundary-delimited multipart stream.
func IsMultipart(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "multipart")
}

// ParseBoundary returns the boundary token declared by a multipart content
// type. Cameras are sloppy with the header, so when the media type does not
// parse the raw text after "boundary=" is used instead.
func ParseBoundary(contentType string) (string, error) {
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		if b := strings.TrimSpace(params["boundary"]); b != "" {
			return b, nil
		}
	}

	idx := strings.Index(strings.ToLower(contentType), "boundary=")
	if idx < 0 {
		return "", ErrNoBoundary
	}

	b := contentType[idx+len("boundary="):]
	if end := strings.IndexByte(b, ';'); end >= 0 {
		b = b[:end]
	}
	b = strings.Trim(strings.TrimSpace(b), `"`)
	if b == "" {
		return "", ErrNoBoundary
	}

	return b, nil
}
