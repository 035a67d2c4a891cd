package camera

import (
	"context"
	"errors"
	"strings"
	"time"
)

const DefaultProbeTimeout = 6 * time.Second

// Suffixes are the stream paths commonly exposed by IP Webcam, Axis and
// generic MJPEG cameras, tried in order after the URL itself.
var Suffixes = []string{
	"/video",
	"/mjpeg",
	"/stream",
	"/video.cgi",
	"/axis-cgi/mjpg/video.cgi",
	"/videostream.cgi",
}

var ErrProbeFailed = errors.New("no candidate url served a stream or image")

type Attempt struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type,omitempty"`
	Status      int    `json:"status,omitempty"`
	Error       string `json:"error,omitempty"`
}

type ProbeResult struct {
	OriginalURL string    `json:"original_url"`
	ResolvedURL string    `json:"resolved_url"`
	ContentType string    `json:"content_type"`
	IsMJPEG     bool      `json:"is_mjpeg"`
	IsImage     bool      `json:"is_image"`
	Tried       []Attempt `json:"tried"`
}

// ProbeError carries the trace of every attempt made before giving up.
type ProbeError struct {
	Tried []Attempt
}

func (e *ProbeError) Error() string {
	return ErrProbeFailed.Error()
}

func (e *ProbeError) Unwrap() error {
	return ErrProbeFailed
}

// Candidates lists the URLs Probe tries for base, in order.
func Candidates(base string) []string {
	root := strings.TrimRight(base, "/")
	out := make([]string, 0, len(Suffixes)+1)
	out = append(out, base)
	for _, s := range Suffixes {
		out = append(out, root+s)
	}
	return out
}

// Probe returns the first candidate whose content type is multipart or an
// image. Each attempt gets its own timeout; bodies are never read.
func (c *Client) Probe(ctx context.Context, base string, perAttempt time.Duration) (*ProbeResult, error) {
	if perAttempt <= 0 {
		perAttempt = DefaultProbeTimeout
	}

	var tried []Attempt
	for _, candidate := range Candidates(base) {
		if err := ctx.Err(); err != nil {
			tried = append(tried, Attempt{URL: candidate, Error: err.Error()})
			break
		}

		resp, err := c.probeOne(ctx, candidate, perAttempt)
		if err != nil {
			tried = append(tried, Attempt{URL: candidate, Error: err.Error()})
			continue
		}

		tried = append(tried, Attempt{URL: candidate, ContentType: resp.ContentType, Status: resp.StatusCode})
		isMJPEG := strings.Contains(strings.ToLower(resp.ContentType), "multipart")
		isImage := IsImage(resp.ContentType)
		if isMJPEG || isImage {
			return &ProbeResult{
				OriginalURL: base,
				ResolvedURL: candidate,
				ContentType: resp.ContentType,
				IsMJPEG:     isMJPEG,
				IsImage:     isImage,
				Tried:       tried,
			}, nil
		}
	}

	return nil, &ProbeError{Tried: tried}
}

func (c *Client) probeOne(ctx context.Context, candidate string, timeout time.Duration) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.Open(ctx, candidate)
	if err != nil {
		return nil, err
	}
	_ = resp.Close()

	return resp, nil
}
