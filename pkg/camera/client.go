// Package camera talks to network cameras over plain HTTP: it opens snapshot
// and stream endpoints with bounded timeouts and probes a base URL for the
// path that actually serves frames.
package camera

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	DefaultConnectTimeout  = 5 * time.Second
	DefaultReadTimeout     = 15 * time.Second
	DefaultKeepAlive       = 30 * time.Second
	DefaultIdleConnTimeout = 90 * time.Second
)

var (
	ErrTimeout    = errors.New("camera did not answer in time")
	ErrConnection = errors.New("cannot connect to camera")
	ErrBadURL     = errors.New("invalid camera url")
)

// Response is an open camera response. Callers must close Body.
type Response struct {
	Body        io.ReadCloser
	ContentType string
	StatusCode  int
	URL         string
}

func (r *Response) Close() error {
	if r == nil || r.Body == nil {
		return nil
	}
	return r.Body.Close()
}

type Config struct {
	// ConnectTimeout bounds dialing and the TLS handshake.
	ConnectTimeout time.Duration
	// ReadTimeout bounds the whole exchange including the body. Zero leaves
	// body reads to the caller's context, which is what stream proxies want.
	ReadTimeout time.Duration
	// HeaderTimeout bounds the wait for response headers.
	HeaderTimeout time.Duration
}

type Client struct {
	http *http.Client
	cfg  Config
}

func NewClient(cfg Config) *Client {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.HeaderTimeout <= 0 {
		cfg.HeaderTimeout = DefaultReadTimeout
	}

	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.ReadTimeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   cfg.ConnectTimeout,
					KeepAlive: DefaultKeepAlive,
				}).DialContext,
				MaxIdleConns:          50,
				MaxIdleConnsPerHost:   4,
				IdleConnTimeout:       DefaultIdleConnTimeout,
				TLSHandshakeTimeout:   cfg.ConnectTimeout,
				ResponseHeaderTimeout: cfg.HeaderTimeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
}

// Open issues a GET against rawURL and returns the response with its body
// still unread. Non-2xx answers are closed and reported as ErrConnection.
func (c *Client) Open(ctx context.Context, rawURL string) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBadURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadURL, err)
	}
	req.Header.Set("Accept", "multipart/x-mixed-replace, image/*;q=0.9, */*;q=0.5")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, Classify(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %s answered %s", ErrConnection, u.Redacted(), resp.Status)
	}

	return &Response{
		Body:        resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		URL:         u.String(),
	}, nil
}

// Classify maps transport failures onto ErrTimeout and ErrConnection.
// Errors that already carry one of them are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrConnection) || errors.Is(err, ErrBadURL) {
		return err
	}
	if IsTimeout(err) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrConnection, err)
}

func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsImage reports whether a content type announces a single still image.
func IsImage(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image")
}
