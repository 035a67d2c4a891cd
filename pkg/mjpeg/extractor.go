package mjpeg

import (
	"bytes"
	"context"
	"errors"
	"io"
)

const (
	DefaultMaxFrameSize = 8 * 1024 * 1024
	DefaultChunkSize    = 1024
)

var (
	ErrIncompleteStream = errors.New("stream ended before a complete frame")
	ErrFrameTooLarge    = errors.New("frame exceeds buffer ceiling")
	ErrSessionDone      = errors.New("extraction session already finished")
	ErrEmptyBoundary    = errors.New("boundary token is empty")
)

type state int

const (
	seekingBoundary state = iota
	inFrame
)

type Option func(*Extractor)

// WithMaxFrameSize caps the bytes a candidate frame may accumulate before the
// session fails with ErrFrameTooLarge.
func WithMaxFrameSize(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxFrameSize = n
		}
	}
}

// WithChunkSize sets the read size used by ReadFrame.
func WithChunkSize(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.chunkSize = n
		}
	}
}

// Extractor pulls exactly one image payload out of a boundary-delimited
// multipart stream. It toggles on boundary sightings and does not parse
// per-part headers; those stay in the payload and are skipped by the decoder.
//
// An Extractor serves a single session and is not safe for concurrent use.
type Extractor struct {
	boundary     []byte
	maxFrameSize int
	chunkSize    int

	state state
	buf   []byte
	// scanFrom is the first buffer offset that may still begin an unseen boundary.
	scanFrom int

	consumed int
	frame    []byte
	err      error
}

func NewExtractor(boundary string, opts ...Option) (*Extractor, error) {
	if boundary == "" {
		return nil, ErrEmptyBoundary
	}

	e := &Extractor{
		boundary:     []byte(boundary),
		maxFrameSize: DefaultMaxFrameSize,
		chunkSize:    DefaultChunkSize,
		state:        seekingBoundary,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Feed consumes one chunk. It returns the frame once the closing boundary has
// been seen. Once a frame was emitted or the session failed, Feed consumes
// nothing more and reports ErrSessionDone or the failure that ended it.
func (e *Extractor) Feed(chunk []byte) ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if e.frame != nil {
		return nil, ErrSessionDone
	}

	e.consumed += len(chunk)
	e.buf = append(e.buf, chunk...)

	for {
		idx := bytes.Index(e.buf[e.scanFrom:], e.boundary)
		if idx < 0 {
			break
		}
		idx += e.scanFrom

		switch e.state {
		case seekingBoundary:
			e.buf = e.buf[idx+len(e.boundary):]
			e.scanFrom = 0
			e.state = inFrame

		case inFrame:
			payload := e.buf[:idx]
			if len(payload) > e.maxFrameSize {
				return nil, e.fail(ErrFrameTooLarge)
			}
			if !isBlankPart(payload) {
				e.frame = append([]byte(nil), payload...)
				e.release()
				return e.frame, nil
			}
			// Empty part: the closing boundary opens the next candidate.
			e.buf = e.buf[idx+len(e.boundary):]
			e.scanFrom = 0
		}
	}

	keep := len(e.boundary) - 1
	switch e.state {
	case seekingBoundary:
		if len(e.buf) > keep {
			e.buf = append(e.buf[:0], e.buf[len(e.buf)-keep:]...)
		}
		e.scanFrom = 0
	case inFrame:
		if len(e.buf) > e.maxFrameSize+keep {
			return nil, e.fail(ErrFrameTooLarge)
		}
		e.scanFrom = max(0, len(e.buf)-keep)
	}

	return nil, nil
}

// Finish marks the end of the upstream source.
func (e *Extractor) Finish() error {
	if e.frame != nil {
		return nil
	}
	if e.err != nil {
		return e.err
	}
	return e.fail(ErrIncompleteStream)
}

// Frame returns the emitted frame, or nil if none has been emitted yet.
func (e *Extractor) Frame() []byte {
	return e.frame
}

// Consumed reports how many bytes were accepted by Feed.
func (e *Extractor) Consumed() int {
	return e.consumed
}

func (e *Extractor) fail(err error) error {
	e.err = err
	e.release()
	return err
}

func (e *Extractor) release() {
	e.buf = nil
	e.scanFrom = 0
	e.state = seekingBoundary
}

// isBlankPart reports whether a part holds nothing but line breaks and the
// dashes of a "--token" delimiter.
func isBlankPart(p []byte) bool {
	return len(bytes.Trim(p, " \t\r\n-")) == 0
}

// ReadFrame runs one extraction session over r and returns the first
// complete frame. Reading stops as soon as the frame is complete.
func ReadFrame(ctx context.Context, r io.Reader, boundary string, opts ...Option) ([]byte, error) {
	e, err := NewExtractor(boundary, opts...)
	if err != nil {
		return nil, err
	}

	chunk := make([]byte, e.chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, readErr := r.Read(chunk)
		if n > 0 {
			frame, err := e.Feed(chunk[:n])
			if err != nil {
				return nil, err
			}
			if frame != nil {
				return frame, nil
			}
		}

		if readErr != nil {
			// A dropped connection ends the stream the same way a clean close does.
			if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
				return nil, e.Finish()
			}
			return nil, readErr
		}
	}
}
