package mjpeg

import (
	"errors"
	"testing"
)

func TestParseBoundary(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		want        string
		wantErr     error
	}{
		{
			name:        "ip webcam",
			contentType: "multipart/x-mixed-replace; boundary=frame",
			want:        "frame",
		},
		{
			name:        "quoted",
			contentType: `multipart/x-mixed-replace; boundary="myboundary"`,
			want:        "myboundary",
		},
		{
			name:        "leading dashes kept",
			contentType: "multipart/x-mixed-replace;boundary=--BoundaryString",
			want:        "--BoundaryString",
		},
		{
			name:        "unparseable media type falls back to raw text",
			contentType: "multipart/x-mixed-replace;; boundary=ipcam; charset",
			want:        "ipcam",
		},
		{
			name:        "missing boundary",
			contentType: "multipart/x-mixed-replace",
			wantErr:     ErrNoBoundary,
		},
		{
			name:        "empty boundary",
			contentType: "multipart/x-mixed-replace; boundary=",
			wantErr:     ErrNoBoundary,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseBoundary(tc.contentType)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("boundary = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIsMultipart(t *testing.T) {
	tests := map[string]bool{
		"multipart/x-mixed-replace; boundary=frame": true,
		"Multipart/X-Mixed-Replace":                 true,
		"image/jpeg":                                false,
		"":                                          false,
	}
	for ct, want := range tests {
		if got := IsMultipart(ct); got != want {
			t.Errorf("IsMultipart(%q) = %v, want %v", ct, got, want)
		}
	}
}
