package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	jpg := encodeJPEG(t, 40, 30)

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, image.NewGray(image.Rect(0, 0, 5, 7))); err != nil {
		t.Fatalf("png: %v", err)
	}

	tests := []struct {
		name       string
		payload    []byte
		wantFormat string
		wantW      int
		wantH      int
	}{
		{name: "plain jpeg", payload: jpg, wantFormat: "jpeg", wantW: 40, wantH: 30},
		{
			name:       "jpeg behind part headers",
			payload:    append([]byte("\r\nContent-Type: image/jpeg\r\nContent-Length: 1234\r\n\r\n"), jpg...),
			wantFormat: "jpeg",
			wantW:      40,
			wantH:      30,
		},
		{
			name:       "jpeg followed by delimiter dashes",
			payload:    append(append([]byte{}, jpg...), []byte("\r\n--")...),
			wantFormat: "jpeg",
			wantW:      40,
			wantH:      30,
		},
		{name: "png", payload: pngBuf.Bytes(), wantFormat: "png", wantW: 5, wantH: 7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			img, format, err := Decode(tc.payload)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if format != tc.wantFormat {
				t.Errorf("format = %s, want %s", format, tc.wantFormat)
			}
			if b := img.Bounds(); b.Dx() != tc.wantW || b.Dy() != tc.wantH {
				t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tc.wantW, tc.wantH)
			}
		})
	}
}

func TestDecode_Failures(t *testing.T) {
	tests := map[string][]byte{
		"empty":     {},
		"random":    []byte("this is definitely not an image \x00\x01\x02"),
		"truncated": encodeJPEG(t, 20, 20)[:40],

		// A 13 byte gif header declaring a 65535x65535 screen.
		"huge dimensions": []byte("GIF89a\xff\xff\xff\xff\x00\x00\x00"),
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			if _, _, err := Decode(payload); !errors.Is(err, ErrDecode) {
				t.Errorf("err = %v, want ErrDecode", err)
			}
		})
	}
}

func TestEncodePreview_Downscales(t *testing.T) {
	img, _, err := Decode(encodeJPEG(t, 200, 100))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	out, err := EncodePreview(img, 50, 80)
	if err != nil {
		t.Fatalf("EncodePreview: %v", err)
	}
	preview, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("preview is not a jpeg: %v", err)
	}
	if b := preview.Bounds(); b.Dx() != 50 || b.Dy() != 25 {
		t.Errorf("preview size = %dx%d, want 50x25", b.Dx(), b.Dy())
	}

	same, err := EncodePreview(img, 0, 0)
	if err != nil {
		t.Fatalf("EncodePreview: %v", err)
	}
	full, _ := jpeg.Decode(bytes.NewReader(same))
	if b := full.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("unscaled preview = %dx%d, want 200x100", b.Dx(), b.Dy())
	}
}

func TestDataURI(t *testing.T) {
	uri := DataURI("image/jpeg", []byte{1, 2, 3})
	prefix := "data:image/jpeg;base64,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("uri = %s", uri)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	if err != nil || !bytes.Equal(raw, []byte{1, 2, 3}) {
		t.Errorf("payload = %v, %v", raw, err)
	}
}
