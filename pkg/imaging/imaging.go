// Package imaging decodes camera frames and renders compact previews.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var ErrDecode = errors.New("bytes do not form a valid image")

// MaxPixels caps the raster size Decode will allocate.
const MaxPixels = 64 << 20

// signatures are the magic prefixes of jpeg, png, gif and webp.
var signatures = [][]byte{
	{0xFF, 0xD8, 0xFF},
	{0x89, 'P', 'N', 'G', '\r', '\n'},
	[]byte("GIF8"),
	[]byte("RIFF"),
}

// trimToImage drops anything before the first recognised image signature,
// such as multipart part headers. Payloads without a known signature are
// returned unchanged.
func trimToImage(b []byte) []byte {
	start := -1
	for _, sig := range signatures {
		if i := bytes.Index(b, sig); i >= 0 && (start < 0 || i < start) {
			start = i
		}
	}
	if start <= 0 {
		return b
	}
	return b[start:]
}

// Decode turns a frame payload into a raster. Leading header noise is skipped.
func Decode(b []byte) (image.Image, string, error) {
	if len(b) == 0 {
		return nil, "", fmt.Errorf("%w: empty payload", ErrDecode)
	}

	payload := trimToImage(b)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(payload))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, format, fmt.Errorf("%w: zero-sized %s image", ErrDecode, format)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, format, fmt.Errorf("%w: %dx%d %s image exceeds %d pixels", ErrDecode, cfg.Width, cfg.Height, format, MaxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, format, fmt.Errorf("%w: zero-sized %s image", ErrDecode, format)
	}

	return img, format, nil
}

// EncodePreview re-encodes img as JPEG, downscaling it to maxWidth when wider.
func EncodePreview(img image.Image, maxWidth, quality int) ([]byte, error) {
	src := img
	b := img.Bounds()
	if maxWidth > 0 && b.Dx() > maxWidth {
		height := max(1, b.Dy()*maxWidth/b.Dx())
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		src = dst
	}

	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DataURI embeds b as a base64 data URI.
func DataURI(mimeType string, b []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(b)
}
