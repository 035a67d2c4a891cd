package density

import (
	"image"
	"image/color"
	"math"
)

// luminance flattens img into a row-major 8-bit intensity plane.
func luminance(img image.Image) ([]uint8, int, int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]uint8, w*h)

	switch src := img.(type) {
	case *image.YCbCr:
		// JPEG frames already carry luma.
		for y := 0; y < h; y++ {
			row := src.YOffset(b.Min.X, b.Min.Y+y)
			copy(out[y*w:(y+1)*w], src.Y[row:row+w])
		}
	case *image.Gray:
		for y := 0; y < h; y++ {
			row := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out[y*w:(y+1)*w], src.Pix[row:row+w])
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out[y*w+x] = color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
			}
		}
	}

	return out, w, h
}

// gaussianKernel mirrors the sigma CV libraries derive for a bare kernel size.
func gaussianKernel(size int) []float64 {
	sigma := 0.3*((float64(size)-1)*0.5-1) + 0.8
	k := make([]float64, size)
	half := size / 2
	var sum float64
	for i := range k {
		d := float64(i - half)
		k[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// reflect101 maps an out-of-range index back into [0, n) as gfedcb|abcdefgh|gfedcba.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}

// gaussianBlur applies a separable blur with a size×size kernel.
func gaussianBlur(src []uint8, w, h, size int) []uint8 {
	if size <= 1 {
		out := make([]uint8, len(src))
		copy(out, src)
		return out
	}

	k := gaussianKernel(size)
	half := size / 2

	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := src[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			var acc float64
			for i, kv := range k {
				acc += kv * float64(row[reflect101(x+i-half, w)])
			}
			tmp[y*w+x] = acc
		}
	}

	out := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for i, kv := range k {
				acc += kv * tmp[reflect101(y+i-half, h)*w+x]
			}
			out[y*w+x] = saturate(acc)
		}
	}

	return out
}

func saturate(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
