package density

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestGaussianKernel(t *testing.T) {
	for _, size := range []int{3, 15, 21} {
		k := gaussianKernel(size)
		if len(k) != size {
			t.Fatalf("size %d: len = %d", size, len(k))
		}
		var sum float64
		for i := range k {
			sum += k[i]
			if math.Abs(k[i]-k[size-1-i]) > 1e-12 {
				t.Errorf("size %d: kernel not symmetric at %d", size, i)
			}
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("size %d: kernel sums to %v", size, sum)
		}
		if k[size/2] <= k[0] {
			t.Errorf("size %d: centre weight %v not above edge weight %v", size, k[size/2], k[0])
		}
	}
}

func TestReflect101(t *testing.T) {
	tests := []struct{ i, n, want int }{
		{-1, 5, 1},
		{-2, 5, 2},
		{0, 5, 0},
		{4, 5, 4},
		{5, 5, 3},
		{6, 5, 2},
		{-3, 1, 0},
	}
	for _, tc := range tests {
		if got := reflect101(tc.i, tc.n); got != tc.want {
			t.Errorf("reflect101(%d, %d) = %d, want %d", tc.i, tc.n, got, tc.want)
		}
	}
}

func TestGaussianBlur_ConstantStaysConstant(t *testing.T) {
	w, h := 30, 12
	src := make([]uint8, w*h)
	for i := range src {
		src[i] = 91
	}
	for _, v := range gaussianBlur(src, w, h, 21) {
		if v != 91 {
			t.Fatalf("blurred value = %d, want 91", v)
		}
	}
}

func TestGaussianBlur_SmoothsStep(t *testing.T) {
	w, h := 40, 1
	src := make([]uint8, w)
	for x := w / 2; x < w; x++ {
		src[x] = 255
	}
	out := gaussianBlur(src, w, h, 15)
	for x := 1; x < w; x++ {
		if out[x] < out[x-1] {
			t.Fatalf("blurred step is not monotonic at %d: %v", x, out)
		}
	}
	if out[w/2-1] == 0 || out[w/2] == 255 {
		t.Errorf("edge was not softened: %d %d", out[w/2-1], out[w/2])
	}
}

func TestLuminance(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 2, 1))
	rgba.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	rgba.Set(1, 0, color.RGBA{R: 0, G: 255, B: 0, A: 255})

	gray, w, h := luminance(rgba)
	if w != 2 || h != 1 {
		t.Fatalf("size = %dx%d", w, h)
	}
	if gray[0] != 255 {
		t.Errorf("white = %d, want 255", gray[0])
	}
	// Green carries ~0.587 of the luminance.
	if gray[1] < 145 || gray[1] > 155 {
		t.Errorf("green = %d, want about 150", gray[1])
	}

	ycc := image.NewYCbCr(image.Rect(0, 0, 4, 2), image.YCbCrSubsampleRatio420)
	for i := range ycc.Y {
		ycc.Y[i] = uint8(10 * i)
	}
	gray, _, _ = luminance(ycc)
	for i, v := range gray {
		if v != uint8(10*i) {
			t.Errorf("ycbcr luma[%d] = %d, want %d", i, v, 10*i)
		}
	}

	sub := ycc.SubImage(image.Rect(1, 1, 3, 2)).(*image.YCbCr)
	gray, w, h = luminance(sub)
	if w != 2 || h != 1 || gray[0] != 50 || gray[1] != 60 {
		t.Errorf("sub-image luma = %v (%dx%d), want [50 60]", gray, w, h)
	}
}
