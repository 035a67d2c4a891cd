//go:build !gocv

package density

func defaultSegmenter() Segmenter {
	return pixelSegmenter{}
}
