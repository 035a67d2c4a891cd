//go:build gocv

package density

import (
	"gocv.io/x/gocv"
)

func defaultSegmenter() Segmenter {
	return cvSegmenter{}
}

// cvSegmenter runs thresholding and external contour extraction through
// OpenCV. Areas are contour polygon areas, which run slightly below the pixel
// counts of the pure-Go segmenter for the same blob.
type cvSegmenter struct{}

func (cvSegmenter) Segment(gray []uint8, w, h int, method ThresholdMethod, fixedCutoff uint8) []Region {
	src, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8U, gray)
	if err != nil {
		return nil
	}
	defer src.Close()

	bin := gocv.NewMat()
	defer bin.Close()

	if method == ThresholdOtsu {
		gocv.Threshold(src, &bin, 0, 255, gocv.ThresholdBinary+gocv.ThresholdOtsu)
	} else {
		gocv.Threshold(src, &bin, float32(fixedCutoff), 255, gocv.ThresholdBinary)
	}

	contours := gocv.FindContours(bin, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	regions := make([]Region, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		regions = append(regions, Region{
			Area:   int(gocv.ContourArea(c)),
			Bounds: gocv.BoundingRect(c),
		})
	}

	return regions
}
