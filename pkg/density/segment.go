package density

import "image"

// Region is one outer foreground blob. Area counts the blob together with
// any holes and nested blobs it encloses.
type Region struct {
	Area   int
	Bounds image.Rectangle
}

// Segmenter turns a smoothed intensity plane into outer regions.
type Segmenter interface {
	Segment(gray []uint8, w, h int, method ThresholdMethod, fixedCutoff uint8) []Region
}

type pixelSegmenter struct{}

func (pixelSegmenter) Segment(gray []uint8, w, h int, method ThresholdMethod, fixedCutoff uint8) []Region {
	cutoff := fixedCutoff
	if method == ThresholdOtsu {
		cutoff = otsuThreshold(gray)
	}
	return outerRegions(binarize(gray, cutoff), w, h)
}

// outerRegions labels the outermost 8-connected foreground blobs of mask.
// Background reachable from the border (4-connected) is "outside"; everything
// else belongs to the blob that encloses it, so holes and blobs nested in
// holes are absorbed rather than reported.
func outerRegions(mask []bool, w, h int) []Region {
	if w <= 0 || h <= 0 {
		return nil
	}

	outside := make([]bool, w*h)
	stack := make([]int, 0, 2*(w+h))
	push := func(i int) {
		if !mask[i] && !outside[i] {
			outside[i] = true
			stack = append(stack, i)
		}
	}
	for x := 0; x < w; x++ {
		push(x)
		push((h-1)*w + x)
	}
	for y := 0; y < h; y++ {
		push(y * w)
		push(y*w + w - 1)
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		if x > 0 {
			push(i - 1)
		}
		if x < w-1 {
			push(i + 1)
		}
		if y > 0 {
			push(i - w)
		}
		if y < h-1 {
			push(i + w)
		}
	}

	visited := make([]bool, w*h)
	var regions []Region
	for start := range mask {
		if outside[start] || visited[start] {
			continue
		}

		visited[start] = true
		stack = append(stack[:0], start)
		sx, sy := start%w, start/w
		r := Region{Bounds: image.Rect(sx, sy, sx+1, sy+1)}

		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%w, i/w
			r.Area++
			r.Bounds = r.Bounds.Union(image.Rect(x, y, x+1, y+1))

			for dy := -1; dy <= 1; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					nx := x + dx
					if nx < 0 || nx >= w || (dx == 0 && dy == 0) {
						continue
					}
					j := ny*w + nx
					if !outside[j] && !visited[j] {
						visited[j] = true
						stack = append(stack, j)
					}
				}
			}
		}

		regions = append(regions, r)
	}

	return regions
}
