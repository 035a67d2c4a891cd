package density

// otsuThreshold returns the cutoff that maximises between-class variance of
// the intensity histogram. A frame with no variance gets its own maximum
// intensity, which leaves it without foreground.
func otsuThreshold(gray []uint8) uint8 {
	var hist [256]int
	for _, v := range gray {
		hist[v]++
	}

	total := len(gray)
	if total == 0 {
		return 255
	}

	var sumAll float64
	maxLevel := 0
	for i, n := range hist {
		sumAll += float64(i * n)
		if n > 0 {
			maxLevel = i
		}
	}

	var (
		sumBg    float64
		weightBg int
		best     float64
		cutoff   = maxLevel
	)
	for t := 0; t < 256; t++ {
		weightBg += hist[t]
		if weightBg == 0 {
			continue
		}
		weightFg := total - weightBg
		if weightFg == 0 {
			break
		}

		sumBg += float64(t * hist[t])
		meanBg := sumBg / float64(weightBg)
		meanFg := (sumAll - sumBg) / float64(weightFg)
		diff := meanBg - meanFg
		between := float64(weightBg) * float64(weightFg) * diff * diff
		if between > best {
			best = between
			cutoff = t
		}
	}

	return uint8(cutoff)
}

// binarize marks pixels strictly brighter than cutoff as foreground.
func binarize(gray []uint8, cutoff uint8) []bool {
	mask := make([]bool, len(gray))
	for i, v := range gray {
		mask[i] = v > cutoff
	}
	return mask
}
