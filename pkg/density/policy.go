// Package density estimates crowd density from a single camera frame by
// segmenting it into foreground blobs and measuring how much of the frame
// they cover.
package density

import (
	"errors"
	"fmt"
)

type ThresholdMethod int

const (
	// ThresholdFixed binarizes at Policy.FixedCutoff.
	ThresholdFixed ThresholdMethod = iota
	// ThresholdOtsu picks the cutoff per frame by maximising between-class variance.
	ThresholdOtsu
)

func (m ThresholdMethod) String() string {
	switch m {
	case ThresholdFixed:
		return "fixed"
	case ThresholdOtsu:
		return "otsu"
	default:
		return fmt.Sprintf("ThresholdMethod(%d)", int(m))
	}
}

var ErrInvalidPolicy = errors.New("invalid density policy")

// Policy selects one estimator variant. Counts from policies with and without
// region filtering are not comparable.
type Policy struct {
	Name       string
	KernelSize int
	Method     ThresholdMethod
	// FixedCutoff is used only with ThresholdFixed.
	FixedCutoff uint8

	// FilterRegions keeps regions with MinArea < area < MaxArea.
	FilterRegions bool
	MinArea       int
	MaxArea       int

	// HighCrowdAbove is the density a frame must strictly exceed to be HIGH_CROWD.
	HighCrowdAbove float64
	// Precision is the number of decimals applied when a record is externalized.
	Precision int
}

var (
	Advanced = Policy{
		Name:           "advanced",
		KernelSize:     21,
		Method:         ThresholdOtsu,
		FilterRegions:  true,
		MinArea:        800,
		MaxArea:        50000,
		HighCrowdAbove: 40,
		Precision:      1,
	}

	Lightweight = Policy{
		Name:           "lightweight",
		KernelSize:     15,
		Method:         ThresholdFixed,
		FixedCutoff:    50,
		HighCrowdAbove: 50,
		Precision:      2,
	}
)

func (p Policy) Validate() error {
	if p.KernelSize < 1 || p.KernelSize%2 == 0 {
		return fmt.Errorf("%w: kernel size %d must be odd and positive", ErrInvalidPolicy, p.KernelSize)
	}
	if p.Method != ThresholdFixed && p.Method != ThresholdOtsu {
		return fmt.Errorf("%w: unknown threshold method %s", ErrInvalidPolicy, p.Method)
	}
	if p.FilterRegions && (p.MinArea < 0 || p.MaxArea <= p.MinArea) {
		return fmt.Errorf("%w: area bounds (%d, %d) are empty", ErrInvalidPolicy, p.MinArea, p.MaxArea)
	}
	if p.HighCrowdAbove < 0 || p.HighCrowdAbove > 100 {
		return fmt.Errorf("%w: status threshold %.2f outside [0,100]", ErrInvalidPolicy, p.HighCrowdAbove)
	}
	if p.Precision < 0 || p.Precision > 6 {
		return fmt.Errorf("%w: precision %d outside [0,6]", ErrInvalidPolicy, p.Precision)
	}
	return nil
}

// accepts applies the person-blob area filter. Both bounds are exclusive.
func (p Policy) accepts(area int) bool {
	if !p.FilterRegions {
		return true
	}
	return area > p.MinArea && area < p.MaxArea
}

func (p Policy) classify(density float64) Status {
	if density > p.HighCrowdAbove {
		return StatusHighCrowd
	}
	return StatusNormal
}
