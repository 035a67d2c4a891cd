package density

import (
	"errors"
	"image"
	"math"
	"strconv"
)

type Status string

const (
	StatusNormal    Status = "NORMAL"
	StatusHighCrowd Status = "HIGH_CROWD"
)

var ErrEmptyImage = errors.New("image has no pixels")

// Record is the crowd metric for one frame. FreeSpace is always derived as
// 100 - Density, so the two always sum to exactly 100.
type Record struct {
	Count     int     `json:"count"`
	Density   float64 `json:"density"`
	FreeSpace float64 `json:"free_space"`
	Status    Status  `json:"status"`
	// Precision is the number of decimals to keep when the record leaves the process.
	Precision int `json:"-"`
}

func newRecord(count int, d float64, policy Policy) Record {
	return Record{
		Count:     count,
		Density:   d,
		FreeSpace: 100 - d,
		Status:    policy.classify(d),
		Precision: policy.Precision,
	}
}

// Rounded returns the record with Density rounded to Precision decimals and
// FreeSpace re-derived from it. Status is kept from the unrounded value.
func (r Record) Rounded() Record {
	r.Density = roundTo(r.Density, r.Precision)
	r.FreeSpace = 100 - r.Density
	return r
}

// FormatDensity renders Density with the record's precision.
func (r Record) FormatDensity() string {
	return strconv.FormatFloat(r.Density, 'f', r.Precision, 64)
}

// FormatFreeSpace renders FreeSpace with the record's precision.
func (r Record) FormatFreeSpace() string {
	return strconv.FormatFloat(r.FreeSpace, 'f', r.Precision, 64)
}

func roundTo(v float64, precision int) float64 {
	scale := math.Pow(10, float64(precision))
	return math.Round(v*scale) / scale
}

type Estimator struct {
	policy    Policy
	segmenter Segmenter
}

type EstimatorOption func(*Estimator)

// WithSegmenter swaps the segmentation backend.
func WithSegmenter(s Segmenter) EstimatorOption {
	return func(e *Estimator) {
		if s != nil {
			e.segmenter = s
		}
	}
}

func New(policy Policy, opts ...EstimatorOption) (*Estimator, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	e := &Estimator{
		policy:    policy,
		segmenter: defaultSegmenter(),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

func (e *Estimator) Policy() Policy {
	return e.policy
}

// Estimate analyses one frame. It keeps no state between calls.
func (e *Estimator) Estimate(img image.Image) (Record, error) {
	if img == nil {
		return Record{}, ErrEmptyImage
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return Record{}, ErrEmptyImage
	}

	gray, w, h := luminance(img)
	blurred := gaussianBlur(gray, w, h, e.policy.KernelSize)
	regions := e.segmenter.Segment(blurred, w, h, e.policy.Method, e.policy.FixedCutoff)

	return e.summarize(regions, w*h), nil
}

func (e *Estimator) summarize(regions []Region, frameArea int) Record {
	count, areaSum := 0, 0
	for _, r := range regions {
		if !e.policy.accepts(r.Area) {
			continue
		}
		count++
		areaSum += r.Area
	}

	return newRecord(count, densityOf(areaSum, frameArea), e.policy)
}

// densityOf is the covered share of the frame in percent, clamped to [0,100].
func densityOf(areaSum, frameArea int) float64 {
	if frameArea <= 0 {
		return 0
	}
	d := 100 * float64(areaSum) / float64(frameArea)
	return math.Max(0, math.Min(d, 100))
}
