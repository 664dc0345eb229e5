// Pitch detection engine for the tuner.
//
// The detector is a two-state machine over control ticks: Idle while the
// input is quiet (no spectral work at all) and Tracking while a level gate
// with attack/release hysteresis holds open. Each Tracking tick reduces the
// frame's magnitude spectrum to its dominant contiguous region and reads
// the pitch off that region's weighted centroid.
package core

import (
	"math/cmplx"

	"github.com/maddyblue/go-dsp/fft"
)

// Gate and spectrum defaults, measured on the reference hardware.
const (
	DefaultLevelAttack       = 0.01   // open the gate above this level
	DefaultLevelRelease      = 0.002  // close the gate below this level
	DefaultCutoffFraction    = 0.25   // spectral threshold between min and max
	DefaultCalibrationOffset = -11.5  // Hz, measured against A4 on the 4096-sample build
)

// PitchConfig parameterizes a PitchDetector.
type PitchConfig struct {
	SampleRate  int
	FrameLength int // mono samples per frame; must be a power of two

	Attack         float64
	Release        float64
	CutoffFraction float64

	// CalibrationOffset is added to the mapped frequency, in Hz. It is
	// applied as-is: zero means no correction, not the reference default.
	CalibrationOffset float64
}

func (c *PitchConfig) applyDefaults() {
	if c.SampleRate == 0 {
		c.SampleRate = 48000
	}
	if c.FrameLength == 0 {
		c.FrameLength = 4096
	}
	if c.Attack == 0 {
		c.Attack = DefaultLevelAttack
	}
	if c.Release == 0 {
		c.Release = DefaultLevelRelease
	}
	if c.CutoffFraction == 0 {
		c.CutoffFraction = DefaultCutoffFraction
	}
}

// PitchDetector runs the envelope gate and spectral pipeline.
type PitchDetector struct {
	cfg      PitchConfig
	tracking bool

	// scratch buffers reused across ticks
	samples []float64
	bins    []float64
}

// NewPitchDetector creates a detector. Zero rate, frame and gate fields
// take the reference defaults; the calibration offset is always the
// caller's value.
func NewPitchDetector(cfg PitchConfig) *PitchDetector {
	cfg.applyDefaults()
	return &PitchDetector{
		cfg:     cfg,
		samples: make([]float64, cfg.FrameLength),
		bins:    make([]float64, cfg.FrameLength/2),
	}
}

// Tracking reports whether the gate is open. The tuner display follows
// this state.
func (d *PitchDetector) Tracking() bool {
	return d.tracking
}

// Level computes the instantaneous frame level: peak minus mean,
// normalized by full scale.
func Level(frame []int16) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	max := float64(frame[0])
	for _, s := range frame {
		v := float64(s)
		sum += v
		if v > max {
			max = v
		}
	}
	mean := sum / float64(len(frame))
	level := (max - mean) / 32768
	if level < 0 {
		return 0
	}
	if level > 1 {
		return 1
	}
	return level
}

// Process runs one tick. It updates the gate from the frame level and,
// while Tracking, runs the spectral pipeline. ok is false when the gate is
// closed or when no usable region survives thresholding; the caller must
// leave its display state untouched in that case.
func (d *PitchDetector) Process(frame []int16) (tone ToneEstimate, ok bool) {
	level := Level(frame)
	if !d.tracking && level > d.cfg.Attack {
		d.tracking = true
	} else if d.tracking && level < d.cfg.Release {
		d.tracking = false
	}
	if !d.tracking {
		return ToneEstimate{}, false
	}

	d.spectrum(frame)
	thresholdBins(d.bins, d.cfg.CutoffFraction)
	if _, found := isolateLargestRegion(d.bins); !found {
		return ToneEstimate{}, false
	}
	centroid, ok := weightedCentroid(d.bins)
	if !ok {
		return ToneEstimate{}, false
	}

	minFreq := float64(d.cfg.SampleRate) / float64(d.cfg.FrameLength)
	maxFreq := float64(d.cfg.SampleRate) / 2
	span := float64(len(d.bins) - 1)
	frequency := (maxFreq-minFreq)*(centroid/span) + minFreq + d.cfg.CalibrationOffset
	if frequency <= 0 {
		return ToneEstimate{}, false
	}
	return estimateTone(frequency), true
}

// spectrum fills d.bins with the magnitude spectrum of the frame, lower
// half only; content above Nyquist/2 folding is mirrored and irrelevant
// for the instrument range.
func (d *PitchDetector) spectrum(frame []int16) {
	n := d.cfg.FrameLength
	for i := 0; i < n; i++ {
		if i < len(frame) {
			d.samples[i] = float64(frame[i])
		} else {
			d.samples[i] = 0
		}
	}
	spec := fft.FFTReal(d.samples)
	for i := range d.bins {
		d.bins[i] = cmplx.Abs(spec[i])
	}
}

// thresholdBins zeroes every bin at or below the adaptive threshold
// min + (max-min)*cutoff.
func thresholdBins(bins []float64, cutoff float64) {
	if len(bins) == 0 {
		return
	}
	min, max := bins[0], bins[0]
	for _, v := range bins[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	threshold := min + (max-min)*cutoff
	for i, v := range bins {
		if v <= threshold {
			bins[i] = 0
		}
	}
}

// region is a maximal contiguous run of non-zero bins.
type region struct {
	start  int
	length int
	sum    float64
}

// isolateLargestRegion keeps only the longest contiguous non-zero run in
// bins, zeroing every other region. Equal lengths resolve to the region
// scanned last, for determinism. Reducing an already-reduced array is a
// no-op.
func isolateLargestRegion(bins []float64) (region, bool) {
	var regions []region
	var cur region
	active := false
	for i, v := range bins {
		if v > 0 {
			if !active {
				cur = region{start: i}
				active = true
			}
			cur.length++
			cur.sum += v
		} else if active {
			regions = append(regions, cur)
			active = false
		}
	}
	if active {
		regions = append(regions, cur)
	}
	if len(regions) == 0 {
		return region{}, false
	}

	best := regions[0]
	for _, r := range regions[1:] {
		if r.length >= best.length {
			best = r
		}
	}
	for _, r := range regions {
		if r.start == best.start {
			continue
		}
		for i := r.start; i < r.start+r.length; i++ {
			bins[i] = 0
		}
	}
	return best, true
}

// weightedCentroid returns sum(v*i)/sum(v) over bins. ok is false when the
// array is all-zero; the caller must skip the tick rather than divide by
// zero.
func weightedCentroid(bins []float64) (float64, bool) {
	var num, den float64
	for i, v := range bins {
		num += v * float64(i)
		den += v
	}
	if den == 0 {
		return 0, false
	}
	return num / den, true
}
