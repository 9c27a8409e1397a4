package sinc

import (
	"errors"
	"fmt"
	"math"

	"github.com/Betciso/speechbrain/dsp/core"
	"github.com/Betciso/speechbrain/dsp/mel"
	"github.com/Betciso/speechbrain/dsp/window"
	"github.com/Betciso/speechbrain/internal/vecmath"
)

const (
	defaultSampleRate = 16000.0
	defaultMinLowHz   = 50.0
	defaultMinBandHz  = 50.0
)

// Errors returned by bank construction and parameter updates.
var (
	ErrEvenKernel     = errors.New("sinc: kernel size must be odd")
	ErrNoFilters      = errors.New("sinc: need at least one filter")
	ErrParamLength    = errors.New("sinc: parameter length does not match filter count")
	ErrFilterIndex    = errors.New("sinc: filter index out of range")
	ErrInvalidLimits  = errors.New("sinc: minimum cutoffs leave no usable band below Nyquist")
)

// Band describes the effective passband of one filter after the abs/clamp
// reparameterization of the learnable cutoffs.
type Band struct {
	LowHz    float64
	HighHz   float64
	CenterHz float64
	WidthHz  float64
}

// Option configures a Bank.
type Option func(*config)

type config struct {
	sampleRate float64
	minLowHz   float64
	minBandHz  float64
}

func defaultBankConfig() config {
	return config{
		sampleRate: defaultSampleRate,
		minLowHz:   defaultMinLowHz,
		minBandHz:  defaultMinBandHz,
	}
}

// WithSampleRate sets the waveform sample rate in Hz. Defaults to 16000.
func WithSampleRate(hz float64) Option {
	return func(cfg *config) {
		if hz > 0 {
			cfg.sampleRate = hz
		}
	}
}

// WithMinLowHz sets the lowest admissible filter cutoff in Hz.
func WithMinLowHz(hz float64) Option {
	return func(cfg *config) {
		if hz > 0 {
			cfg.minLowHz = hz
		}
	}
}

// WithMinBandHz sets the smallest admissible filter bandwidth in Hz.
func WithMinBandHz(hz float64) Option {
	return func(cfg *config) {
		if hz > 0 {
			cfg.minBandHz = hz
		}
	}
}

// Bank is a bank of sinc bandpass filters with learnable cutoff parameters.
type Bank struct {
	numFilters int
	kernelSize int

	sampleRate float64
	minLowHz   float64
	minBandHz  float64

	// Learnable parameters, one pair per filter.
	lowHz  []float64
	bandHz []float64

	// Precomputed left half-window and time axis (2*pi*t/sampleRate for
	// t = -half..-1); the right filter half is mirrored from the left.
	halfWindow []float64
	timeAxis   []float64
}

// NewBank creates a filter bank with cutoffs equally spaced on the mel scale
// between the minimum low cutoff and Nyquist minus the reserved margins.
func NewBank(numFilters, kernelSize int, opts ...Option) (*Bank, error) {
	if numFilters < 1 {
		return nil, ErrNoFilters
	}

	if kernelSize < 3 || kernelSize%2 == 0 {
		return nil, fmt.Errorf("%w: got %d", ErrEvenKernel, kernelSize)
	}

	cfg := defaultBankConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	highHz := cfg.sampleRate/2 - (cfg.minLowHz + cfg.minBandHz)
	if highHz <= cfg.minLowHz {
		return nil, fmt.Errorf("%w: min low %.1f Hz, min band %.1f Hz, sample rate %.1f Hz",
			ErrInvalidLimits, cfg.minLowHz, cfg.minBandHz, cfg.sampleRate)
	}

	// numFilters+1 mel-spaced edges; filter i spans [edge_i, edge_i+1].
	edges, err := mel.Points(cfg.minLowHz, highHz, numFilters+1)
	if err != nil {
		return nil, fmt.Errorf("sinc: filterbank initialization: %w", err)
	}

	b := &Bank{
		numFilters: numFilters,
		kernelSize: kernelSize,
		sampleRate: cfg.sampleRate,
		minLowHz:   cfg.minLowHz,
		minBandHz:  cfg.minBandHz,
		lowHz:      make([]float64, numFilters),
		bandHz:     make([]float64, numFilters),
	}

	for i := 0; i < numFilters; i++ {
		b.lowHz[i] = edges[i]
		b.bandHz[i] = edges[i+1] - edges[i]
	}

	half := kernelSize / 2
	b.halfWindow = window.Generate(window.TypeHamming, kernelSize, window.WithPeriodic())[:half]

	b.timeAxis = make([]float64, half)
	for j := 0; j < half; j++ {
		b.timeAxis[j] = 2 * math.Pi * float64(j-half) / cfg.sampleRate
	}

	return b, nil
}

// NumFilters returns the number of filters in the bank.
func (b *Bank) NumFilters() int { return b.numFilters }

// KernelSize returns the filter length in samples.
func (b *Bank) KernelSize() int { return b.kernelSize }

// SampleRate returns the sample rate the bank was built for.
func (b *Bank) SampleRate() float64 { return b.sampleRate }

// Params returns copies of the learnable low-cutoff and bandwidth parameters.
func (b *Bank) Params() (lowHz, bandHz []float64) {
	return append([]float64(nil), b.lowHz...), append([]float64(nil), b.bandHz...)
}

// SetParams replaces the learnable parameters. Both slices must have one
// entry per filter; values are copied.
func (b *Bank) SetParams(lowHz, bandHz []float64) error {
	if len(lowHz) != b.numFilters || len(bandHz) != b.numFilters {
		return fmt.Errorf("%w: got %d/%d for %d filters", ErrParamLength, len(lowHz), len(bandHz), b.numFilters)
	}

	copy(b.lowHz, lowHz)
	copy(b.bandHz, bandHz)

	return nil
}

// cutoffs maps the unconstrained parameters of filter i to effective cutoff
// frequencies. The low cutoff is kept below Nyquist minus the minimum
// bandwidth so the passband never collapses.
func (b *Bank) cutoffs(i int) (low, high float64) {
	nyquist := b.sampleRate / 2

	low = b.minLowHz + math.Abs(b.lowHz[i])
	low = core.Clamp(low, b.minLowHz, nyquist-b.minBandHz)

	high = core.Clamp(low+b.minBandHz+math.Abs(b.bandHz[i]), b.minLowHz, nyquist)

	return low, high
}

// Bands returns the effective passband of every filter.
func (b *Bank) Bands() []Band {
	out := make([]Band, b.numFilters)
	for i := range out {
		low, high := b.cutoffs(i)
		out[i] = Band{
			LowHz:    low,
			HighHz:   high,
			CenterHz: (low + high) / 2,
			WidthHz:  high - low,
		}
	}

	return out
}

// Filters synthesizes all filters, one row per filter.
func (b *Bank) Filters() [][]float64 {
	out := make([][]float64, b.numFilters)
	for i := range out {
		out[i] = make([]float64, b.kernelSize)
		b.synthInto(out[i], i)
	}

	return out
}

// FiltersFlat synthesizes all filters into one contiguous slice of length
// NumFilters*KernelSize, row-major. This is the layout the convolution
// engines consume.
func (b *Bank) FiltersFlat() []float64 {
	out := make([]float64, b.numFilters*b.kernelSize)
	for i := 0; i < b.numFilters; i++ {
		b.synthInto(out[i*b.kernelSize:(i+1)*b.kernelSize], i)
	}

	return out
}

// FilterAt synthesizes a single filter.
func (b *Bank) FilterAt(i int) ([]float64, error) {
	if i < 0 || i >= b.numFilters {
		return nil, fmt.Errorf("%w: %d of %d", ErrFilterIndex, i, b.numFilters)
	}

	out := make([]float64, b.kernelSize)
	b.synthInto(out, i)

	return out, nil
}

// synthInto writes filter i into dst (length kernelSize).
//
// Left half: (sin(f_high * t) - sin(f_low * t)) / (t/2) * w, with t the
// precomputed 2*pi*t/sampleRate axis; the right half mirrors the left.
// Amplitude is normalized by 2*width, which maps the center tap to exactly 1.
func (b *Bank) synthInto(dst []float64, i int) {
	low, high := b.cutoffs(i)
	width := high - low

	half := b.kernelSize / 2
	for j := 0; j < half; j++ {
		t := b.timeAxis[j]
		v := (math.Sin(high*t) - math.Sin(low*t)) / (t / 2) * b.halfWindow[j]

		dst[j] = v
		dst[b.kernelSize-1-j] = v
	}

	vecmath.ScaleBlockInPlace(dst, 1/(2*width))
	dst[half] = 1
}
