package conv

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/Betciso/speechbrain/nnet/sinc"
	"github.com/Betciso/speechbrain/tensor"
)

// Errors returned by layer construction and Forward.
var (
	ErrOutChannels    = errors.New("conv: need at least one output channel")
	ErrKernelArity    = errors.New("conv: kernel must have one or two dimensions")
	ErrEvenKernel     = errors.New("conv: kernel sizes must be odd")
	ErrBadStride      = errors.New("conv: invalid stride")
	ErrBadDilation    = errors.New("conv: invalid dilation")
	ErrBadGroups      = errors.New("conv: invalid channel grouping")
	ErrEmptyInput     = errors.New("conv: empty input")
	ErrRank           = errors.New("conv: unsupported input rank")
	ErrShapeChanged   = errors.New("conv: input geometry differs from first call")
	ErrInputTooShort  = errors.New("conv: input shorter than kernel span")
	ErrPadTooLarge    = errors.New("conv: padding exceeds input length")
	ErrNotInitialized = errors.New("conv: parameters not initialized before first forward pass")
	ErrWeightLength   = errors.New("conv: parameter length mismatch")
	ErrSincConstraint = errors.New("conv: sinc layers need a one-dimensional kernel over a single channel")
	ErrSincFixed      = errors.New("conv: sinc layer weights are synthesized from its filter bank")
)

// Layer is a convolution layer over channel-last tensors. The kernel arity
// passed to [New] selects between 1D and 2D convolution; [WithSinc] replaces
// the free-form 1D kernel with synthesized bandpass filters.
//
// The input rank and channel count are fixed by the first Forward call, which
// also allocates and initializes the weights.
type Layer struct {
	outChannels int
	kernel      []int
	stride      []int
	dilation    []int
	groups      int
	useBias     bool
	padded      bool
	padMode     PadMode
	seed        int64

	bank *sinc.Bank

	initialized bool
	inRank      int
	inChannels  int

	weights []float64 // [out][in/groups][kernel...] row-major
	bias    []float64 // [out]
}

// New creates a convolution layer producing outChannels output channels.
// kernelSize has one element for 1D convolution over time, or two elements
// (time, freq) for 2D convolution. All kernel sizes must be odd so that
// length-preserving padding stays symmetric.
func New(outChannels int, kernelSize []int, opts ...Option) (*Layer, error) {
	if outChannels < 1 {
		return nil, ErrOutChannels
	}

	arity := len(kernelSize)
	if arity < 1 || arity > 2 {
		return nil, fmt.Errorf("%w: got %d", ErrKernelArity, arity)
	}

	for _, k := range kernelSize {
		if k < 1 || k%2 == 0 {
			return nil, fmt.Errorf("%w: got %v", ErrEvenKernel, kernelSize)
		}
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	stride, err := perAxis(cfg.stride, arity, 1, ErrBadStride)
	if err != nil {
		return nil, err
	}

	dilation, err := perAxis(cfg.dilation, arity, 1, ErrBadDilation)
	if err != nil {
		return nil, err
	}

	if cfg.groups < 1 || outChannels%cfg.groups != 0 {
		return nil, fmt.Errorf("%w: %d output channels across %d groups", ErrBadGroups, outChannels, cfg.groups)
	}

	l := &Layer{
		outChannels: outChannels,
		kernel:      append([]int(nil), kernelSize...),
		stride:      stride,
		dilation:    dilation,
		groups:      cfg.groups,
		useBias:     cfg.bias,
		padded:      cfg.padded,
		padMode:     cfg.padMode,
		seed:        cfg.seed,
	}

	if cfg.sincMode {
		if arity != 1 || cfg.groups != 1 {
			return nil, ErrSincConstraint
		}

		bank, err := sinc.NewBank(outChannels, kernelSize[0], cfg.sincOpts...)
		if err != nil {
			return nil, err
		}

		l.bank = bank
		l.useBias = false
	}

	return l, nil
}

// perAxis normalizes a per-axis option: empty means the fallback everywhere,
// a single value broadcasts, and otherwise one value per kernel axis is
// required. All values must be positive.
func perAxis(values []int, arity, fallback int, errKind error) ([]int, error) {
	out := make([]int, arity)

	switch len(values) {
	case 0:
		for i := range out {
			out[i] = fallback
		}
	case 1:
		for i := range out {
			out[i] = values[0]
		}
	case arity:
		copy(out, values)
	default:
		return nil, fmt.Errorf("%w: %d values for %d kernel dimensions", errKind, len(values), arity)
	}

	for _, v := range out {
		if v < 1 {
			return nil, fmt.Errorf("%w: %v", errKind, values)
		}
	}

	return out, nil
}

// OutChannels returns the number of output channels.
func (l *Layer) OutChannels() int { return l.outChannels }

// KernelSize returns a copy of the kernel shape.
func (l *Layer) KernelSize() []int { return append([]int(nil), l.kernel...) }

// InChannels returns the input channel count fixed by the first forward
// pass, or 0 before it.
func (l *Layer) InChannels() int { return l.inChannels }

// Bank returns the sinc filter bank for layers built with [WithSinc], or nil.
func (l *Layer) Bank() *sinc.Bank { return l.bank }

// Weights returns a copy of the weights laid out [out][in/groups][kernel...]
// row-major. For sinc layers the currently synthesized filters are returned.
func (l *Layer) Weights() ([]float64, error) {
	if !l.initialized {
		return nil, ErrNotInitialized
	}

	if l.bank != nil {
		return l.bank.FiltersFlat(), nil
	}

	return append([]float64(nil), l.weights...), nil
}

// SetWeights replaces the weights. The layer must have seen one forward pass
// so its geometry is known; sinc layers reject free-form weights.
func (l *Layer) SetWeights(w []float64) error {
	if l.bank != nil {
		return ErrSincFixed
	}

	if !l.initialized {
		return ErrNotInitialized
	}

	if len(w) != len(l.weights) {
		return fmt.Errorf("%w: got %d weights, want %d", ErrWeightLength, len(w), len(l.weights))
	}

	copy(l.weights, w)

	return nil
}

// Bias returns a copy of the per-channel bias, or nil when the layer carries
// none.
func (l *Layer) Bias() ([]float64, error) {
	if !l.initialized {
		return nil, ErrNotInitialized
	}

	if l.bias == nil {
		return nil, nil
	}

	return append([]float64(nil), l.bias...), nil
}

// SetBias replaces the per-channel bias.
func (l *Layer) SetBias(b []float64) error {
	if !l.initialized {
		return ErrNotInitialized
	}

	if l.bias == nil {
		return fmt.Errorf("%w: layer has no bias", ErrWeightLength)
	}

	if len(b) != len(l.bias) {
		return fmt.Errorf("%w: got %d bias values, want %d", ErrWeightLength, len(b), l.outChannels)
	}

	copy(l.bias, b)

	return nil
}

// Forward applies the layer to a channel-last input tensor.
//
// 1D layers accept [batch, time], [batch, time, channels] or
// [batch, time, ch1, ch2] (the trailing two dimensions merge into channels)
// and return [batch, time', outChannels]. 2D layers accept [batch, time,
// freq] or [batch, time, freq, channels] and return [batch, time', freq',
// outChannels].
func (l *Layer) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if x == nil || x.Len() == 0 {
		return nil, ErrEmptyInput
	}

	if len(l.kernel) == 2 {
		return l.forward2D(x)
	}

	return l.forward1D(x)
}

// bindGeometry fixes the input rank and channel count on the first call and
// checks them on every later one.
func (l *Layer) bindGeometry(rank, channels int) error {
	if !l.initialized {
		l.inRank = rank
		return l.initParams(channels)
	}

	if rank != l.inRank || channels != l.inChannels {
		return fmt.Errorf("%w: got rank %d with %d channels, want rank %d with %d",
			ErrShapeChanged, rank, channels, l.inRank, l.inChannels)
	}

	return nil
}

// initParams allocates the weights for the now-known input channel count and
// fills them uniformly from +-1/sqrt(fanIn).
func (l *Layer) initParams(inChannels int) error {
	if inChannels%l.groups != 0 {
		return fmt.Errorf("%w: %d input channels across %d groups", ErrBadGroups, inChannels, l.groups)
	}

	if l.bank != nil {
		if inChannels != 1 {
			return fmt.Errorf("%w: got %d channels", ErrSincConstraint, inChannels)
		}

		l.inChannels = 1
		l.initialized = true

		return nil
	}

	span := l.kernel[0]
	if len(l.kernel) == 2 {
		span *= l.kernel[1]
	}

	fanIn := inChannels / l.groups * span
	bound := 1 / math.Sqrt(float64(fanIn))
	rng := rand.New(rand.NewSource(l.seed))

	l.weights = make([]float64, l.outChannels*(inChannels/l.groups)*span)
	for i := range l.weights {
		l.weights[i] = bound * (2*rng.Float64() - 1)
	}

	if l.useBias {
		l.bias = make([]float64, l.outChannels)
		for i := range l.bias {
			l.bias[i] = bound * (2*rng.Float64() - 1)
		}
	}

	l.inChannels = inChannels
	l.initialized = true

	return nil
}

func (l *Layer) forward1D(x *tensor.Tensor) (*tensor.Tensor, error) {
	shape := x.Shape()
	rank := len(shape)

	if rank < 2 || rank > 4 {
		return nil, fmt.Errorf("%w: rank %d for 1D convolution", ErrRank, rank)
	}

	channels := 1
	if rank >= 3 {
		channels = shape[2]
	}

	if rank == 4 {
		channels *= shape[3]
	}

	if err := l.bindGeometry(rank, channels); err != nil {
		return nil, err
	}

	batch, timeLen := shape[0], shape[1]
	k, s, d := l.kernel[0], l.stride[0], l.dilation[0]

	pad := 0
	if l.padded {
		pad = padLength(timeLen, k, s, d)
	}

	paddedLen := timeLen + 2*pad
	span := d*(k-1) + 1

	if paddedLen < span {
		return nil, fmt.Errorf("%w: %d samples for span %d", ErrInputTooShort, timeLen, span)
	}

	outLen := (paddedLen-span)/s + 1

	weights := l.weights
	if l.bank != nil {
		weights = l.bank.FiltersFlat()
	}

	geo := geom1D{
		channels: channels,
		inLen:    paddedLen,
		out:      l.outChannels,
		kernel:   k,
		stride:   s,
		dilation: d,
		groups:   l.groups,
		outLen:   outLen,
	}

	eng := newEngine1D(geo, weights)

	data := x.Data()

	y, err := tensor.Zeros(batch, outLen, l.outChannels)
	if err != nil {
		return nil, err
	}

	yData := y.Data()

	row := make([]float64, timeLen)
	padded := make([]float64, channels*paddedLen)
	result := make([]float64, l.outChannels*outLen)

	for b := 0; b < batch; b++ {
		for c := 0; c < channels; c++ {
			if rank == 2 {
				copy(row, data[b*timeLen:(b+1)*timeLen])
			} else {
				for t := 0; t < timeLen; t++ {
					row[t] = data[(b*timeLen+t)*channels+c]
				}
			}

			if err := padRow(padded[c*paddedLen:(c+1)*paddedLen], row, pad, pad, l.padMode); err != nil {
				return nil, err
			}
		}

		if err := eng.run(result, padded); err != nil {
			return nil, err
		}

		for o := 0; o < l.outChannels; o++ {
			biasVal := 0.0
			if l.bias != nil {
				biasVal = l.bias[o]
			}

			for t := 0; t < outLen; t++ {
				yData[(b*outLen+t)*l.outChannels+o] = result[o*outLen+t] + biasVal
			}
		}
	}

	return y, nil
}

func (l *Layer) forward2D(x *tensor.Tensor) (*tensor.Tensor, error) {
	shape := x.Shape()
	rank := len(shape)

	if rank < 3 || rank > 4 {
		return nil, fmt.Errorf("%w: rank %d for 2D convolution", ErrRank, rank)
	}

	channels := 1
	if rank == 4 {
		channels = shape[3]
	}

	if err := l.bindGeometry(rank, channels); err != nil {
		return nil, err
	}

	batch, timeLen, freqLen := shape[0], shape[1], shape[2]
	kt, kf := l.kernel[0], l.kernel[1]
	st, sf := l.stride[0], l.stride[1]
	dt, df := l.dilation[0], l.dilation[1]

	padT, padF := 0, 0
	if l.padded {
		padT = padLength(timeLen, kt, st, dt)
		padF = padLength(freqLen, kf, sf, df)
	}

	rows := timeLen + 2*padT
	cols := freqLen + 2*padF
	spanT := dt*(kt-1) + 1
	spanF := df*(kf-1) + 1

	if rows < spanT || cols < spanF {
		return nil, fmt.Errorf("%w: %dx%d grid for span %dx%d", ErrInputTooShort, timeLen, freqLen, spanT, spanF)
	}

	outT := (rows-spanT)/st + 1
	outF := (cols-spanF)/sf + 1

	data := x.Data()

	y, err := tensor.Zeros(batch, outT, outF, l.outChannels)
	if err != nil {
		return nil, err
	}

	yData := y.Data()

	grid := make([]float64, timeLen*freqLen)
	padded := make([]float64, channels*rows*cols)
	result := make([]float64, l.outChannels*outT*outF)

	inPerGroup := channels / l.groups
	outPerGroup := l.outChannels / l.groups

	for b := 0; b < batch; b++ {
		for c := 0; c < channels; c++ {
			for t := 0; t < timeLen; t++ {
				for f := 0; f < freqLen; f++ {
					grid[t*freqLen+f] = data[((b*timeLen+t)*freqLen+f)*channels+c]
				}
			}

			err := padGrid(padded[c*rows*cols:(c+1)*rows*cols], grid, timeLen, freqLen, padT, padF, l.padMode)
			if err != nil {
				return nil, err
			}
		}

		conv2DDirect(result, padded, geom2D{
			channels:    channels,
			rows:        rows,
			cols:        cols,
			out:         l.outChannels,
			kernelT:     kt,
			kernelF:     kf,
			strideT:     st,
			strideF:     sf,
			dilationT:   dt,
			dilationF:   df,
			inPerGroup:  inPerGroup,
			outPerGroup: outPerGroup,
			outT:        outT,
			outF:        outF,
		}, l.weights)

		for o := 0; o < l.outChannels; o++ {
			biasVal := 0.0
			if l.bias != nil {
				biasVal = l.bias[o]
			}

			for t := 0; t < outT; t++ {
				for f := 0; f < outF; f++ {
					yData[((b*outT+t)*outF+f)*l.outChannels+o] = result[(o*outT+t)*outF+f] + biasVal
				}
			}
		}
	}

	return y, nil
}
