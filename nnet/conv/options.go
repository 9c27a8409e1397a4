package conv

import "github.com/Betciso/speechbrain/nnet/sinc"

// PadMode selects how borders are filled when padding preserves the input
// length.
type PadMode int

const (
	// PadReflect mirrors the samples next to the border, excluding the
	// border sample itself.
	PadReflect PadMode = iota

	// PadZero fills with zeros.
	PadZero

	// PadReplicate repeats the border sample.
	PadReplicate

	// PadCircular wraps around to the opposite border.
	PadCircular
)

func (m PadMode) String() string {
	switch m {
	case PadReflect:
		return "reflect"
	case PadZero:
		return "zero"
	case PadReplicate:
		return "replicate"
	case PadCircular:
		return "circular"
	default:
		return "unknown"
	}
}

// Option configures a Layer.
type Option func(*config)

type config struct {
	stride   []int
	dilation []int
	groups   int
	bias     bool
	padded   bool
	padMode  PadMode
	seed     int64

	sincMode bool
	sincOpts []sinc.Option
}

func defaultConfig() config {
	return config{
		groups:  1,
		bias:    true,
		padded:  true,
		padMode: PadReflect,
		seed:    1,
	}
}

// WithStride sets the convolution stride. One value applies to every kernel
// axis; otherwise the count must match the kernel arity.
func WithStride(stride ...int) Option {
	return func(cfg *config) {
		cfg.stride = append([]int(nil), stride...)
	}
}

// WithDilation sets the kernel dilation. One value applies to every kernel
// axis; otherwise the count must match the kernel arity.
func WithDilation(dilation ...int) Option {
	return func(cfg *config) {
		cfg.dilation = append([]int(nil), dilation...)
	}
}

// WithGroups splits input and output channels into the given number of
// independent groups. Defaults to 1.
func WithGroups(groups int) Option {
	return func(cfg *config) {
		cfg.groups = groups
	}
}

// WithoutBias disables the additive per-channel bias.
func WithoutBias() Option {
	return func(cfg *config) {
		cfg.bias = false
	}
}

// WithoutPadding disables length-preserving padding; the output then shrinks
// by the kernel span ("valid" convolution).
func WithoutPadding() Option {
	return func(cfg *config) {
		cfg.padded = false
	}
}

// WithPadMode sets how borders are filled. Defaults to [PadReflect].
func WithPadMode(mode PadMode) Option {
	return func(cfg *config) {
		cfg.padMode = mode
	}
}

// WithSeed seeds the weight initializer. Layers with the same geometry and
// seed start from identical weights.
func WithSeed(seed int64) Option {
	return func(cfg *config) {
		cfg.seed = seed
	}
}

// WithSinc replaces the free-form kernel with filters synthesized from a
// learnable sinc filter bank. Only 1D layers over a single input channel
// support this; the layer then carries no bias, and the given options
// configure the bank.
func WithSinc(opts ...sinc.Option) Option {
	return func(cfg *config) {
		cfg.sincMode = true
		cfg.sincOpts = append(cfg.sincOpts, opts...)
	}
}
