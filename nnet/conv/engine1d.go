package conv

import (
	dspconv "github.com/Betciso/speechbrain/dsp/conv"
	"github.com/Betciso/speechbrain/internal/vecmath"
)

// fftKernelMin is the kernel length from which the FFT path beats the
// im2col path at unit stride and dilation.
const fftKernelMin = 64

// geom1D describes one batch element of a 1D convolution after padding.
type geom1D struct {
	channels int
	inLen    int
	out      int
	kernel   int
	stride   int
	dilation int
	groups   int
	outLen   int
}

// engine1D runs the per-batch convolution. The same engine is reused across
// batch elements so FFT plans and scratch buffers are built once per forward
// pass.
type engine1D struct {
	geo     geom1D
	weights []float64

	colRow []float64             // im2col scratch, one output position
	ola    []*dspconv.OverlapAdd // [out*channels], nil outside the FFT path
}

func newEngine1D(geo geom1D, weights []float64) *engine1D {
	return &engine1D{geo: geo, weights: weights}
}

func (e *engine1D) useFFT() bool {
	return e.geo.stride == 1 && e.geo.dilation == 1 && e.geo.groups == 1 &&
		e.geo.kernel >= fftKernelMin
}

// run convolves one batch element. in is channel-first [channels][inLen]
// flat; dst receives [out][outLen] flat, without bias.
func (e *engine1D) run(dst, in []float64) error {
	if e.useFFT() {
		return e.runFFT(dst, in)
	}

	if e.geo.groups == 1 {
		e.runIm2col(dst, in)
		return nil
	}

	e.runGrouped(dst, in)

	return nil
}

// runIm2col gathers the kernel taps of every input channel into one
// contiguous row per output position and reduces it with a dot product
// against the matching weight row.
func (e *engine1D) runIm2col(dst, in []float64) {
	g := e.geo
	rowLen := g.channels * g.kernel

	if e.colRow == nil {
		e.colRow = make([]float64, rowLen)
	}

	for t := 0; t < g.outLen; t++ {
		t0 := t * g.stride

		for c := 0; c < g.channels; c++ {
			base := c*g.inLen + t0
			for j := 0; j < g.kernel; j++ {
				e.colRow[c*g.kernel+j] = in[base+j*g.dilation]
			}
		}

		for o := 0; o < g.out; o++ {
			dst[o*g.outLen+t] = vecmath.DotProduct(e.colRow, e.weights[o*rowLen:(o+1)*rowLen])
		}
	}
}

// runGrouped convolves each channel group independently.
func (e *engine1D) runGrouped(dst, in []float64) {
	g := e.geo
	inPerGroup := g.channels / g.groups
	outPerGroup := g.out / g.groups

	for o := 0; o < g.out; o++ {
		group := o / outPerGroup
		wBase := o * inPerGroup * g.kernel

		for t := 0; t < g.outLen; t++ {
			t0 := t * g.stride
			sum := 0.0

			for cg := 0; cg < inPerGroup; cg++ {
				c := group*inPerGroup + cg
				w := e.weights[wBase+cg*g.kernel : wBase+(cg+1)*g.kernel]

				if g.dilation == 1 {
					sum += vecmath.DotProduct(in[c*g.inLen+t0:c*g.inLen+t0+g.kernel], w)
					continue
				}

				for j := 0; j < g.kernel; j++ {
					sum += in[c*g.inLen+t0+j*g.dilation] * w[j]
				}
			}

			dst[o*g.outLen+t] = sum
		}
	}
}

// runFFT convolves through overlap-add. Convolution flips its kernel, so
// each weight row is reversed before planning; the sliding-window result is
// the fully-overlapped region of the linear convolution.
func (e *engine1D) runFFT(dst, in []float64) error {
	g := e.geo

	if e.ola == nil {
		e.ola = make([]*dspconv.OverlapAdd, g.out*g.channels)
		rev := make([]float64, g.kernel)

		for o := 0; o < g.out; o++ {
			for c := 0; c < g.channels; c++ {
				base := (o*g.channels + c) * g.kernel
				for j := range rev {
					rev[j] = e.weights[base+g.kernel-1-j]
				}

				ola, err := dspconv.NewOverlapAdd(rev, 0)
				if err != nil {
					return err
				}

				e.ola[o*g.channels+c] = ola
			}
		}
	}

	for o := 0; o < g.out; o++ {
		acc := dst[o*g.outLen : (o+1)*g.outLen]
		for i := range acc {
			acc[i] = 0
		}

		for c := 0; c < g.channels; c++ {
			full, err := e.ola[o*g.channels+c].Process(in[c*g.inLen : (c+1)*g.inLen])
			if err != nil {
				return err
			}

			vecmath.AddBlockInPlace(acc, full[g.kernel-1:g.kernel-1+g.outLen])
		}
	}

	return nil
}
