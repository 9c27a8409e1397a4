package conv

// geom2D describes one batch element of a 2D convolution after padding.
type geom2D struct {
	channels int
	rows     int
	cols     int
	out      int

	kernelT, kernelF     int
	strideT, strideF     int
	dilationT, dilationF int

	inPerGroup  int
	outPerGroup int

	outT, outF int
}

// conv2DDirect convolves one batch element in the direct form. in is
// channel-first [channels][rows][cols] flat; dst receives
// [out][outT][outF] flat, without bias. Weights are laid out
// [out][in/groups][kernelT][kernelF].
func conv2DDirect(dst, in []float64, g geom2D, weights []float64) {
	kernelArea := g.kernelT * g.kernelF

	for o := 0; o < g.out; o++ {
		group := o / g.outPerGroup
		wBase := o * g.inPerGroup * kernelArea

		for t := 0; t < g.outT; t++ {
			t0 := t * g.strideT

			for f := 0; f < g.outF; f++ {
				f0 := f * g.strideF
				sum := 0.0

				for cg := 0; cg < g.inPerGroup; cg++ {
					c := group*g.inPerGroup + cg
					cBase := c * g.rows * g.cols
					wRow := wBase + cg*kernelArea

					for jt := 0; jt < g.kernelT; jt++ {
						rowBase := cBase + (t0+jt*g.dilationT)*g.cols + f0

						for jf := 0; jf < g.kernelF; jf++ {
							sum += in[rowBase+jf*g.dilationF] * weights[wRow+jt*g.kernelF+jf]
						}
					}
				}

				dst[(o*g.outT+t)*g.outF+f] = sum
			}
		}
	}
}
