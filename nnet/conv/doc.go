// Package conv implements 1D and 2D convolution layers over channel-last
// tensors, plus a sinc variant whose kernels are synthesized from learnable
// bandpass cutoffs.
//
// Layers are created with an output channel count and a kernel shape; the
// kernel arity selects the layer kind (one element for 1D, two for 2D).
// Input geometry is inferred lazily: the first [Layer.Forward] call fixes the
// input rank and channel count and allocates the weights, and later calls must
// match that geometry.
//
// Tensors are channel-last. A 1D layer takes [batch, time] or
// [batch, time, channels] and returns [batch, time, outChannels]; a 2D layer
// takes [batch, time, freq] or [batch, time, freq, channels] and returns
// [batch, time, freq, outChannels]. Unless disabled with [WithoutPadding],
// inputs are padded so that time (and freq) lengths are preserved at stride 1,
// reflecting at the borders by default.
package conv
