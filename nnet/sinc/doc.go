// Package sinc synthesizes banks of learnable windowed-sinc bandpass filters
// (the SincNet parameterization) for convolution over raw waveform.
//
// Each filter is defined by two scalars: a low cutoff frequency and a
// bandwidth, both in Hz. The filter coefficients are a deterministic,
// closed-form function of these scalars:
//
//	h[t] = (sin(2*pi*f_high*t) - sin(2*pi*f_low*t)) / (pi*t) * w[t]
//
// evaluated on the symmetric time axis of the kernel and weighted by a
// periodic Hamming half-window, with the center tap carrying the full band
// gain. Only the left half is computed; the right half is its mirror.
//
// A new [Bank] spaces its filters equally on the mel scale between the
// minimum low cutoff and the Nyquist frequency. The cutoff parameters are
// exposed via [Bank.Params] and [Bank.SetParams] so an external optimizer can
// update them; the effective cutoffs after the abs/clamp reparameterization
// are reported by [Bank.Bands].
package sinc
