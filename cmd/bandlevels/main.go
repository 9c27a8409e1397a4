// Command bandlevels measures the energy of an audio file in the bands of a
// sinc filter bank. Each filter is convolved with the mono-mixed waveform and
// the RMS level of the filtered signal is reported in dB.
//
// Usage:
//
//	bandlevels [flags] <file.wav|file.flac>
//
// Examples:
//
//	bandlevels speech.wav
//	bandlevels -filters 80 -kernel 251 music.flac
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/faiface/beep/wav"
	"github.com/mewkiz/flac"

	dspconv "github.com/Betciso/speechbrain/dsp/conv"
	"github.com/Betciso/speechbrain/dsp/core"
	"github.com/Betciso/speechbrain/nnet/sinc"
)

func main() {
	filters := flag.Int("filters", 40, "number of bandpass filters")
	kernel := flag.Int("kernel", 129, "filter length in samples (odd)")
	minLow := flag.Float64("min-low", 50, "lowest admissible cutoff in Hz")
	minBand := flag.Float64("min-band", 50, "smallest admissible bandwidth in Hz")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bandlevels [flags] <file.wav|file.flac>\n\n")
		fmt.Fprintf(os.Stderr, "Measures per-band RMS levels of an audio file through a sinc filter bank.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	path := flag.Arg(0)

	samples, sampleRate, err := loadAudio(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if len(samples) == 0 {
		fmt.Fprintf(os.Stderr, "error: %s contains no samples\n", path)
		os.Exit(1)
	}

	bank, err := sinc.NewBank(*filters, *kernel,
		sinc.WithSampleRate(sampleRate),
		sinc.WithMinLowHz(*minLow),
		sinc.WithMinBandHz(*minBand),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: %d samples at %.0f Hz\n\n", path, len(samples), sampleRate)

	if err := printLevels(bank, samples); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadAudio(path string) ([]float64, float64, error) {
	if strings.HasSuffix(strings.ToLower(path), ".flac") {
		return loadFlac(path)
	}

	return loadWav(path)
}

// loadWav decodes a WAV file and mixes it down to mono.
func loadWav(path string) ([]float64, float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	stream, format, err := wav.Decode(file)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer stream.Close()

	var out []float64

	buf := make([][2]float64, 512)
	for {
		n, ok := stream.Stream(buf)
		for _, s := range buf[:n] {
			out = append(out, (s[0]+s[1])/2)
		}

		if !ok {
			break
		}
	}

	return out, float64(format.SampleRate), nil
}

// loadFlac decodes a FLAC file and mixes it down to mono.
func loadFlac(path string) ([]float64, float64, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer stream.Close()

	scale := float64(int64(1) << (stream.Info.BitsPerSample - 1))
	channels := float64(stream.Info.NChannels)

	var out []float64

	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, 0, fmt.Errorf("decoding %s: %w", path, err)
		}

		for i := 0; i < len(frame.Subframes[0].Samples); i++ {
			sum := 0.0
			for _, sub := range frame.Subframes {
				sum += float64(sub.Samples[i])
			}

			out = append(out, sum/channels/scale)
		}
	}

	return out, float64(stream.Info.SampleRate), nil
}

func printLevels(bank *sinc.Bank, samples []float64) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Band\tCenter [Hz]\tWidth [Hz]\tRMS [dB]\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "----\t-----------\t----------\t--------\n"); err != nil {
		return err
	}

	for i, band := range bank.Bands() {
		coeffs, err := bank.FilterAt(i)
		if err != nil {
			return err
		}

		filtered, err := dspconv.ConvolveMode(samples, coeffs, dspconv.ModeSame)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintf(tw, "%d\t%.1f\t%.1f\t%.2f\n",
			i,
			band.CenterHz,
			band.WidthHz,
			core.LinearToDB(rms(filtered)),
		); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func rms(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}

	return math.Sqrt(sum / float64(len(x)))
}
