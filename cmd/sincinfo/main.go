// Command sincinfo prints the band layout and frequency response of a sinc
// filter bank.
//
// Usage:
//
//	sincinfo [flags]
//
// Examples:
//
//	sincinfo
//	sincinfo -filters 80 -kernel 251
//	sincinfo -rate 8000 -min-low 30 -min-band 30
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Betciso/speechbrain/nnet/sinc"
)

func main() {
	filters := flag.Int("filters", 40, "number of bandpass filters")
	kernel := flag.Int("kernel", 129, "filter length in samples (odd)")
	rate := flag.Float64("rate", 16000, "sample rate in Hz")
	minLow := flag.Float64("min-low", 50, "lowest admissible cutoff in Hz")
	minBand := flag.Float64("min-band", 50, "smallest admissible bandwidth in Hz")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sincinfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints the band layout and frequency response of a sinc filter bank.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  sincinfo -filters 80 -kernel 251\n")
		fmt.Fprintf(os.Stderr, "  sincinfo -rate 8000 -min-low 30 -min-band 30\n")
	}
	flag.Parse()

	bank, err := sinc.NewBank(*filters, *kernel,
		sinc.WithSampleRate(*rate),
		sinc.WithMinLowHz(*minLow),
		sinc.WithMinBandHz(*minBand),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := printBands(bank); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printBands(bank *sinc.Bank) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Band\tLow [Hz]\tHigh [Hz]\tCenter [Hz]\tWidth [Hz]\tPeak [dB]\tDC [dB]\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "----\t--------\t---------\t-----------\t----------\t---------\t-------\n"); err != nil {
		return err
	}

	for i, band := range bank.Bands() {
		coeffs, err := bank.FilterAt(i)
		if err != nil {
			return err
		}

		peak := sinc.MagnitudeDB(coeffs, band.CenterHz, bank.SampleRate())
		dc := sinc.MagnitudeDB(coeffs, 0, bank.SampleRate())

		if _, err := fmt.Fprintf(tw, "%d\t%.1f\t%.1f\t%.1f\t%.1f\t%.2f\t%.2f\n",
			i,
			band.LowHz,
			band.HighHz,
			band.CenterHz,
			band.WidthHz,
			peak,
			dc,
		); err != nil {
			return err
		}
	}

	return tw.Flush()
}
