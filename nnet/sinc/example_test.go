package sinc_test

import (
	"fmt"

	"github.com/Betciso/speechbrain/nnet/sinc"
)

func ExampleNewBank() {
	bank, err := sinc.NewBank(40, 129)
	if err != nil {
		panic(err)
	}

	f, _ := bank.FilterAt(0)

	fmt.Println("filters:", bank.NumFilters())
	fmt.Println("kernel:", bank.KernelSize())
	fmt.Println("center tap:", f[len(f)/2])
	// Output:
	// filters: 40
	// kernel: 129
	// center tap: 1
}

func ExampleBank_Bands() {
	bank, err := sinc.NewBank(2, 65, sinc.WithSampleRate(8000))
	if err != nil {
		panic(err)
	}

	// low = 50 + |lowHz|, high = low + 50 + |bandHz|.
	if err := bank.SetParams([]float64{100, 900}, []float64{200, 300}); err != nil {
		panic(err)
	}

	for _, band := range bank.Bands() {
		fmt.Printf("%.0f-%.0f Hz\n", band.LowHz, band.HighHz)
	}
	// Output:
	// 150-400 Hz
	// 950-1300 Hz
}
