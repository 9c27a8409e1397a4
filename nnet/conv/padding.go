package conv

import "fmt"

// padLength returns the per-side padding that preserves the input length at
// stride 1. At larger strides the exact length cannot be preserved and half
// the kernel is used on each side.
func padLength(inLen, kernel, stride, dilation int) int {
	if stride > 1 {
		return kernel / 2
	}

	return dilation * (kernel - 1) / 2
}

// padRow fills dst (length padL+len(src)+padR) with src surrounded by border
// samples according to mode.
//
// Reflection excludes the border sample, so it needs pad < len(src); circular
// wrapping needs pad <= len(src).
func padRow(dst, src []float64, padL, padR int, mode PadMode) error {
	n := len(src)

	switch mode {
	case PadReflect:
		if padL >= n || padR >= n {
			return fmt.Errorf("%w: reflect padding %d/%d on length %d", ErrPadTooLarge, padL, padR, n)
		}
	case PadCircular:
		if padL > n || padR > n {
			return fmt.Errorf("%w: circular padding %d/%d on length %d", ErrPadTooLarge, padL, padR, n)
		}
	}

	copy(dst[padL:], src)

	for i := 0; i < padL; i++ {
		switch mode {
		case PadReflect:
			dst[i] = src[padL-i]
		case PadReplicate:
			dst[i] = src[0]
		case PadCircular:
			dst[i] = src[n-padL+i]
		default:
			dst[i] = 0
		}
	}

	for i := 0; i < padR; i++ {
		switch mode {
		case PadReflect:
			dst[padL+n+i] = src[n-2-i]
		case PadReplicate:
			dst[padL+n+i] = src[n-1]
		case PadCircular:
			dst[padL+n+i] = src[i]
		default:
			dst[padL+n+i] = 0
		}
	}

	return nil
}

// padGrid pads a row-major [rows, cols] grid on both axes into dst, which
// must hold (padT+rows+padT)*(padF+cols+padF) samples. The column axis is
// padded first, then whole rows are extended with the same mode.
func padGrid(dst, src []float64, rows, cols, padT, padF int, mode PadMode) error {
	wide := cols + 2*padF

	// Pad each row along the column axis into its destination slot.
	for r := 0; r < rows; r++ {
		err := padRow(dst[(padT+r)*wide:(padT+r+1)*wide], src[r*cols:(r+1)*cols], padF, padF, mode)
		if err != nil {
			return err
		}
	}

	if padT == 0 {
		return nil
	}

	switch mode {
	case PadReflect:
		if padT >= rows {
			return fmt.Errorf("%w: reflect padding %d on %d rows", ErrPadTooLarge, padT, rows)
		}
	case PadCircular:
		if padT > rows {
			return fmt.Errorf("%w: circular padding %d on %d rows", ErrPadTooLarge, padT, rows)
		}
	}

	rowAt := func(r int) []float64 { return dst[r*wide : (r+1)*wide] }

	for i := 0; i < padT; i++ {
		var top, bottom []float64

		switch mode {
		case PadReflect:
			top = rowAt(padT + (padT - i))
			bottom = rowAt(padT + rows - 2 - i)
		case PadReplicate:
			top = rowAt(padT)
			bottom = rowAt(padT + rows - 1)
		case PadCircular:
			top = rowAt(rows + i)
			bottom = rowAt(padT + i)
		default:
			for _, row := range [][]float64{rowAt(i), rowAt(padT + rows + i)} {
				for x := range row {
					row[x] = 0
				}
			}

			continue
		}

		copy(rowAt(i), top)
		copy(rowAt(padT+rows+i), bottom)
	}

	return nil
}
