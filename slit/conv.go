package slit

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// directThreshold is the kernel length from which FFT convolution is used.
const directThreshold = 64

// convolveValid returns the part of the linear convolution of signal and
// kernel where the kernel fully overlaps the signal, of length
// len(signal) - len(kernel) + 1.
func convolveValid(signal, kernel []float64) ([]float64, error) {
	n, m := len(signal), len(kernel)
	if m > n {
		return nil, fmt.Errorf("slit: kernel of %d taps exceeds %d samples", m, n)
	}

	var full []float64
	if m < directThreshold {
		full = direct(signal, kernel)
	} else {
		oa, err := newOverlapAdd(kernel)
		if err != nil {
			return nil, err
		}
		if full, err = oa.process(signal); err != nil {
			return nil, err
		}
	}
	return full[m-1 : n], nil
}

func direct(a, b []float64) []float64 {
	dst := make([]float64, len(a)+len(b)-1)
	temp := make([]float64, len(b))
	for i, v := range a {
		vecmath.ScaleBlock(temp, b, v)
		vecmath.AddBlockInPlace(dst[i:i+len(b)], temp)
	}
	return dst
}

// overlapAdd is FFT block convolution with a fixed kernel.
type overlapAdd struct {
	kernelFFT []complex128
	kernelLen int
	blockSize int
	plan      *algofft.Plan[complex128]
	scratch   []complex128
}

func newOverlapAdd(kernel []float64) (*overlapAdd, error) {
	blockSize := max(nextPowerOf2(len(kernel)), 256)
	fftSize := nextPowerOf2(blockSize + len(kernel) - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("slit: failed to create FFT plan: %w", err)
	}

	padded := make([]complex128, fftSize)
	for i, v := range kernel {
		padded[i] = complex(v, 0)
	}
	oa := &overlapAdd{
		kernelFFT: make([]complex128, fftSize),
		kernelLen: len(kernel),
		blockSize: blockSize,
		plan:      plan,
		scratch:   make([]complex128, fftSize),
	}
	if err := plan.Forward(oa.kernelFFT, padded); err != nil {
		return nil, fmt.Errorf("slit: kernel FFT failed: %w", err)
	}
	return oa, nil
}

// process returns the full linear convolution of input with the kernel.
func (oa *overlapAdd) process(input []float64) ([]float64, error) {
	output := make([]float64, len(input)+oa.kernelLen-1)

	for start := 0; start < len(input); start += oa.blockSize {
		end := min(start+oa.blockSize, len(input))

		for i := range oa.scratch {
			oa.scratch[i] = 0
		}
		for i := start; i < end; i++ {
			oa.scratch[i-start] = complex(input[i], 0)
		}

		if err := oa.plan.Forward(oa.scratch, oa.scratch); err != nil {
			return nil, fmt.Errorf("slit: forward FFT failed: %w", err)
		}
		for i := range oa.scratch {
			oa.scratch[i] *= oa.kernelFFT[i]
		}
		if err := oa.plan.Inverse(oa.scratch, oa.scratch); err != nil {
			return nil, fmt.Errorf("slit: inverse FFT failed: %w", err)
		}

		for i := 0; i < end-start+oa.kernelLen-1; i++ {
			output[start+i] += real(oa.scratch[i])
		}
	}
	return output, nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
