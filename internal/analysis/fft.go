// Package analysis provides frequency analysis of recorded trajectories,
// used to find the dominant bounce frequency of a particle coordinate.
package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform by radix-2 decimation.
// The input length must be a power of two; use [PadPow2] first.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PowerSpectrum returns spectral magnitudes for the first half of the
// transform (the second half mirrors it for real input).
func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

// PadPow2 zero-pads data up to the next power-of-two length.
func PadPow2(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, data)
	return padded
}

// DominantFrequency returns the strongest nonzero bin of the power
// spectrum in hertz. samples is the signal length before any padding:
// the transform length is 2*len(ps), so the bin spacing is
// sampleRate/(2*len(ps)) with sampleRate = samples/duration, which
// reduces to 1/duration only when no padding was applied.
func DominantFrequency(ps []float64, samples int, duration float64) float64 {
	if duration <= 0 || samples <= 0 || len(ps) < 2 {
		return 0
	}
	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	sampleRate := float64(samples) / duration
	return float64(maxIdx) * sampleRate / float64(2*len(ps))
}
