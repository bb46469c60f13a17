package analysis

import (
	"math"
	"math/cmplx"
)

// FFT is a radix-2 transform. len(data) must be a power of two.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n&(n-1) != 0 {
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
		w := cmplx.Rect(1, -2*math.Pi*float64(k)/float64(n)) * fodd[k]
		result[k] = feven[k] + w
		result[k+n/2] = feven[k] - w
	}
	return result
}

// PowerSpectrum returns the magnitude of the first half of the FFT of data
// zero-padded to a power of two.
func PowerSpectrum(data []float64) []float64 {
	bins := FFT(padPow2(data))
	ps := make([]float64, len(bins)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(bins[i])
	}
	return ps
}

func padPow2(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n <<= 1
	}
	out := make([]float64, n)
	copy(out, data)
	return out
}

// Detrend removes the least-squares line from data.
func Detrend(data []float64) []float64 {
	n := float64(len(data))
	out := make([]float64, len(data))
	if len(data) < 2 {
		return out
	}

	var sx, sy, sxx, sxy float64
	for i, y := range data {
		x := float64(i)
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
	}
	slope := (n*sxy - sx*sy) / (n*sxx - sx*sx)
	intercept := (sy - slope*sx) / n

	for i, y := range data {
		out[i] = y - (intercept + slope*float64(i))
	}
	return out
}

// DominantPeriod finds the strongest non-DC frequency of the detrended
// channel sampled every dt seconds, refined by parabolic interpolation
// between neighbouring bins. ok is false when there is no oscillation.
func DominantPeriod(data []float64, dt float64) (period float64, ok bool) {
	if len(data) < 4 || !(dt > 0) {
		return 0, false
	}

	ps := PowerSpectrum(Detrend(data))
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	if ps[best] < 1e-9 {
		return 0, false
	}

	bin := float64(best)
	if best > 1 && best < len(ps)-1 {
		a, b, c := ps[best-1], ps[best], ps[best+1]
		if den := a - 2*b + c; den != 0 {
			bin += 0.5 * (a - c) / den
		}
	}

	n := float64(2 * len(ps))
	return n * dt / bin, true
}
