package core

// Clone returns a copy of buf that shares no memory with it. A nil or empty
// input yields an empty, non-nil slice.
func Clone(buf []float64) []float64 {
	out := make([]float64, len(buf))
	copy(out, buf)
	return out
}

// Fill sets all values in buf to v.
func Fill(buf []float64, v float64) {
	for i := range buf {
		buf[i] = v
	}
}

// Filled returns a new slice of length n with every element set to v.
func Filled(n int, v float64) []float64 {
	out := make([]float64, n)
	Fill(out, v)
	return out
}

// Reverse reverses buf in place.
func Reverse(buf []float64) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}

// Gather returns src[indices[0]], src[indices[1]], ... as a new slice.
func Gather(src []float64, indices []int) []float64 {
	out := make([]float64, len(indices))
	for i, idx := range indices {
		out[i] = src[idx]
	}
	return out
}
