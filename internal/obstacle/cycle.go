package obstacle

// prior returns the count i steps before count, wrapping through n counts.
// prior(count, n, n) is count itself.
func prior(count, i, n int) int {
	return mod(count-i-1, n) + 1
}

// later returns the count i steps after count, wrapping through n counts.
func later(count, i, n int) int {
	return mod(count+i-1, n) + 1
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
