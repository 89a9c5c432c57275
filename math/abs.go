package math

import "math"

func Clamp(val, lo, hi float64) float64 {
	return max(lo, min(hi, val))
}

// WrapToPi wraps an angle into [-pi, pi).
func WrapToPi(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// Mod is the floored modulo, always in [0, n) for positive n.
func Mod(a, n float64) float64 {
	r := math.Mod(a, n)
	if r < 0 {
		r += n
	}
	if r >= n {
		r = 0
	}
	return r
}
