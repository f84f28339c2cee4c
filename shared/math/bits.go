package math

import "math/bits"

func Add64(a, b uint64) (uint64, bool) {
	sum, overflow := bits.Add64(a, b, 0)
	return sum, overflow > 0
}

func Mul64(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi > 0
}
