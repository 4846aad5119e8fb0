package conv

import (
	"fmt"
	"math"
)

// ToInt converts v to int, failing when it does not fit.
func ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int (too large)", v)
	}
	return int(v), nil
}

// ToUint64 converts a non-negative int to uint64.
func ToUint64(v int) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint64 (negative)", v)
	}
	return uint64(v), nil
}

// MulInt multiplies non-negative ints, failing on overflow.
func MulInt(factors ...int) (int, error) {
	n := 1
	for _, f := range factors {
		if f < 0 {
			return 0, fmt.Errorf("integer overflow: negative factor %d", f)
		}
		if f != 0 && n > math.MaxInt/f {
			return 0, fmt.Errorf("integer overflow: product of %v exceeds int", factors)
		}
		n *= f
	}
	return n, nil
}
