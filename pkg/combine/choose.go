package combine

import (
	"math"
	"math/bits"

	"github.com/matzehuels/beavr/pkg/errors"
)

// Choose returns the binomial coefficient C(n, k) using the multiplicative
// formula. Negative arguments and k > n fail with CHOOSE_DOMAIN; results that
// do not fit in an int64 fail with OVERFLOW.
func Choose(n, k int) (int64, error) {
	if n < 0 || k < 0 || k > n {
		return 0, errors.New(errors.ErrCodeChooseDomain, "cannot choose %d elements from %d", k, n)
	}
	k = min(k, n-k)
	var result int64 = 1
	for i := 1; i <= k; i++ {
		// result*(n-k+i) is divisible by i; divide out the common part
		// first so the product never exceeds the final value.
		num, den := int64(n-k+i), int64(i)
		g := gcd(result, den)
		result /= g
		num /= den / g
		var err error
		if result, err = mul(result, num); err != nil {
			return 0, errors.Wrap(errors.ErrCodeOverflow, err, "C(%d, %d)", n, k)
		}
	}
	return result, nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

var errOverflow = errors.New(errors.ErrCodeOverflow, "int64 overflow")

// mul multiplies two non-negative int64 values.
func mul(a, b int64) (int64, error) {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, errOverflow
	}
	return int64(lo), nil
}

// mulSigned multiplies two int64 values of any sign.
func mulSigned(a, b int64) (int64, error) {
	neg := (a < 0) != (b < 0)
	p, err := mul(abs(a), abs(b))
	if err != nil {
		return 0, err
	}
	if neg {
		return -p, nil
	}
	return p, nil
}

func add(a, b int64) (int64, error) {
	s := a + b
	if (a > 0 && b > 0 && s < 0) || (a < 0 && b < 0 && s >= 0) {
		return 0, errOverflow
	}
	return s, nil
}

func abs(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}
