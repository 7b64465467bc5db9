package random

import (
	"crypto/rand"
	"math/big"
)

// Index returns a uniformly random integer in [0, n). n must be positive.
func Index(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
