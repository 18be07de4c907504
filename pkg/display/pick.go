package display

import (
	"math/rand/v2"

	"github.com/dixieflatline76/Chronophoto/pkg/provider"
)

// Pick returns a uniformly chosen candidate. intn must return a value in [0, n);
// nil uses math/rand. An empty list yields *provider.EmptyResultError.
func Pick(candidates []string, intn func(n int) int) (string, error) {
	if len(candidates) == 0 {
		return "", &provider.EmptyResultError{}
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	if intn == nil {
		intn = rand.IntN
	}
	return candidates[intn(len(candidates))], nil
}
