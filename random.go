package guard

import (
	"crypto/rand"
	"math/big"

	"github.com/goliatone/go-errors"
)

// SecureInt returns a uniform random int in [0, max) drawn from the system
// CSPRNG. max must be positive. An entropy read failure is fatal for the
// caller and surfaces as ErrEntropyFailure.
func SecureInt(max int) (int, error) {
	if max <= 0 {
		return 0, errors.New("secure random bound must be positive", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest).
			WithMetadata(map[string]any{"max": max})
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryInternal, "system entropy source failed").
			WithTextCode(TextCodeEntropyFailure).
			WithCode(errors.CodeInternal)
	}
	return int(n.Int64()), nil
}

// SecureShuffle permutes seq in place with a Fisher-Yates walk from the
// last index down, drawing each swap partner from SecureInt. On error the
// slice is left partially shuffled and must be discarded.
func SecureShuffle[T any](seq []T) error {
	for i := len(seq) - 1; i >= 1; i-- {
		j, err := SecureInt(i + 1)
		if err != nil {
			return err
		}
		seq[i], seq[j] = seq[j], seq[i]
	}
	return nil
}
