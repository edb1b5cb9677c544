package game

import (
	"errors"
	"math/rand"
)

// Passcodes are four digit codes unique among DRAFT and LIVE games.
// Allocation runs under a transaction-scoped advisory lock so two
// concurrent creates cannot pick the same code.
const (
	passcodeLockKey int64 = 424242

	passcodeMin = 1000
	passcodeMax = 9999

	// Random probing gives up after this many collisions and falls
	// back to an exhaustive scan.
	passcodeRandomTries = 64

	// Refuse allocation once this many codes are held by active games.
	maxActivePasscodes = 9000
)

// ErrPasscodesExhausted signals that no free passcode remains.
var ErrPasscodesExhausted = errors.New("no free passcodes available")

// pickUnused selects a passcode absent from used: random probes first,
// then an exhaustive ascending scan.
func pickUnused(used map[int32]struct{}, rng *rand.Rand) (int32, error) {
	if len(used) >= maxActivePasscodes {
		return 0, ErrPasscodesExhausted
	}

	for i := 0; i < passcodeRandomTries; i++ {
		code := int32(passcodeMin + rng.Intn(passcodeMax-passcodeMin+1))
		if _, taken := used[code]; !taken {
			return code, nil
		}
	}

	for code := int32(passcodeMin); code <= passcodeMax; code++ {
		if _, taken := used[code]; !taken {
			return code, nil
		}
	}
	return 0, ErrPasscodesExhausted
}
