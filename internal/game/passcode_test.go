package game

import (
	"errors"
	"math/rand"
	"testing"
)

func TestPickUnusedRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	used := make(map[int32]struct{})

	for i := 0; i < 100; i++ {
		code, err := pickUnused(used, rng)
		if err != nil {
			t.Fatalf("pick %d: %v", i, err)
		}
		if code < passcodeMin || code > passcodeMax {
			t.Fatalf("code = %d, outside [%d, %d]", code, passcodeMin, passcodeMax)
		}
		if _, taken := used[code]; taken {
			t.Fatalf("code %d returned while marked used", code)
		}
		used[code] = struct{}{}
	}
}

func TestPickUnusedFallsBackToScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	// Every code taken except one: random probing will almost surely
	// miss, forcing the exhaustive scan.
	used := make(map[int32]struct{})
	for code := int32(passcodeMin); code <= passcodeMax; code++ {
		if code != 4242 {
			used[code] = struct{}{}
		}
	}

	code, err := pickUnused(used, rng)
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if code != 4242 {
		t.Fatalf("code = %d, want 4242 (only free code)", code)
	}
}

func TestPickUnusedExhausted(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	used := make(map[int32]struct{})
	for code := int32(passcodeMin); code < passcodeMin+maxActivePasscodes; code++ {
		used[code] = struct{}{}
	}

	if _, err := pickUnused(used, rng); !errors.Is(err, ErrPasscodesExhausted) {
		t.Fatalf("err = %v, want ErrPasscodesExhausted", err)
	}
}
