package game

import "math/bits"

// Score compares guess against secret.
//
// Both codes have distinct digits, so a digit is never both a bull and a cow
// and cows reduce to (shared digits − bulls). Score is symmetric in its
// arguments.
func Score(secret, guess Code) Feedback {
	bulls := 0
	for i := 0; i < CodeLen; i++ {
		if secret[i] == guess[i] {
			bulls++
		}
	}
	shared := bits.OnesCount16(secret.mask() & guess.mask())
	return Feedback{Bulls: bulls, Cows: shared - bulls}
}
