package game

// Filter returns the codes p in possible for which Score(p, guess) == fb,
// in their original order. The input slice is not modified.
func Filter(possible []Code, guess Code, fb Feedback) []Code {
	out := make([]Code, 0, len(possible))
	for _, p := range possible {
		if Score(p, guess) == fb {
			out = append(out, p)
		}
	}
	return out
}

// Space is the set of candidate secrets still consistent with every
// feedback applied so far. It only ever shrinks.
type Space struct {
	codes []Code
}

// NewSpace returns a space holding all 5040 codes.
func NewSpace() *Space {
	all := AllCodes()
	codes := make([]Code, len(all))
	copy(codes, all)
	return &Space{codes: codes}
}

// Narrow keeps only the candidates consistent with (guess, fb).
func (s *Space) Narrow(guess Code, fb Feedback) {
	s.codes = Filter(s.codes, guess, fb)
}

// Len reports the number of remaining candidates.
func (s *Space) Len() int { return len(s.codes) }

// Codes returns a copy of the remaining candidates.
func (s *Space) Codes() []Code {
	out := make([]Code, len(s.codes))
	copy(out, s.codes)
	return out
}
