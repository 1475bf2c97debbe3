package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"unicode/utf8"
)

// ValidationKind names the reason a guess string was rejected.
type ValidationKind int

const (
	WrongLength ValidationKind = iota + 1
	NonDigit
	DuplicateDigit
)

var (
	ErrWrongLength    = errors.New("guess must be exactly 4 characters")
	ErrNonDigit       = errors.New("guess must contain only digits 0-9")
	ErrDuplicateDigit = errors.New("guess must not repeat a digit")
)

// String returns the snake_case wire name of the kind.
func (k ValidationKind) String() string {
	switch k {
	case WrongLength:
		return "wrong_length"
	case NonDigit:
		return "non_digit"
	case DuplicateDigit:
		return "duplicate_digit"
	}
	return "unknown"
}

// ValidationError reports a malformed guess. It unwraps to one of the
// ErrWrongLength / ErrNonDigit / ErrDuplicateDigit sentinels.
type ValidationError struct {
	Kind  ValidationKind
	Input string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid guess %q: %v", e.Input, e.Unwrap())
}

func (e *ValidationError) Unwrap() error {
	switch e.Kind {
	case WrongLength:
		return ErrWrongLength
	case NonDigit:
		return ErrNonDigit
	case DuplicateDigit:
		return ErrDuplicateDigit
	}
	return nil
}

// ParseCode validates s and converts it to a Code.
//
// s is taken as-is; whitespace counts towards the length. Checks run in
// order: length (in runes), then every rune is an ASCII digit, then digits
// are pairwise distinct.
func ParseCode(s string) (Code, error) {
	var c Code
	if utf8.RuneCountInString(s) != CodeLen {
		return c, &ValidationError{Kind: WrongLength, Input: s}
	}
	for i := 0; i < CodeLen; i++ {
		if s[i] < '0' || s[i] > '9' {
			return c, &ValidationError{Kind: NonDigit, Input: s}
		}
		c[i] = s[i] - '0'
	}
	var seen uint16
	for _, d := range c {
		if seen&(1<<d) != 0 {
			return c, &ValidationError{Kind: DuplicateDigit, Input: s}
		}
		seen |= 1 << d
	}
	return c, nil
}

// MustParseCode is ParseCode for literals known to be valid. It panics otherwise.
func MustParseCode(s string) Code {
	c, err := ParseCode(s)
	if err != nil {
		panic(err)
	}
	return c
}

var (
	allOnce  sync.Once
	allCodes []Code
)

// AllCodes returns every valid code (10·9·8·7 = 5040) in lexicographic order.
// The slice is shared; callers must not modify it.
func AllCodes() []Code {
	allOnce.Do(func() {
		allCodes = make([]Code, 0, 5040)
		var c Code
		var used uint16
		var walk func(pos int)
		walk = func(pos int) {
			if pos == CodeLen {
				allCodes = append(allCodes, c)
				return
			}
			for d := byte(0); d <= 9; d++ {
				if used&(1<<d) != 0 {
					continue
				}
				used |= 1 << d
				c[pos] = d
				walk(pos + 1)
				used &^= 1 << d
			}
		}
		walk(0)
	})
	return allCodes
}

// RandomCode draws a code uniformly from AllCodes using r.
func RandomCode(r *rand.Rand) Code {
	all := AllCodes()
	return all[r.Intn(len(all))]
}
