package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/robalobadob/bullscows/internal/game"
)

func TestPlayToWin(t *testing.T) {
	s := game.NewWithSecret(game.MustParseCode("1234"))
	in := strings.NewReader("12a4\n5678\n1234\n")
	var out bytes.Buffer

	if err := play(s, in, &out); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"digits 0-9", "0 bulls", "4 bulls", "in 2 attempts"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if s.State() != game.StateWon {
		t.Fatalf("state = %s", s.State())
	}
}

func TestPlayTrimsInputLine(t *testing.T) {
	s := game.NewWithSecret(game.MustParseCode("1234"))
	var out bytes.Buffer
	if err := play(s, strings.NewReader("  1234 \r\n"), &out); err != nil {
		t.Fatal(err)
	}
	if s.State() != game.StateWon || s.Attempts() != 1 {
		t.Fatalf("state = %s attempts = %d", s.State(), s.Attempts())
	}
}

func TestPlayQuit(t *testing.T) {
	s := game.NewWithSecret(game.MustParseCode("1234"))
	var out bytes.Buffer
	if err := play(s, strings.NewReader("q\n"), &out); err != nil {
		t.Fatal(err)
	}
	if s.Attempts() != 0 {
		t.Fatalf("attempts = %d", s.Attempts())
	}
}
