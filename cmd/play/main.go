// Command play is a terminal client for a single Bulls and Cows game.
//
//	play [-seed N]
//
// Type a 4-digit guess with distinct digits per line; "q" quits.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/TwiN/go-color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bullscows/internal/game"
)

func main() {
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed for the secret")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := play(game.New(*seed), os.Stdin, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("play")
	}
}

// play runs the read-guess-print loop until the game is won, input ends or
// the player quits.
func play(s *game.Session, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Guess the %d-digit code (distinct digits). %d possibilities.\n",
		game.CodeLen, len(game.AllCodes()))

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "q" || line == "quit" {
			fmt.Fprintln(out, "bye")
			return nil
		}

		res, err := s.Submit(line)
		var ve *game.ValidationError
		switch {
		case errors.As(err, &ve):
			fmt.Fprintln(out, color.Ize(color.Red, ve.Unwrap().Error()))
			continue
		case err != nil:
			return err
		}
		log.Debug().Str("guess", res.Guess).Int("remaining", res.PossibilitiesCount).Msg("turn")

		fmt.Fprintln(out, render(res))
		if res.Won {
			fmt.Fprintln(out, color.Ize(color.Green,
				fmt.Sprintf("You guessed %s in %d attempts.", res.Guess, res.Attempts)))
			return nil
		}
	}
}

// render formats one turn: feedback, then metrics with a coloured entropy delta.
func render(t game.TurnOutcome) string {
	delta := fmt.Sprintf("%+.2f", -t.EntropyDelta)
	switch {
	case t.EntropyDelta > 0:
		delta = color.Ize(color.Green, delta)
	case t.EntropyDelta < 0:
		delta = color.Ize(color.Red, delta)
	}
	return fmt.Sprintf("%s %s  remaining=%d p=%.6f entropy=%.2f (%s) gain=%.2f",
		color.Ize(color.Green, fmt.Sprintf("%d bulls", t.Bulls)),
		color.Ize(color.Yellow, fmt.Sprintf("%d cows", t.Cows)),
		t.PossibilitiesCount, t.ProbabilityOfFinding, t.Entropy, delta, t.InformationGain)
}
