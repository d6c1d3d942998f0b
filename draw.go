package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ProsperityMC/santa-shuffle/nshuffle"
	"github.com/charmbracelet/log"
)

var errTooFewNames = errors.New("at least two names are required")

// runDraw parses the draw subcommand and prints each name with the name it
// was assigned to out, one pair per line in input order. Usage and flag
// errors go to errOut.
func runDraw(args []string, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("draw", flag.ContinueOnError)
	fs.SetOutput(errOut)
	seed := fs.Int64("seed", time.Now().UnixNano(), "Seed for the random source")
	maxAttempts := fs.Int("max-attempts", 0, "Maximum shuffles before giving up (0 is unlimited)")
	priorFlag := fs.String("prior", "", "Comma separated names each person drew last round, in input order")
	debug := fs.Bool("debug", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	var prior []string
	if *priorFlag != "" {
		prior = strings.Split(*priorFlag, ",")
	}
	return draw(out, nshuffle.NewSeeded(*seed), fs.Args(), prior, *maxAttempts)
}

func draw(out io.Writer, r nshuffle.Rand, names, prior []string, maxAttempts int) error {
	if len(names) < 2 {
		return errTooFewNames
	}

	var snames []string
	var err error
	if prior != nil {
		snames, err = nshuffle.ExtendedShuffle(r, names, prior, nshuffle.WithMaxAttempts(maxAttempts))
	} else {
		snames, err = nshuffle.Shuffle(r, names, nshuffle.WithMaxAttempts(maxAttempts))
	}
	if err != nil {
		return err
	}
	log.Debug("Drew names", "names", len(names), "prior", prior != nil)

	for i := range names {
		if _, err := fmt.Fprintf(out, "%s: %s\n", names[i], snames[i]); err != nil {
			return err
		}
	}
	return nil
}
