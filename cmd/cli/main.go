//go:build !js && !wasm

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/himanishpuri/StringHarmonics/internal/config"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/report"
	"github.com/himanishpuri/StringHarmonics/pkg/logger"
)

var errUsage = errors.New("invalid usage")

// cli runs one command against a loaded configuration.
type cli struct {
	cfg *config.Config
	out io.Writer
	log *logger.Logger
}

func main() {
	log := logger.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ConfigureLogger(); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	app := &cli{cfg: cfg, out: os.Stdout, log: log}
	if len(os.Args) < 2 {
		printBanner()
		app.printUsage()
		os.Exit(1)
	}

	log.Debugf("Executing command: %s", os.Args[1])
	if err := app.run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		if errors.Is(err, errUsage) {
			fmt.Printf("❌ %v\n\n", err)
			app.printUsage()
			os.Exit(2)
		}
		fmt.Printf("❌ %v\n", err)
		log.Errorf("%s failed: %v", os.Args[1], err)
		os.Exit(1)
	}
}

func (c *cli) run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given", errUsage)
	}

	command, rest := args[0], args[1:]
	switch command {
	case "table":
		return c.handleTable(rest)
	case "positions":
		return c.handlePositions(rest)
	case "notes":
		return c.handleNotes(rest)
	case "fingerboard":
		return c.handleFingerboard(rest)
	case "lilypond":
		return c.handleLilyPond(rest)
	case "tone":
		return c.handleTone(rest)
	case "detect":
		return c.handleDetect(rest)
	case "charts":
		return c.handleCharts(rest)
	case "help", "-h", "--help":
		c.printUsage()
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func printBanner() {
	banner := `
  ___ _       _             _  _                            _
 / __| |_ _ _(_)_ _  __ _  | || |__ _ _ _ _ __  ___ _ _ (_)__ ___
 \__ \  _| '_| | ' \/ _' | | __ / _' | '_| '  \/ _ \ ' \| / _(_-<
 |___/\__|_| |_|_||_\__, | |_||_\__,_|_| |_|_|_\___/_||_|_\__/__/
                    |___/
         Natural harmonics of bowed and plucked strings
`
	fmt.Println(banner)
}

func (c *cli) printUsage() {
	fmt.Fprintln(c.out, "StringHarmonics - natural harmonics CLI")
	fmt.Fprintln(c.out, "\nUsage:")
	fmt.Fprintln(c.out, "  harmonics table <string>... [-max N] [-octave K] [-markdown] [-ascii]")
	fmt.Fprintln(c.out, "  harmonics positions <pitch> [-strings cello|A3,D3,...] [-max N] [-tolerance CENTS]")
	fmt.Fprintln(c.out, "  harmonics notes <note>... [-strings cello|A3,D3,...] [-max N] [-markdown]")
	fmt.Fprintln(c.out, "  harmonics fingerboard <string> [-octaves 1,2] [-max N]")
	fmt.Fprintln(c.out, "  harmonics lilypond [-strings cello] [-octaves 1,2] [-o harmonics.ly] [-pdf]")
	fmt.Fprintln(c.out, "  harmonics tone <string> [-harmonic N] [-with-open] [-o tone.wav] [-duration 2s]")
	fmt.Fprintln(c.out, "  harmonics detect <file.wav> [-strings cello]")
	fmt.Fprintln(c.out, "  harmonics charts list|save|show|delete [-db path] ...")
	fmt.Fprintln(c.out, "\nInstruments:", strings.Join(harmonics.InstrumentNames(), ", "))
	fmt.Fprintln(c.out, "\nEnvironment:")
	fmt.Fprintln(c.out, "  HARMONICS_DB_PATH, HARMONICS_MAX_HARMONIC, HARMONICS_SPELLING (fifths|sharp|flat),")
	fmt.Fprintln(c.out, "  HARMONICS_TIE (down|up), HARMONICS_LILYPOND, LOG_LEVEL, LOG_FILE")
	fmt.Fprintln(c.out, "\nExamples:")
	fmt.Fprintln(c.out, "  # Harmonics of the cello A string up to the 8th, second octave only")
	fmt.Fprintln(c.out, "  harmonics table A3 -max 8 -octave 2")
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "  # Every way to play D5 as a harmonic on the cello")
	fmt.Fprintln(c.out, "  harmonics positions D5 -strings cello")
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "  # Engrave the first two octaves of every viola string")
	fmt.Fprintln(c.out, "  harmonics lilypond -strings viola -octaves 1,2 -o viola.ly -pdf")
}

// flags returns a flag set that reports errors instead of exiting.
func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.out)
	return fs
}

// parseInterleaved parses flags that may appear before, between or after
// positional arguments, returning the positional ones.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func (c *cli) service(maxN int) (harmonics.Service, error) {
	return harmonics.NewService(
		harmonics.WithMaxHarmonic(maxN),
		harmonics.WithSpelling(c.cfg.Spelling),
		harmonics.WithTie(c.cfg.Tie),
		harmonics.WithLogger(c.log),
	)
}

func (c *cli) printer(ascii bool) *report.Printer {
	if ascii {
		return report.New(c.cfg.Spelling, pitch.ASCII)
	}
	return report.New(c.cfg.Spelling, pitch.Standard)
}
