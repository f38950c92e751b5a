// Command tetracoord converts, locates and plots tetracoordinate cells from
// the command line or an interactive prompt.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/gravitas-games/tetracoords/internal/config"
	"github.com/gravitas-games/tetracoords/internal/logger"
)

var (
	flagConfig   = flag.String("config", "", "yaml config file; defaults are used when empty")
	flagLogLevel = flag.String("log", "NOOP", "log level")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <command> [args]\n\n", os.Args[0])
		fmt.Fprint(os.Stderr, usage)
		fmt.Fprintln(os.Stderr, "\nflags:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := logger.New(*flagLogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.OnExit()

	cfg := config.Default()
	if *flagConfig != "" {
		var err error
		if cfg, err = config.Load(*flagConfig); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	r, err := newRunner(cfg, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if args[0] == "repl" {
		err = repl(r)
	} else {
		err = r.run(args)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("convert", readline.PcItem("-order", readline.PcItem("h"), readline.PcItem("l"))),
	readline.PcItem("cell", readline.PcItem("-order", readline.PcItem("h"), readline.PcItem("l"))),
	readline.PcItem("locate"),
	readline.PcItem("nearest", readline.PcItem("-levels")),
	readline.PcItem("plot", readline.PcItem("-levels"), readline.PcItem("-o")),
	readline.PcItem("space"),
	readline.PcItem("help"),
	readline.PcItem("exit"),
)

func repl(r *runner) error {
	tmp, err := os.CreateTemp("", "tetracoord-history")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	tmp.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "tc> ",
		HistoryFile:     tmp.Name(),
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	r.out = rl.Stdout()
	fmt.Fprintln(r.out, r.engine)

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		if words[0] == "exit" || words[0] == "quit" {
			break
		}
		if err := r.run(words); err != nil {
			fmt.Fprintln(rl.Stderr(), err)
		}
	}
	return nil
}
