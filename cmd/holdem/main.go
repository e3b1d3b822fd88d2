package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/cardroom/holdem/internal/config"
	"github.com/cardroom/holdem/internal/game"
)

// CLI is the command line surface for the hot-seat table.
type CLI struct {
	Config  string `help:"Path to the HCL config file." default:"holdem.hcl" type:"path"`
	Players int    `help:"Override the number of seats (2-10)." default:"0"`
	Seed    int64  `help:"Seed the shuffle for a reproducible game."`
	LogFile string `help:"Write debug logs to this file." type:"path"`
	Resume  string `help:"Resume from a saved game file." type:"path"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("holdem"),
		kong.Description("A hot-seat no-limit Texas hold'em table."),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(run(&cli))
}

func run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if cli.Players != 0 {
		cfg.Table.Players = cli.Players
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger := log.New(io.Discard)
	if cli.LogFile != "" {
		f, err := os.OpenFile(cli.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger = log.New(f)
		logger.SetLevel(log.DebugLevel)
	}

	opts := []game.Option{game.WithLogger(logger)}
	if cli.Seed != 0 {
		opts = append(opts, game.WithSeed(cli.Seed))
	}

	sess := game.New(cfg.Table.Players, cfg.Table.SmallBlind, cfg.Table.BigBlind, cfg.Table.StartingChips, opts...)
	sess.Events().Subscribe(eventPrinter{})

	if cli.Resume != "" {
		if err := sess.Restore(cli.Resume); err != nil {
			return err
		}
		fmt.Println(noticeStyle.Render("Resumed saved game " + cli.Resume))
	}

	return play(sess, bufio.NewScanner(os.Stdin))
}

func play(sess *game.Session, in *bufio.Scanner) error {
	for {
		if sess.GameOver() {
			return nil
		}

		current, ok := sess.CurrentPlayer()
		if !ok {
			if err := sess.StartHand(); err != nil {
				if errors.Is(err, game.ErrGameOver) {
					return nil
				}
				return err
			}
			if sess.HandDone() {
				// Blinds forced everyone all-in and the hand ran out.
				if stop, err := promptNextHand(sess, in); stop || err != nil {
					return err
				}
				continue
			}
			current, _ = sess.CurrentPlayer()
		}

		fmt.Println(renderTable(sess, current.ID))
		fmt.Printf("%s  [%s | save <file> | load <file> | quit]\n",
			turnStyle.Render(current.Name+" to act"), renderActions(sess.LegalActions()))
		fmt.Print("> ")

		if !in.Scan() {
			return in.Err()
		}
		if err := dispatch(sess, in.Text()); err != nil {
			var illegal *game.IllegalActionError
			if errors.As(err, &illegal) {
				fmt.Println(errorStyle.Render(illegal.Error()))
				continue
			}
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Println(errorStyle.Render(err.Error()))
		}

		if sess.HandDone() && !sess.GameOver() {
			if stop, err := promptNextHand(sess, in); stop || err != nil {
				return err
			}
		}
	}
}

func promptNextHand(sess *game.Session, in *bufio.Scanner) (stop bool, err error) {
	fmt.Println(renderTable(sess, -1))
	fmt.Print(noticeStyle.Render("Press enter for the next hand, or type quit: "))
	if !in.Scan() {
		return true, in.Err()
	}
	return strings.TrimSpace(in.Text()) == "quit", nil
}

var errQuit = errors.New("quit")

func dispatch(sess *game.Session, line string) error {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(line)))
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "fold", "f":
		return sess.Fold()
	case "check", "x":
		return sess.Check()
	case "call", "c":
		return sess.Call()
	case "raise", "r":
		if len(fields) < 2 {
			return fmt.Errorf("usage: raise <amount>")
		}
		amount, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("raise amount %q is not a number", fields[1])
		}
		return sess.Raise(amount)
	case "save":
		if len(fields) < 2 {
			return fmt.Errorf("usage: save <file>")
		}
		if err := sess.Save(fields[1]); err != nil {
			return err
		}
		fmt.Println(noticeStyle.Render("Saved to " + fields[1]))
		return nil
	case "load":
		if len(fields) < 2 {
			return fmt.Errorf("usage: load <file>")
		}
		if err := sess.Restore(fields[1]); err != nil {
			return err
		}
		fmt.Println(noticeStyle.Render("Loaded " + fields[1]))
		return nil
	case "quit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}
