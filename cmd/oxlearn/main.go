// Command oxlearn trains two tic-tac-toe agents against each other and lets
// you play, evaluate or inspect them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sw965/oxlearn/config"
	"github.com/sw965/oxlearn/logging"
)

const usage = `usage: oxlearn [flags] train|play|eval|serve`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	logging.Sync()
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	mode string
	cfg  config.Config
	// roundsSet is true when -rounds was given explicitly.
	roundsSet bool
}

func parse(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("oxlearn", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fs.PrintDefaults()
	}

	var (
		rounds     = fs.Int("rounds", 0, "episodes to train, or games to play (default 100000 for train, 5 for play)")
		dontWipe   = fs.Bool("dont-wipe", false, "keep the stored tables when training")
		dir        = fs.String("dir", "", "directory of the brain files")
		redisAddr  = fs.String("redis", "", "store brains in Redis at this address instead of files")
		natsURL    = fs.String("nats", "", "publish training stats to this NATS server")
		checkpoint = fs.Int("checkpoint", 0, "save both brains every n episodes")
		chart      = fs.String("chart", "", "write an HTML win-rate chart to this file after training")
		seed       = fs.Uint64("seed", 0, "random seed (0 picks one from the clock)")
		addr       = fs.String("addr", "", "listen address of serve")
		games      = fs.Int("games", 0, "games per agent in eval")
		workers    = fs.Int("workers", 0, "parallel workers in eval")
		debug      = fs.Bool("debug", false, "development logging")
	)
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return options{}, fmt.Errorf("%w: expected one mode, got %v", config.ErrInvalidConfig, fs.Args())
	}

	opts := options{mode: fs.Arg(0), cfg: config.Default()}
	switch opts.mode {
	case "train":
		opts.cfg = opts.cfg.Training()
	case "play", "eval", "serve":
	default:
		return options{}, fmt.Errorf("%w: unknown mode %q", config.ErrInvalidConfig, opts.mode)
	}

	cfg, err := opts.cfg.FromEnv()
	if err != nil {
		return options{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rounds":
			cfg.Rounds = *rounds
			opts.roundsSet = true
		case "dir":
			cfg.BrainDir = *dir
		case "redis":
			cfg.RedisAddr = *redisAddr
		case "nats":
			cfg.NatsURL = *natsURL
		case "addr":
			cfg.Addr = *addr
		case "games":
			cfg.EvalGames = *games
		case "workers":
			cfg.EvalWorkers = *workers
		}
	})
	cfg.Wipe = !*dontWipe
	cfg.CheckpointEvery = *checkpoint
	cfg.ChartPath = *chart
	cfg.Seed = *seed
	cfg.Debug = *debug
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	if err := cfg.Validate(); err != nil {
		return options{}, err
	}
	opts.cfg = cfg
	return opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	opts, err := parse(args, stdout)
	if err != nil {
		return err
	}

	logging.MustSetup(opts.cfg.Debug)
	log := logging.FromContext(ctx).With(zap.String("mode", opts.mode))
	ctx = logging.NewContext(ctx, log)

	a := &app{cfg: opts.cfg, log: log, stdin: stdin, stdout: stdout}
	if err := a.openStore(ctx); err != nil {
		return err
	}
	defer a.closeStore()

	switch opts.mode {
	case "train":
		return a.train(ctx)
	case "play":
		return a.play(ctx)
	case "eval":
		return a.eval(ctx)
	case "serve":
		return a.serve(ctx, opts.roundsSet)
	}
	return nil
}
