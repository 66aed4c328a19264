package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/sw965/oxlearn/arena"
	"github.com/sw965/oxlearn/brain"
	"github.com/sw965/oxlearn/config"
	ttt "github.com/sw965/oxlearn/game/sequential/tictactoe"
	"github.com/sw965/oxlearn/inspect"
	"github.com/sw965/oxlearn/play"
	"github.com/sw965/oxlearn/report"
	"github.com/sw965/oxlearn/td"
	"github.com/sw965/oxlearn/telemetry"
	"github.com/sw965/oxlearn/train"
)

const chartWindow = 1000

type app struct {
	cfg    config.Config
	log    *zap.Logger
	stdin  io.Reader
	stdout io.Writer

	store brain.Store
	close func() error
}

func (a *app) openStore(ctx context.Context) error {
	if a.cfg.RedisAddr == "" {
		a.store = brain.FileStore{Dir: a.cfg.BrainDir, Log: a.log}
		return nil
	}

	rs, err := brain.NewRedisStore(ctx, a.cfg.RedisAddr, a.log)
	if err != nil {
		return err
	}
	a.store = rs
	a.close = rs.Close
	return nil
}

func (a *app) closeStore() {
	if a.close == nil {
		return
	}
	if err := a.close(); err != nil {
		a.log.Error("", zap.Error(err))
	}
}

func (a *app) rng() *rand.Rand {
	return rand.New(rand.NewPCG(a.cfg.Seed, a.cfg.Seed^0x9e3779b97f4a7c15))
}

// agents builds both players. With wipe the stored tables are not read.
func (a *app) agents(ctx context.Context, p1Params, p2Params td.Params, wipe bool) (*td.Agent, *td.Agent, error) {
	load := func(name string) (td.ValueTable, error) {
		if wipe {
			return nil, nil
		}
		return a.store.Load(ctx, name)
	}

	t1, err := load(brain.PlayerOne)
	if err != nil {
		return nil, nil, err
	}
	t2, err := load(brain.PlayerTwo)
	if err != nil {
		return nil, nil, err
	}

	p1, err := td.NewAgent(brain.PlayerOne, ttt.P1, p1Params, t1)
	if err != nil {
		return nil, nil, err
	}
	p2, err := td.NewAgent(brain.PlayerTwo, ttt.P2, p2Params, t2)
	if err != nil {
		return nil, nil, err
	}
	return p1, p2, nil
}

// save writes each agent's own table under its own name.
func (a *app) save(ctx context.Context, agents ...*td.Agent) error {
	for _, ag := range agents {
		if err := a.store.Save(ctx, ag.Name, ag.Values); err != nil {
			return err
		}
	}
	return nil
}

func chain(hooks ...train.Hook) train.Hook {
	return func(s train.Stats, r ttt.Result) error {
		for _, h := range hooks {
			if err := h(s, r); err != nil {
				return err
			}
		}
		return nil
	}
}

// runTraining trains, then saves both tables even when ctx was cancelled.
func (a *app) runTraining(ctx context.Context, p1Params, p2Params td.Params, rec *report.Recorder) (*td.Agent, *td.Agent, error) {
	p1, p2, err := a.agents(ctx, p1Params, p2Params, a.cfg.Wipe)
	if err != nil {
		return nil, nil, err
	}

	tr, err := train.NewTrainer(p1, p2, a.rng(), a.log)
	if err != nil {
		return nil, nil, err
	}

	progress := report.NewProgress(a.stdout, a.cfg.Rounds)
	hooks := []train.Hook{rec.Observe, progress.Observe}

	if n := a.cfg.CheckpointEvery; n > 0 {
		hooks = append(hooks, func(s train.Stats, _ ttt.Result) error {
			if s.Rounds%n != 0 {
				return nil
			}
			a.log.Debug("checkpoint", zap.Int("rounds", s.Rounds))
			return a.save(ctx, p1, p2)
		})
	}

	if a.cfg.NatsURL != "" {
		pub, err := telemetry.Connect(ctx, a.cfg.NatsURL, a.log)
		if err != nil {
			return nil, nil, err
		}
		defer pub.Close()
		hooks = append(hooks, pub.Every(ctx, max(a.cfg.CheckpointEvery, a.cfg.Rounds/100)))
	}

	start := time.Now()
	stats, runErr := tr.Run(ctx, a.cfg.Rounds, chain(hooks...))
	_ = progress.Done()
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return nil, nil, runErr
	}
	if runErr != nil {
		a.log.Info("interrupted, saving", zap.Int("rounds", stats.Rounds))
	}

	elapsed := time.Since(start)
	fmt.Fprintf(a.stdout, "Training took %s\n", elapsed)
	if stats.Rounds > 0 {
		fmt.Fprintf(a.stdout, "- %s per round\n", elapsed/time.Duration(stats.Rounds))
		fmt.Fprintf(a.stdout, "Player one wins: %d\n", p1.Wins)
		fmt.Fprintf(a.stdout, "Player two wins: %d\n", p2.Wins)
		fmt.Fprintf(a.stdout, "Player two win percentage: %.2f%% of the time\n", 100*float64(p2.Wins)/float64(stats.Rounds))
	}

	if err := a.save(context.WithoutCancel(ctx), p1, p2); err != nil {
		return nil, nil, err
	}
	return p1, p2, runErr
}

func (a *app) train(ctx context.Context) error {
	rec := &report.Recorder{}
	_, _, err := a.runTraining(ctx, a.cfg.PlayerOne, a.cfg.PlayerTwo, rec)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	sum := report.Summarize(rec.Windows(chartWindow))
	a.log.Info("summary",
		zap.Int("episodes", sum.Episodes),
		zap.Float64("p2_rate_mean", sum.P2.Mean),
		zap.Float64("p2_rate_std", sum.P2.StdDev),
	)

	if a.cfg.ChartPath != "" {
		f, err := os.Create(a.cfg.ChartPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := report.RenderChart(f, "oxlearn self-play", rec.Windows(chartWindow)); err != nil {
			return err
		}
		a.log.Info("chart written", zap.String("path", a.cfg.ChartPath))
	}
	return nil
}

func (a *app) play(ctx context.Context) error {
	p1, _, err := a.agents(ctx, a.cfg.PlayerOne, a.cfg.PlayerTwo, false)
	if err != nil {
		return err
	}

	tally, err := play.NewHuman(a.stdin, a.stdout).Play(ctx, p1, a.cfg.Rounds, a.log)
	fmt.Fprintf(a.stdout, "agent %d, you %d, ties %d\n", tally.AgentWins, tally.HumanWins, tally.Ties)
	if errors.Is(err, play.ErrInputClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *app) eval(ctx context.Context) error {
	p1, p2, err := a.agents(ctx, a.cfg.PlayerOne, a.cfg.PlayerTwo, false)
	if err != nil {
		return err
	}

	rng := a.rng()
	for _, ag := range []*td.Agent{p1, p2} {
		rep, err := arena.Evaluate(ag, a.cfg.EvalGames, a.cfg.EvalWorkers, rng, a.log)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "%s vs random: won %d, lost %d, tied %d of %d (%.1f%%)\n",
			ag.Name, rep.LearnerWins, rep.RandomWins, rep.Ties, rep.Games, 100*rep.WinRate())
	}
	return nil
}

// serve trains first when trainFirst is set so that /chart has data.
func (a *app) serve(ctx context.Context, trainFirst bool) error {
	var (
		p1, p2 *td.Agent
		rec    *report.Recorder
		err    error
	)
	if trainFirst {
		tc := a.cfg.Training()
		rec = &report.Recorder{}
		p1, p2, err = a.runTraining(ctx, tc.PlayerOne, tc.PlayerTwo, rec)
		// 探索率は評価用に0へ戻す
		if p1 != nil {
			p1.ExplorationRate, p2.ExplorationRate = 0, 0
		}
	} else {
		p1, p2, err = a.agents(ctx, a.cfg.PlayerOne, a.cfg.PlayerTwo, false)
	}
	if err != nil {
		return err
	}

	srv := &inspect.Server{
		Agents:   map[string]*td.Agent{p1.Name: p1, p2.Name: p2},
		Recorder: rec,
		Workers:  a.cfg.EvalWorkers,
		Log:      a.log,
	}
	hrv := &http.Server{
		Addr:         a.cfg.Addr,
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      srv.Router(),
	}

	errc := make(chan error, 1)
	go func() {
		a.log.Info("starting HTTP server", zap.String("addr", a.cfg.Addr))
		errc <- hrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()
	a.log.Info("shutting down")
	return hrv.Shutdown(shutdownCtx)
}
