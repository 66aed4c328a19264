// Package config gathers the run settings of oxlearn.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/sw965/oxlearn/td"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	PlayerOne td.Params
	PlayerTwo td.Params

	// Rounds is the episode budget of a training run or the number of human games.
	Rounds int
	// Wipe starts training from empty tables instead of the stored ones.
	Wipe bool
	// CheckpointEvery saves both tables every n episodes. 0 disables it.
	CheckpointEvery int

	BrainDir  string
	RedisAddr string
	NatsURL   string
	ChartPath string
	Addr      string
	Seed      uint64
	Debug     bool

	EvalGames   int
	EvalWorkers int
}

const (
	DefaultLearningRate = 0.2
	DefaultDecayGamma   = 0.9
	TrainExplorationP1  = 0.5
	TrainExplorationP2  = 0.3
	DefaultTrainRounds  = 100_000
	DefaultPlayRounds   = 5
)

// Default returns settings for playing: agents never explore.
func Default() Config {
	params := td.Params{LearningRate: DefaultLearningRate, DecayGamma: DefaultDecayGamma}
	return Config{
		PlayerOne:   params,
		PlayerTwo:   params,
		Rounds:      DefaultPlayRounds,
		Wipe:        true,
		BrainDir:    ".",
		Addr:        "127.0.0.1:3000",
		EvalGames:   1000,
		EvalWorkers: 4,
	}
}

// Training switches c to training defaults.
func (c Config) Training() Config {
	c.PlayerOne.ExplorationRate = TrainExplorationP1
	c.PlayerTwo.ExplorationRate = TrainExplorationP2
	c.Rounds = DefaultTrainRounds
	return c
}

// FromEnv overrides c with the OXLEARN_* variables that are set.
func (c Config) FromEnv() (Config, error) {
	if v, ok := os.LookupEnv("OXLEARN_DIR"); ok {
		c.BrainDir = v
	}
	if v, ok := os.LookupEnv("OXLEARN_REDIS"); ok {
		c.RedisAddr = v
	}
	if v, ok := os.LookupEnv("OXLEARN_NATS"); ok {
		c.NatsURL = v
	}

	for _, f := range []struct {
		env  string
		dsts []*float64
	}{
		{"OXLEARN_LR", []*float64{&c.PlayerOne.LearningRate, &c.PlayerTwo.LearningRate}},
		{"OXLEARN_GAMMA", []*float64{&c.PlayerOne.DecayGamma, &c.PlayerTwo.DecayGamma}},
	} {
		v, ok := os.LookupEnv(f.env)
		if !ok {
			continue
		}
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, f.env, err)
		}
		for _, dst := range f.dsts {
			*dst = x
		}
	}
	return c, nil
}

func (c Config) Validate() error {
	if err := c.PlayerOne.Validate(); err != nil {
		return fmt.Errorf("%w: player one: %v", ErrInvalidConfig, err)
	}
	if err := c.PlayerTwo.Validate(); err != nil {
		return fmt.Errorf("%w: player two: %v", ErrInvalidConfig, err)
	}
	if c.Rounds < 0 {
		return fmt.Errorf("%w: rounds=%d", ErrInvalidConfig, c.Rounds)
	}
	if c.CheckpointEvery < 0 {
		return fmt.Errorf("%w: checkpoint=%d", ErrInvalidConfig, c.CheckpointEvery)
	}
	if c.EvalGames < 0 || c.EvalWorkers < 1 {
		return fmt.Errorf("%w: games=%d workers=%d", ErrInvalidConfig, c.EvalGames, c.EvalWorkers)
	}
	return nil
}
