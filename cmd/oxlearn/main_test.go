package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sw965/oxlearn/config"
)

func TestParse(t *testing.T) {
	var out bytes.Buffer

	opts, err := parse([]string{"train"}, &out)
	require.NoError(t, err)
	require.Equal(t, config.DefaultTrainRounds, opts.cfg.Rounds)
	require.Equal(t, 0.5, opts.cfg.PlayerOne.ExplorationRate)
	require.True(t, opts.cfg.Wipe)
	require.False(t, opts.roundsSet)

	opts, err = parse([]string{"-rounds", "3", "-dont-wipe", "play"}, &out)
	require.NoError(t, err)
	require.Equal(t, 3, opts.cfg.Rounds)
	require.Zero(t, opts.cfg.PlayerOne.ExplorationRate)
	require.False(t, opts.cfg.Wipe)
	require.True(t, opts.roundsSet)

	_, err = parse([]string{"fly"}, &out)
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = parse(nil, &out)
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = parse([]string{"-rounds", "-1", "train"}, &out)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestTrainThenEvalThenPlay(t *testing.T) {
	dir := t.TempDir()
	chart := filepath.Join(dir, "chart.html")
	ctx := context.Background()

	var out bytes.Buffer
	err := run(ctx, []string{"-dir", dir, "-rounds", "300", "-seed", "7", "-checkpoint", "100", "-chart", chart, "train"}, nil, &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "Player two win percentage")

	for _, name := range []string{"player_one_brain.json", "player_two_brain.json", "chart.html"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}
	// チェックポイントの後に最終保存があるので.bakも残る
	_, err = os.Stat(filepath.Join(dir, "player_one_brain.json.bak"))
	require.NoError(t, err)

	out.Reset()
	err = run(ctx, []string{"-dir", dir, "-games", "40", "-workers", "2", "-seed", "3", "eval"}, nil, &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "player_one vs random")
	require.Contains(t, out.String(), "player_two vs random")

	out.Reset()
	in := strings.NewReader("0 0\n")
	err = run(ctx, []string{"-dir", dir, "-rounds", "1", "play"}, in, &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "your move")
}

func TestTrainCancelledStillSaves(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := run(ctx, []string{"-dir", dir, "-rounds", "50", "train"}, nil, &out)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "player_one_brain.json"))
	require.NoError(t, err)
}
