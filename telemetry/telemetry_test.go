package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	ttt "github.com/sw965/oxlearn/game/sequential/tictactoe"
	"github.com/sw965/oxlearn/train"
)

type fakeConn struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (c *fakeConn) Publish(subj string, data []byte) error {
	if c.err != nil {
		return c.err
	}
	c.subjects = append(c.subjects, subj)
	c.payloads = append(c.payloads, data)
	return nil
}

func TestPublish(t *testing.T) {
	nc := &fakeConn{}
	p := &Publisher{nc: nc, Subject: Subject, Log: zap.NewNop()}

	err := p.Publish(context.Background(), train.Stats{Rounds: 10, P1Wins: 6, P2Wins: 3, Ties: 1}, ttt.Tie)
	require.NoError(t, err)
	require.Equal(t, []string{"oxlearn.train.stats"}, nc.subjects)

	var got map[string]any
	require.NoError(t, json.Unmarshal(nc.payloads[0], &got))
	require.EqualValues(t, 10, got["rounds"])
	require.EqualValues(t, 6, got["p1_wins"])
	require.EqualValues(t, ttt.Tie, got["last"])
	require.Contains(t, got, "at")
}

func TestEvery(t *testing.T) {
	nc := &fakeConn{}
	p := &Publisher{nc: nc, Subject: Subject, Log: zap.NewNop()}
	hook := p.Every(context.Background(), 3)

	for i := 1; i <= 7; i++ {
		require.NoError(t, hook(train.Stats{Rounds: i}, ttt.PlayerOneWin))
	}
	require.Len(t, nc.payloads, 2)

	nc.err = errors.New("boom")
	require.Error(t, hook(train.Stats{Rounds: 9}, ttt.PlayerOneWin))
}

func TestConnectUnreachable(t *testing.T) {
	_, err := Connect(context.Background(), "nats://127.0.0.1:1", nil)
	require.Error(t, err)
}
