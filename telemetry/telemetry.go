// Package telemetry publishes training statistics on NATS.
package telemetry

import (
	"context"
	"encoding/json"
	"time"

	nats "github.com/nats-io/nats.go"
	"go.uber.org/zap"

	ttt "github.com/sw965/oxlearn/game/sequential/tictactoe"
	"github.com/sw965/oxlearn/train"
)

const Subject = "oxlearn.train.stats"

type conn interface {
	Publish(subj string, data []byte) error
}

type Publisher struct {
	nc      conn
	close   func()
	Subject string
	Log     *zap.Logger
}

// Message is the JSON payload of every publication.
type Message struct {
	train.Stats
	Last ttt.Result `json:"last"`
	At   time.Time  `json:"at"`
}

func Connect(ctx context.Context, uri string, log *zap.Logger) (*Publisher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()

	log.Info("connecting to NATS", zap.String("uri", uri))
	nc, err := nats.Connect(uri, nats.Name("oxlearn"))
	if err != nil {
		log.Error("", zap.Error(err))
		return nil, err
	}

	log.Info("connected", zap.String("to", nc.ConnectedUrl()), zap.Duration("in", time.Since(start)))
	return &Publisher{
		nc: nc,
		close: func() {
			// 送信待ちのメッセージを流してから閉じる
			if err := nc.Drain(); err != nil {
				log.Error("", zap.Error(err))
			}
		},
		Subject: Subject,
		Log:     log,
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, s train.Stats, last ttt.Result) error {
	payload, err := json.Marshal(Message{Stats: s, Last: last, At: time.Now().UTC()})
	if err != nil {
		p.Log.Error("", zap.Error(err))
		return err
	}

	start := time.Now()
	if err := p.nc.Publish(p.Subject, payload); err != nil {
		p.Log.Error("", zap.Error(err))
		return err
	}
	p.Log.Debug("published",
		zap.String("subject", p.Subject),
		zap.Int("bytes", len(payload)),
		zap.Duration("in", time.Since(start)),
	)
	return nil
}

// Every returns a train.Hook publishing after every n episodes.
func (p *Publisher) Every(ctx context.Context, n int) train.Hook {
	n = max(n, 1)
	return func(s train.Stats, r ttt.Result) error {
		if s.Rounds%n != 0 {
			return nil
		}
		return p.Publish(ctx, s, r)
	}
}

func (p *Publisher) Close() {
	if p.close != nil {
		p.close()
	}
}
