package brain

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/sw965/oxlearn/td"
)

const DefaultRedisPrefix = "oxlearn:brain:"

// RedisStore keeps each table in one hash: field = fingerprint, value = float.
type RedisStore struct {
	Client *redis.Client
	Prefix string
	Log    *zap.Logger
}

func NewRedisStore(ctx context.Context, addr string, log *zap.Logger) (*RedisStore, error) {
	if log == nil {
		log = zap.NewNop()
	}

	log.Info("connecting to redis", zap.String("addr", addr))
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	start := time.Now()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Error("", zap.Error(err))
		client.Close()
		return nil, err
	}
	log.Info("connected to redis", zap.Duration("in", time.Since(start)))

	return &RedisStore{Client: client, Prefix: DefaultRedisPrefix, Log: log}, nil
}

func (s *RedisStore) Key(name string) string {
	return s.Prefix + name
}

func (s *RedisStore) Load(ctx context.Context, name string) (td.ValueTable, error) {
	key := s.Key(name)
	fields, err := s.Client.HGetAll(ctx, key).Result()
	if err != nil {
		s.Log.Error("", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	raw := make(map[string]any, len(fields))
	for k, v := range fields {
		raw[k] = v
	}

	table, rejected := Decode(raw)
	if len(rejected) > 0 {
		s.Log.Warn("dropped malformed entries", zap.String("key", key), zap.Strings("fields", rejected))
	}
	s.Log.Info("loaded brain", zap.String("key", key), zap.Int("states", len(table)))
	return table, nil
}

// Save replaces the whole hash atomically.
func (s *RedisStore) Save(ctx context.Context, name string, table td.ValueTable) error {
	key := s.Key(name)
	fields := make(map[string]interface{}, len(table))
	for k, v := range Encode(table) {
		fields[k] = strconv.FormatFloat(v, 'g', -1, 64)
	}

	start := time.Now()
	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(fields) > 0 {
			pipe.HSet(ctx, key, fields)
		}
		return nil
	})
	if err != nil {
		s.Log.Error("", zap.String("key", key), zap.Error(err))
		return err
	}
	s.Log.Info("saved brain",
		zap.String("key", key),
		zap.Int("states", len(table)),
		zap.Duration("in", time.Since(start)),
	)
	return nil
}

func (s *RedisStore) Close() error {
	return s.Client.Close()
}
