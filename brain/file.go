package brain

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sw965/omw/encoding/jsonx"
	"go.uber.org/zap"

	"github.com/sw965/oxlearn/td"
)

// FileStore keeps each table in <Dir>/<name>_brain.json. Before a file is
// overwritten its previous content is copied to <file>.bak.
type FileStore struct {
	Dir string
	Log *zap.Logger
}

func (s FileStore) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s FileStore) Path(name string) string {
	return filepath.Join(s.Dir, name+"_brain.json")
}

// Load returns an empty table when the file does not exist yet.
func (s FileStore) Load(_ context.Context, name string) (td.ValueTable, error) {
	log := s.log()
	path := s.Path(name)

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.Info("no brain yet", zap.String("path", path))
		return td.ValueTable{}, nil
	}

	start := time.Now()
	raw, err := jsonx.Load[map[string]any](path)
	if err != nil {
		log.Error("", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	table, rejected := Decode(raw)
	if len(rejected) > 0 {
		log.Warn("dropped malformed entries", zap.String("path", path), zap.Strings("keys", rejected))
	}
	log.Info("loaded brain",
		zap.String("path", path),
		zap.Int("states", len(table)),
		zap.Duration("in", time.Since(start)),
	)
	return table, nil
}

func (s FileStore) Save(_ context.Context, name string, table td.ValueTable) error {
	log := s.log()
	path := s.Path(name)

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}

	if err := backup(path); err != nil {
		log.Error("", zap.String("path", path), zap.Error(err))
		return err
	}

	start := time.Now()
	if err := jsonx.Save(Encode(table), path); err != nil {
		log.Error("", zap.String("path", path), zap.Error(err))
		return err
	}
	log.Info("saved brain",
		zap.String("path", path),
		zap.Int("states", len(table)),
		zap.Duration("in", time.Since(start)),
	)
	return nil
}

func backup(path string) error {
	src, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path + ".bak")
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
