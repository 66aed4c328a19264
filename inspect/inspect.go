// Package inspect serves a read-only HTTP view of trained agents.
package inspect

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/sw965/oxlearn/arena"
	ttt "github.com/sw965/oxlearn/game/sequential/tictactoe"
	"github.com/sw965/oxlearn/report"
	"github.com/sw965/oxlearn/td"
)

const (
	maxEvalGames  = 100_000
	defaultWindow = 1000
)

// Server must not be used while the agents' tables are being trained.
type Server struct {
	Agents   map[string]*td.Agent
	Recorder *report.Recorder
	Workers  int
	Log      *zap.Logger
}

type AgentInfo struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	States int    `json:"states"`
	Wins   int    `json:"wins"`
}

type ValueInfo struct {
	Fingerprint string  `json:"fingerprint"`
	Value       float64 `json:"value"`
	Known       bool    `json:"known"`
}

type BestMove struct {
	Row   int     `json:"row"`
	Col   int     `json:"col"`
	Value float64 `json:"value"`
	After string  `json:"after"`
}

func (s *Server) Router() *mux.Router {
	if s.Log == nil {
		s.Log = zap.NewNop()
	}

	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/agents", s.listAgents).Methods(http.MethodGet)
	r.HandleFunc("/agents/{name}/values/{fingerprint}", s.value).Methods(http.MethodGet)
	r.HandleFunc("/agents/{name}/best", s.best).Methods(http.MethodGet)
	r.HandleFunc("/agents/{name}/evaluate", s.evaluate).Methods(http.MethodGet)
	r.HandleFunc("/chart", s.chart).Methods(http.MethodGet)
	r.HandleFunc("/summary", s.summary).Methods(http.MethodGet)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.Log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("in", time.Since(start)),
		)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Log.Error("", zap.Error(err))
	}
}

func (s *Server) fail(w http.ResponseWriter, err error, code int) {
	s.Log.Debug("request failed", zap.Int("code", code), zap.Error(err))
	http.Error(w, err.Error(), code)
}

func (s *Server) agent(w http.ResponseWriter, r *http.Request) (*td.Agent, bool) {
	name := mux.Vars(r)["name"]
	a, ok := s.Agents[name]
	if !ok {
		s.fail(w, errors.New("unknown agent "+strconv.Quote(name)), http.StatusNotFound)
	}
	return a, ok
}

func (s *Server) listAgents(w http.ResponseWriter, r *http.Request) {
	infos := make([]AgentInfo, 0, len(s.Agents))
	for name, a := range s.Agents {
		infos = append(infos, AgentInfo{Name: name, Symbol: a.Symbol.Mark(), States: len(a.Values), Wins: a.Wins})
	}
	slices.SortFunc(infos, func(a, b AgentInfo) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	s.writeJSON(w, infos)
}

func (s *Server) value(w http.ResponseWriter, r *http.Request) {
	a, ok := s.agent(w, r)
	if !ok {
		return
	}

	f, err := ttt.ParseFingerprint(mux.Vars(r)["fingerprint"])
	if err != nil {
		s.fail(w, err, http.StatusBadRequest)
		return
	}

	v, known := a.Values[f]
	s.writeJSON(w, ValueInfo{Fingerprint: f.String(), Value: v, Known: known})
}

func (s *Server) best(w http.ResponseWriter, r *http.Request) {
	a, ok := s.agent(w, r)
	if !ok {
		return
	}

	f, err := ttt.ParseFingerprint(r.URL.Query().Get("board"))
	if err != nil {
		s.fail(w, err, http.StatusBadRequest)
		return
	}

	b := f.Board()
	if res := ttt.Evaluate(b); res.IsEnd() {
		s.fail(w, errors.New("game is over: "+res.String()), http.StatusConflict)
		return
	}

	m, err := td.Greedy(a, b, ttt.LegalMoves(b))
	if err != nil {
		s.fail(w, err, http.StatusInternalServerError)
		return
	}

	after, err := b.Put(m, a.Symbol)
	if err != nil {
		s.fail(w, err, http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, BestMove{Row: m.Row, Col: m.Col, Value: a.Lookup(after.Fingerprint()), After: after.Fingerprint().String()})
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func (s *Server) evaluate(w http.ResponseWriter, r *http.Request) {
	a, ok := s.agent(w, r)
	if !ok {
		return
	}

	games, err := queryInt(r, "games", 1000)
	if err != nil || games < 0 || games > maxEvalGames {
		s.fail(w, errors.New("games must be in [0, "+strconv.Itoa(maxEvalGames)+"]"), http.StatusBadRequest)
		return
	}
	seed, err := queryInt(r, "seed", int(time.Now().UnixNano()))
	if err != nil {
		s.fail(w, err, http.StatusBadRequest)
		return
	}

	// 探索なしの複製で評価する
	greedy := *a
	greedy.ExplorationRate = 0
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	rep, err := arena.Evaluate(&greedy, games, max(s.Workers, 1), rng, s.Log)
	if err != nil {
		s.fail(w, err, http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, rep)
}

func (s *Server) windows(w http.ResponseWriter, r *http.Request) ([]report.Window, bool) {
	if s.Recorder == nil {
		s.fail(w, errors.New("no training run recorded"), http.StatusNotFound)
		return nil, false
	}
	size, err := queryInt(r, "window", defaultWindow)
	if err != nil || size < 1 {
		s.fail(w, errors.New("window must be a positive integer"), http.StatusBadRequest)
		return nil, false
	}
	return s.Recorder.Windows(size), true
}

func (s *Server) chart(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.windows(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.RenderChart(w, "oxlearn self-play", ws); err != nil {
		s.Log.Error("", zap.Error(err))
	}
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.windows(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, report.Summarize(ws))
}
