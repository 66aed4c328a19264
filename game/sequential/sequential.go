// Package sequential provides utilities to run game playouts in a sequential-game setting.
// Policy consistency validation is centralized in Engine.Playouts.
//
// Package sequential は逐次（ターン制）ゲームのプレイアウト実行ユーティリティを提供します。
// Policy の整合性チェックは Engine.Playouts に集約されています。
package sequential

import "errors"

var (
	ErrNilLogicFunc  = errors.New("logic: func field is nil")
	ErrNilEngineFunc = errors.New("engine: func field is nil")
	ErrNilActorFunc  = errors.New("actor: func field is nil")
	ErrNoAgents      = errors.New("engine: agents list is empty")

	ErrEmptyRank         = errors.New("rank: no agents for rank")
	ErrDuplicateAgent    = errors.New("rank: duplicate agent")
	ErrInvalidRankValue  = errors.New("rank: must be >= 1")
	ErrMinRankNotOne     = errors.New("rank: must start at 1")
	ErrRankNotContiguous = errors.New("rank: not contiguous")

	ErrEmptyLegalMoves        = errors.New("legalMoves: empty")
	ErrNotUniqueLegalMoves    = errors.New("legalMoves: duplicated moves")
	ErrPolicySizeMismatch     = errors.New("policy: size differs from legalMoves")
	ErrPolicyMissingLegalMove = errors.New("policy: missing legal move")
	ErrPolicyBadValue         = errors.New("policy: negative, NaN or Inf value")
	ErrPolicyZeroSum          = errors.New("policy: zero sum")
	ErrSeatNotFilled          = errors.New("seats: no actor for agent")
)
