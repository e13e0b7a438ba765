package errors

import "errors"

var (
	ErrInvalidSize      = errors.New("invalid board size")
	ErrOutOfBounds      = errors.New("coordinate out of bounds")
	ErrEmptyCell        = errors.New("no stone at coordinate")
	ErrMalformedMove    = errors.New("malformed move")
	ErrMalformedRecord  = errors.New("malformed game record")
	ErrCreateGameFailed = errors.New("create game failed")
	ErrGameNotFound     = errors.New("game not found")
	ErrInternal         = errors.New("internal error")
)
