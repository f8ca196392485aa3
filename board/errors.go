package board

import (
	"errors"

	"github.com/daystram/rulebook/position"
)

var (
	ErrInvalidFEN         = errors.New("invalid fen")
	ErrOutOfBounds        = position.ErrOutOfBounds
	ErrEmptySource        = errors.New("no piece on source square")
	ErrIllegalDestination = errors.New("illegal destination")
	ErrSelfCheckExposure  = errors.New("move leaves own king under attack")
	ErrNoSnapshot         = errors.New("no snapshot to restore")
	ErrUnknownPiece       = errors.New("unknown piece")
)
