package game

import (
	"errors"
	"fmt"

	"tazar/hex"
)

var (
	ErrOffBoard     = errors.New("position is off the board")
	ErrOccupied     = errors.New("position is already occupied")
	ErrCrownMissing = errors.New("each player needs exactly one crown")
)

// Placement puts one piece on a custom board.
type Placement struct {
	Pos   hex.Pos
	Kind  Kind
	Owner Player
}

// NewFromPlacements returns an attrition game holding only the given pieces,
// with player to move on a fresh two-activation turn. Pieces are numbered from
// 1 in the given order.
func NewFromPlacements(player Player, placements []Placement) (*Game, error) {
	if player != Red && player != Blue {
		return nil, fmt.Errorf("new game from placements: bad player %s", player)
	}
	g := &Game{
		Mode:   ModeAttrition,
		Map:    MapHexFieldSmall,
		Status: StatusInProgress,
		Winner: None,
		Turn:   Turn{Player: player},
	}
	g.Board.clear()
	for i, p := range placements {
		if !g.Board.OnBoard(p.Pos) {
			return nil, fmt.Errorf("new game from placements: %w: %s", ErrOffBoard, p.Pos)
		}
		if g.Board.At(p.Pos).Occupied() {
			return nil, fmt.Errorf("new game from placements: %w: %s", ErrOccupied, p.Pos)
		}
		if p.Kind <= Empty || (p.Owner != Red && p.Owner != Blue) {
			return nil, fmt.Errorf("new game from placements: bad piece %s for %s at %s", p.Kind, p.Owner, p.Pos)
		}
		g.Board.set(p.Pos, Piece{Kind: p.Kind, Player: p.Owner, ID: uint8(i + 1)})
	}
	if g.Board.Count(Red, Crown) != 1 || g.Board.Count(Blue, Crown) != 1 {
		return nil, fmt.Errorf("new game from placements: %w", ErrCrownMissing)
	}
	return g, nil
}
