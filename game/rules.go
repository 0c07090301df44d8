package game

import "tazar/hex"

// allowedOrders reports which order kinds the piece may still issue this turn.
func (g *Game) allowedOrders(piece Piece) (move, action bool) {
	turn := &g.Turn
	if turn.ActivationIndex >= len(turn.Activations) {
		return false, false
	}
	for i := 0; i < turn.ActivationIndex; i++ {
		if turn.Activations[i].PieceID == piece.ID {
			return false, false
		}
	}

	act := &turn.Activations[turn.ActivationIndex]
	switch act.PieceID {
	case 0:
		move, action = true, true
	case piece.ID:
		move, action = true, true
		for _, o := range act.Orders[:act.OrderCount] {
			switch o.Kind {
			case OrderMove:
				move = false
			case OrderVolley, OrderMuster:
				action = false
			}
		}
	default:
		// Switching pieces opens the next activation.
		if turn.ActivationIndex+1 >= len(turn.Activations) {
			return false, false
		}
		move, action = true, true
	}

	if !piece.Kind.HasAction() {
		action = false
	}
	return move, action
}

func (g *Game) valid(player Player, cmd Command) bool {
	if g.Status != StatusInProgress || player != g.Turn.Player {
		return false
	}
	switch cmd.Kind {
	case CommandEndTurn:
		return true
	case CommandMove, CommandVolley:
	default:
		// Muster is not part of the attrition rules.
		return false
	}

	piece := g.Board.At(cmd.Piece)
	if !piece.Occupied() || piece.Player != player || !g.Board.OnBoard(cmd.Target) {
		return false
	}
	move, action := g.allowedOrders(piece)
	if cmd.Kind == CommandMove {
		return move
	}
	return action && piece.Kind == Bow
}

// ValidCommands lists every legal command for the player to move. End Turn is
// always first.
func (g *Game) ValidCommands() []Command {
	return g.AppendValidCommands(make([]Command, 0, 64))
}

// AppendValidCommands appends the legal commands to dst and returns the
// extended slice.
func (g *Game) AppendValidCommands(dst []Command) []Command {
	dst = append(dst, EndTurn)
	if g.Status != StatusInProgress {
		return dst
	}

	var targets [64]hex.Pos
	g.Board.Cells(func(pos hex.Pos, piece Piece) bool {
		if !piece.Occupied() || piece.Player != g.Turn.Player {
			return true
		}
		move, action := g.allowedOrders(piece)
		if move {
			for _, t := range g.appendMoveTargets(targets[:0], pos) {
				dst = append(dst, Command{Kind: CommandMove, Piece: pos, Target: t})
			}
		}
		if action && piece.Kind == Bow {
			for _, t := range g.appendVolleyTargets(targets[:0], pos) {
				dst = append(dst, Command{Kind: CommandVolley, Piece: pos, Target: t})
			}
		}
		return true
	})
	return dst
}

// MoveTargets returns every cell the piece at from can reach with one move.
func (g *Game) MoveTargets(from hex.Pos) []hex.Pos {
	return g.appendMoveTargets(nil, from)
}

// appendMoveTargets flood fills outward from the piece. Only the starting
// cell may be passed through while occupied, so captures end the walk.
func (g *Game) appendMoveTargets(dst []hex.Pos, from hex.Pos) []hex.Pos {
	mover := g.Board.At(from)
	if !mover.Occupied() {
		return dst
	}
	maxKill := mover.Kind.MaxKill()

	var seen [boardSize * boardSize]bool
	start, _ := index(from)
	seen[start] = true

	frontier := []hex.Pos{from}
	for step := 0; step < mover.Kind.Movement() && len(frontier) > 0; step++ {
		var next []hex.Pos
		for _, cur := range frontier {
			if cur != from && g.Board.At(cur).Occupied() {
				continue
			}
			for _, n := range cur.Neighbors() {
				i, ok := index(n)
				if !ok || seen[i] {
					continue
				}
				p := g.Board.At(n)
				if p.Player == mover.Player || p.Kind.Strength() > maxKill {
					continue
				}
				seen[i] = true
				dst = append(dst, n)
				next = append(next, n)
			}
		}
		frontier = next
	}
	return dst
}

// VolleyTargets returns the enemy pieces within two cells of from.
func (g *Game) VolleyTargets(from hex.Pos) []hex.Pos {
	return g.appendVolleyTargets(nil, from)
}

var volleyOffsets = hex.Range(2)

func (g *Game) appendVolleyTargets(dst []hex.Pos, from hex.Pos) []hex.Pos {
	shooter := g.Board.At(from)
	for _, o := range volleyOffsets {
		p := g.Board.At(from.Add(o))
		if p.Occupied() && p.Player != shooter.Player {
			dst = append(dst, from.Add(o))
		}
	}
	return dst
}
