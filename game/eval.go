package game

import "math"

// Material weights used by the static evaluator.
var weights = [...]float64{
	Crown: 7,
	Horse: 5,
	Bow:   3,
	Pike:  1,
}

func weight(k Kind) float64 {
	if int(k) < len(weights) {
		return weights[k]
	}
	return 0
}

// maxMaterial is the weight of one full attrition army.
var maxMaterial = weight(Crown) + 2*weight(Horse) + 3*weight(Bow) + 5*weight(Pike)

// ValueForRed scores material between -1 and 1 from Red's perspective. An
// in-progress game always lands strictly inside the interval and a finished
// game scores exactly 1 or -1.
func ValueForRed(g *Game) float64 {
	if g.Status == StatusOver {
		switch g.Winner {
		case Red:
			return 1
		case Blue:
			return -1
		default:
			return 0
		}
	}

	var red, blue float64
	for _, c := range g.Board.cells {
		switch c.Player {
		case Red:
			red += weight(c.Kind)
		case Blue:
			blue += weight(c.Kind)
		}
	}
	// Custom setups may field more than one army's worth. Both crowns are
	// on the board while the game runs, so the difference stays below the
	// larger side.
	scale := math.Max(maxMaterial, math.Max(red, blue))
	return (red - blue) / scale
}

// ValueFor converts an evaluation for Red into player's perspective.
func ValueFor(evaluate Evaluate, g *Game, player Player) float64 {
	v := evaluate(g)
	if player == Blue {
		return -v
	}
	return v
}
