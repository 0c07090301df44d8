// Package searcher picks commands for the player to move. It holds a tactical
// policy, a depth-limited expectimax, an arena-based Monte-Carlo tree search
// and a flat Monte-Carlo baseline. None of the searchers are safe for
// concurrent use; give each goroutine its own instance.
package searcher

import "math"

const (
	Win  = 1.0  // Reward for a won game
	Loss = -Win // Reward for a lost game
)

// Defaults for MCTS hyperparameters
const (
	DefaultExploration  = math.Sqrt2
	DefaultWideningK    = 2.0
	DefaultWideningExp  = 0.5
	DefaultRolloutDepth = 300
)

// saturated reports whether a value is a proven win or loss.
func saturated(v float64) bool {
	return math.Abs(v) >= Win-1e-9
}
