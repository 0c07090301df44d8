// meta/meta.go
package meta

// MAX_TURNS caps a self-play game, counted in commands.
const MAX_TURNS = 300

// WORKERS is the number of games an experiment plays in parallel.
const WORKERS = 8

// ITERATIONS defines the number of MCTS iterations per decision.
const ITERATIONS = 1000

// ROLLOUT_DEPTH bounds each MCTS rollout, counted in commands.
const ROLLOUT_DEPTH = 300

// HYBRID_DEPTH is the expectimax depth seeding hybrid MCTS nodes.
const HYBRID_DEPTH = 2

// EXPECTIMAX_DEPTH is the depth of the medium difficulty.
const EXPECTIMAX_DEPTH = 4

// FLAT_ITERATIONS defines the number of flat Monte-Carlo rollouts per decision.
const FLAT_ITERATIONS = 2000

// GAMES is the number of games per experiment matchup.
const GAMES = 30

// UPDATE_BUFFER is the number of unread session updates kept before the
// oldest is dropped.
const UPDATE_BUFFER = 64
