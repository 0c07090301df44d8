package engine

import (
	"context"

	"tazar/experiments/metrics"
	"tazar/game"
)

type Engine interface {
	// Run plays a game till there's a winner or the turn cap is reached
	Run(ctx context.Context) (winner game.Player, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
