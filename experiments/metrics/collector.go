package metrics

import (
	"sync/atomic"
	"time"

	"tazar/game"
)

// SearchMetric describes the work done to find one command.
type SearchMetric struct {
	Engine       string
	Duration     time.Duration
	Depth        int // expectimax depth or rollout depth
	Iterations   int // MCTS or flat Monte-Carlo iterations
	Nodes        int // expectimax nodes visited or arena size
	FullPlayouts int // rollouts that reached the end of the game
	Prunes       int
	Value        float64 // best value from the searching player's perspective
}

type MoveMetric struct {
	Step    int
	Player  game.Player
	Command game.Command
	SearchMetric
}

type GameMetric struct {
	StartingPlayer game.Player
	Winner         game.Player
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
	TotalTurns     int
}

type Collector interface {
	Start(engine string, depth int)
	AddIteration()
	AddFullPlayout()
	AddNodes(n int)
	AddPrune()
	Complete(value float64) SearchMetric
}

type collector struct {
	engine       string
	depth        int
	startTime    time.Time
	iterations   atomic.Int32
	fullPlayouts atomic.Int32
	nodes        atomic.Int32
	prunes       atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(engine string, depth int) {
	m.engine = engine
	m.depth = depth
	m.startTime = time.Now()
	m.iterations.Store(0)
	m.fullPlayouts.Store(0)
	m.nodes.Store(0)
	m.prunes.Store(0)
}

func (m *collector) AddIteration() {
	m.iterations.Add(1)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddNodes(n int) {
	m.nodes.Add(int32(n))
}

func (m *collector) AddPrune() {
	m.prunes.Add(1)
}

func (m *collector) Complete(value float64) SearchMetric {
	return SearchMetric{
		Engine:       m.engine,
		Duration:     time.Since(m.startTime),
		Depth:        m.depth,
		Iterations:   int(m.iterations.Load()),
		Nodes:        int(m.nodes.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
		Prunes:       int(m.prunes.Load()),
		Value:        value,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(engine string, depth int)      {}
func (m *dummyCollector) AddIteration()                       {}
func (m *dummyCollector) AddFullPlayout()                     {}
func (m *dummyCollector) AddNodes(n int)                      {}
func (m *dummyCollector) AddPrune()                           {}
func (m *dummyCollector) Complete(value float64) SearchMetric { return SearchMetric{} }
