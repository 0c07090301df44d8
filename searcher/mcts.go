package searcher

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"tazar/experiments/metrics"
	"tazar/game"
)

type Option func(mcts *MCTS)

// WithExploration sets the UCT exploration constant c.
func WithExploration(c float64) Option {
	return func(mcts *MCTS) {
		mcts.cSquared = c * c
	}
}

// WithWidening sets progressive widening so that a node visited n times may
// have at most k*n^alpha + 1 children.
func WithWidening(k, alpha float64) Option {
	return func(mcts *MCTS) {
		mcts.wideningK = k
		mcts.wideningAlpha = alpha
	}
}

func WithRolloutDepth(depth int) Option {
	return func(mcts *MCTS) {
		mcts.rollout.depth = depth
	}
}

func WithRandom(r game.Random) Option {
	return func(mcts *MCTS) {
		mcts.rollout.random = r
	}
}

func WithRolloutEvaluate(evaluate game.Evaluate) Option {
	return func(mcts *MCTS) {
		mcts.rollout.evaluate = evaluate
	}
}

// WithHybrid replaces rollouts with expectimax values of the given depth.
func WithHybrid(depth int) Option {
	return func(mcts *MCTS) {
		mcts.hybridDepth = depth
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(mcts *MCTS) {
		mcts.metrics = collector
	}
}

// MCTS is a Monte-Carlo tree search with UCT selection, progressive widening
// on decision nodes and explicit chance nodes for volleys.
type MCTS struct {
	cSquared      float64
	wideningK     float64
	wideningAlpha float64
	hybridDepth   int
	hybrid        *Expectimax
	rollout       rollout
	metrics       metrics.Collector
	commands      []game.Command
	untried       []game.Command
}

func NewMCTS(opts ...Option) *MCTS {
	m := &MCTS{
		cSquared:      DefaultExploration * DefaultExploration,
		wideningK:     DefaultWideningK,
		wideningAlpha: DefaultWideningExp,
		rollout: rollout{
			depth:    DefaultRolloutDepth,
			evaluate: game.ValueForRed,
			random:   game.DefaultRandom(),
		},
		metrics: metrics.NewDummyCollector(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.rollout.metrics = m.metrics
	if m.hybridDepth > 0 {
		m.hybrid = NewExpectimax(m.hybridDepth, WithEvaluate(m.rollout.evaluate))
	}
	return m
}

func (m *MCTS) Hybrid() bool {
	return m.hybrid != nil
}

// Widening returns the progressive widening parameters k and alpha.
func (m *MCTS) Widening() (k, alpha float64) {
	return m.wideningK, m.wideningAlpha
}

// NewTree returns a tree rooted at g.
func (m *MCTS) NewTree(g game.Game) *Tree {
	return newTree(&g)
}

// Think runs iterations of selection, expansion, simulation and
// backpropagation. g must be the position the tree was created for.
func (m *MCTS) Think(t *Tree, g game.Game, iterations int) {
	for i := 0; i < iterations; i++ {
		m.iterate(t, g)
		m.metrics.AddIteration()
	}
	log.Debug().Msgf("mcts: %d iterations, %d nodes, %d root visits", iterations, t.Size(), t.RootVisits())
}

// Search builds a fresh tree for g and returns it after the given number of
// iterations.
func (m *MCTS) Search(g game.Game, iterations int) *Tree {
	engine := "mcts"
	if m.Hybrid() {
		engine = "hybrid"
	}
	m.metrics.Start(engine, m.rollout.depth)
	t := m.NewTree(g)
	m.Think(t, g, iterations)
	m.metrics.AddNodes(t.Size())
	return t
}

func (m *MCTS) iterate(t *Tree, sim game.Game) {
	i := rootIndex
	for {
		if i != rootIndex && t.nodes[i].kind != NodeChance {
			n := &t.nodes[i]
			sim.Apply(sim.Turn.Player, n.command, n.volley)
		}

		n := &t.nodes[i]
		switch n.kind {
		case NodeOver:
			t.backup(i, n.mean(), n.scored)
			return
		case NodeChance:
			i = t.sampleOutcome(i, m.rollout.random)
			continue
		}

		if n.unexpanded > 0 && float64(n.children) < widening(m.wideningK, m.wideningAlpha, n.visits) {
			m.expand(t, i, &sim)
			return
		}
		if n.children == 0 {
			panic(fmt.Sprintf("node %d has neither children nor commands", i))
		}
		i = t.bestChild(i, m.cSquared)
	}
}

// expand adds one untried command of node i as a child and scores it.
func (m *MCTS) expand(t *Tree, i uint32, sim *game.Game) {
	m.commands = sim.AppendValidCommands(m.commands[:0])
	n := &t.nodes[i]
	if uint32(len(m.commands)) != n.children+n.unexpanded {
		panic(fmt.Sprintf("node %d: %d commands, expected %d", i, len(m.commands), n.children+n.unexpanded))
	}
	t.reserve(i)

	m.untried = m.untried[:0]
	for _, cmd := range m.commands {
		if !t.hasChild(i, cmd) {
			m.untried = append(m.untried, cmd)
		}
	}

	scored := sim.Turn.Player
	var (
		cmd  game.Command
		seed CommandValue
	)
	if m.Hybrid() {
		cmd, seed = m.bestSeed(t, i, sim)
	} else {
		cmd = Pick(sim, m.untried, m.rollout.random)
	}

	n = &t.nodes[i]
	slot := n.firstChild + n.children
	n.children++
	n.unexpanded--

	if cmd.Kind != game.CommandVolley {
		sim.Apply(scored, cmd, game.VolleyMiss)
		kind, unexpanded, score := m.score(sim, scored, seed.Value)
		t.nodes[slot] = node{
			kind:        kind,
			parent:      i,
			unexpanded:  unexpanded,
			command:     cmd,
			scored:      scored,
			probability: 1,
		}
		t.backup(slot, score, scored)
		return
	}

	// Volley: a chance node with both outcomes scored up front.
	outcomes := uint32(len(t.nodes))
	t.nodes[slot] = node{
		kind:        NodeChance,
		parent:      i,
		firstChild:  outcomes,
		children:    2,
		command:     cmd,
		scored:      scored,
		probability: 1,
	}
	for k, result := range [2]game.VolleyResult{game.VolleyHit, game.VolleyMiss} {
		outcome := *sim
		outcome.Apply(scored, cmd, result)
		p, v := game.HitProbability, seed.Hit
		if k == 1 {
			p, v = 1-game.HitProbability, seed.Miss
		}
		kind, unexpanded, score := m.score(&outcome, scored, v)
		t.nodes = append(t.nodes, node{
			kind:        kind,
			parent:      slot,
			unexpanded:  unexpanded,
			visits:      1,
			reward:      score,
			command:     cmd,
			volley:      result,
			scored:      scored,
			probability: p,
		})
	}
	t.backup(slot, 0, scored)
}

// score classifies a freshly reached position and values it for scored. seed
// is the expectimax value from Red's perspective and is ignored without hybrid
// search.
func (m *MCTS) score(g *game.Game, scored game.Player, seed float64) (NodeKind, uint32, float64) {
	if g.Over() {
		m.metrics.AddFullPlayout()
		if g.Winner == scored {
			return NodeOver, 0, Win
		}
		return NodeOver, 0, Loss
	}

	m.commands = g.AppendValidCommands(m.commands[:0])
	unexpanded := uint32(len(m.commands))
	if m.Hybrid() {
		if scored == game.Blue {
			seed = -seed
		}
		if saturated(seed) {
			return NodeOver, 0, seed
		}
		return NodeDecision, unexpanded, seed
	}

	playout := *g
	return NodeDecision, unexpanded, m.rollout.play(&playout, scored)
}

// bestSeed returns the untried command with the best expectimax value for the
// player to move. Tables are computed once per node.
func (m *MCTS) bestSeed(t *Tree, i uint32, sim *game.Game) (game.Command, CommandValue) {
	values, ok := t.seeds[i]
	if !ok {
		res := m.hybrid.Search(*sim)
		values = res.Values
		t.seeds[i] = values
		m.metrics.AddNodes(res.Nodes)
	}

	maximize := sim.Turn.Player == game.Red
	bestIndex := -1
	for k, cmd := range m.commands {
		if t.hasChild(i, cmd) {
			continue
		}
		if bestIndex < 0 {
			bestIndex = k
			continue
		}
		v, best := values[k].Value, values[bestIndex].Value
		if (maximize && v >= best) || (!maximize && v <= best) {
			bestIndex = k
		}
	}
	return m.commands[bestIndex], values[bestIndex]
}
