package searcher

import (
	"math"

	"tazar/experiments/metrics"
	"tazar/game"
)

// Search depth per difficulty level
const (
	DepthEasy   = 3
	DepthMedium = 4
	DepthHard   = 5
)

// CommandValue is the exact value of one root command from Red's perspective. For
// volleys Hit and Miss hold the values of both outcomes; for every other
// command all three fields are equal.
type CommandValue struct {
	Value float64
	Hit   float64
	Miss  float64
}

type ExpectimaxResult struct {
	Best      game.Command
	BestIndex int
	Value     float64 // from Red's perspective
	Commands  []game.Command
	Values    []CommandValue // parallel to Commands
	Nodes     int
	Prunes    int
}

type ExpectimaxOption func(*Expectimax)

func WithEvaluate(evaluate game.Evaluate) ExpectimaxOption {
	return func(e *Expectimax) {
		e.evaluate = evaluate
	}
}

func WithExpectimaxMetrics(collector metrics.Collector) ExpectimaxOption {
	return func(e *Expectimax) {
		e.metrics = collector
	}
}

// Expectimax is a depth-limited minimax over decision nodes with chance nodes
// for volleys. Red maximizes and Blue minimizes. The search runs on an
// explicit stack, so depth is bounded only by memory.
type Expectimax struct {
	depth    int
	evaluate game.Evaluate
	metrics  metrics.Collector
	buffers  [][]game.Command
}

func NewExpectimax(depth int, opts ...ExpectimaxOption) *Expectimax {
	if depth < 0 {
		panic("depth cannot be negative")
	}
	e := &Expectimax{
		depth:    depth,
		evaluate: game.ValueForRed,
		metrics:  metrics.NewDummyCollector(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func NewExpectimaxForDifficulty(d Difficulty, opts ...ExpectimaxOption) *Expectimax {
	return NewExpectimax(d.Depth(), opts...)
}

func (e *Expectimax) Depth() int {
	return e.depth
}

type frameKind uint8

const (
	decisionFrame frameKind = iota
	chanceFrame
)

type frame struct {
	kind        frameKind
	depth       int
	alpha, beta float64
	expanded    bool
	maximize    bool
	commands    []game.Command
	next        int
	best        float64
	bestIndex   int
	undo        game.Undo // reverts the child currently being searched
	volley      game.Command
	hit, miss   float64
}

// buffer returns the reusable command buffer for a stack level.
func (e *Expectimax) buffer(level int) []game.Command {
	for len(e.buffers) <= level {
		e.buffers = append(e.buffers, make([]game.Command, 0, 64))
	}
	return e.buffers[level][:0]
}

// Search evaluates g to the configured depth. Root and chance children are
// searched with a full window, so Value and every entry of Values are exact;
// deeper decision nodes prune with alpha-beta.
func (e *Expectimax) Search(g game.Game) ExpectimaxResult {
	e.metrics.Start("expectimax", e.depth)
	res := ExpectimaxResult{Best: game.EndTurn}

	stack := make([]frame, 0, 2*e.depth+2)
	stack = append(stack, frame{kind: decisionFrame, depth: e.depth, alpha: math.Inf(-1), beta: math.Inf(1)})

	var (
		value     float64 // result of the frame popped last
		hit, miss float64 // outcome values when that frame was a chance node
		returned  bool
	)
	for len(stack) > 0 {
		top := len(stack) - 1
		f := &stack[top]

		if returned {
			returned = false
			g.Undo(f.undo)
			f.undo = game.Undo{}
			switch f.kind {
			case chanceFrame:
				if f.next == 0 {
					f.hit = value
				} else {
					f.miss = value
				}
			case decisionFrame:
				if top == 0 {
					res.Values[f.next] = CommandValue{Value: value, Hit: hit, Miss: miss}
				}
				if f.maximize {
					if value >= f.best {
						f.best, f.bestIndex = value, f.next
					}
					f.alpha = math.Max(f.alpha, value)
				} else {
					if value <= f.best {
						f.best, f.bestIndex = value, f.next
					}
					f.beta = math.Min(f.beta, value)
				}
			}
			f.next++
		}

		if f.kind == chanceFrame {
			if f.next > 2 {
				panic("chance node with more than two outcomes")
			}
			if f.next < 2 {
				result := game.VolleyHit
				if f.next == 1 {
					result = game.VolleyMiss
				}
				f.undo = g.Apply(g.Turn.Player, f.volley, result)
				stack = append(stack, frame{kind: decisionFrame, depth: f.depth - 1, alpha: math.Inf(-1), beta: math.Inf(1)})
				continue
			}
			hit, miss = f.hit, f.miss
			value = game.HitProbability*hit + (1-game.HitProbability)*miss
			stack = stack[:top]
			returned = true
			continue
		}

		if !f.expanded {
			res.Nodes++
			if f.depth <= 0 || g.Over() {
				value = e.evaluate(&g)
				hit, miss = value, value
				stack = stack[:top]
				returned = true
				if top == 0 {
					res.Value = value
				}
				continue
			}
			f.expanded = true
			f.commands = g.AppendValidCommands(e.buffer(top))
			e.buffers[top] = f.commands
			f.maximize = g.Turn.Player == game.Red
			if f.maximize {
				f.best = math.Inf(-1)
			} else {
				f.best = math.Inf(1)
			}
			if top == 0 {
				res.Commands = append([]game.Command(nil), f.commands...)
				res.Values = make([]CommandValue, len(f.commands))
			}
		}

		if f.next < len(f.commands) && f.alpha < f.beta {
			cmd := f.commands[f.next]
			if cmd.Kind == game.CommandVolley {
				stack = append(stack, frame{kind: chanceFrame, depth: f.depth, volley: cmd})
			} else {
				alpha, beta := f.alpha, f.beta
				if top == 0 {
					// Root children get a full window so every entry of
					// the value table is exact, not a cutoff bound.
					alpha, beta = math.Inf(-1), math.Inf(1)
				}
				f.undo = g.Apply(g.Turn.Player, cmd, game.VolleyMiss)
				stack = append(stack, frame{kind: decisionFrame, depth: f.depth - 1, alpha: alpha, beta: beta})
			}
			continue
		}

		if f.next < len(f.commands) {
			res.Prunes++
			e.metrics.AddPrune()
		}
		value = f.best
		hit, miss = value, value
		if top == 0 {
			res.Value = value
			res.BestIndex = f.bestIndex
			res.Best = res.Commands[f.bestIndex]
		}
		stack = stack[:top]
		returned = true
	}

	e.metrics.AddNodes(res.Nodes)
	return res
}

// SelectCommand searches g and returns the best command for the player to
// move.
func (e *Expectimax) SelectCommand(g game.Game) game.Command {
	return e.Search(g).Best
}
