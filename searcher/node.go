package searcher

import (
	"fmt"
	"math"

	"tazar/game"
	"tazar/utils"
)

type NodeKind uint8

const (
	NodeNone NodeKind = iota
	NodeDecision
	NodeChance
	NodeOver // terminal, or proven by the expectimax seed
)

func (k NodeKind) String() string {
	switch k {
	case NodeDecision:
		return "decision"
	case NodeChance:
		return "chance"
	case NodeOver:
		return "over"
	default:
		return "none"
	}
}

const (
	nullIndex uint32 = 0
	rootIndex uint32 = 1
)

// node lives in the Tree arena and refers to its relatives by index. The
// reward is kept from the perspective of scored, the player who issued the
// command leading into the node.
type node struct {
	kind        NodeKind
	parent      uint32
	firstChild  uint32
	children    uint32
	unexpanded  uint32
	visits      uint32
	reward      float64
	command     game.Command
	volley      game.VolleyResult
	scored      game.Player
	probability float64
}

func (n *node) mean() float64 {
	if n.visits == 0 {
		return 0
	}
	return n.reward / float64(n.visits)
}

// Tree is a search tree stored in one contiguous arena. Index 0 is reserved
// as the null node and the root sits at index 1.
type Tree struct {
	nodes    []node
	commands []game.Command // root commands in enumeration order
	seeds    map[uint32][]CommandValue
}

// Visit is the number of root visits spent on one command.
type Visit struct {
	Command game.Command
	Visits  int
}

func newTree(g *game.Game) *Tree {
	commands := g.ValidCommands()
	t := &Tree{
		nodes:    make([]node, 2, 1024),
		commands: commands,
		seeds:    make(map[uint32][]CommandValue),
	}
	root := &t.nodes[rootIndex]
	root.kind = NodeDecision
	root.scored = g.Turn.Player
	root.probability = 1
	root.unexpanded = uint32(len(commands))
	if g.Over() {
		root.kind = NodeOver
		root.unexpanded = 0
	}
	return t
}

func (t *Tree) Size() int {
	return len(t.nodes) - 1
}

func (t *Tree) RootVisits() int {
	return int(t.nodes[rootIndex].visits)
}

// Commands returns the root commands in enumeration order.
func (t *Tree) Commands() []game.Command {
	return t.commands
}

// reserve makes room for the whole child block of a decision node.
func (t *Tree) reserve(i uint32) {
	n := &t.nodes[i]
	if n.firstChild != nullIndex {
		return
	}
	n.firstChild = uint32(len(t.nodes))
	size := int(n.unexpanded)
	t.nodes = append(t.nodes, make([]node, size)...)
}

func (t *Tree) hasChild(i uint32, cmd game.Command) bool {
	n := &t.nodes[i]
	for c := n.firstChild; c < n.firstChild+n.children; c++ {
		if t.nodes[c].command == cmd {
			return true
		}
	}
	return false
}

// backup adds score, seen from scored's side, to every node from i up to the
// root.
func (t *Tree) backup(i uint32, score float64, scored game.Player) {
	for i != nullIndex {
		n := &t.nodes[i]
		if n.kind == NodeChance {
			score, scored = t.backupChance(i), n.scored
		}
		if n.scored == scored {
			n.reward += score
		} else {
			n.reward -= score
		}
		n.visits++
		i = n.parent
	}
}

// backupChance restates a chance node as the probability-weighted mean of its
// outcomes and returns that mean as the score to propagate.
func (t *Tree) backupChance(i uint32) float64 {
	mean := t.expectation(i)
	n := &t.nodes[i]
	n.reward = mean * float64(n.visits)
	return mean
}

func (t *Tree) expectation(i uint32) float64 {
	n := &t.nodes[i]
	mean := 0.0
	for c := n.firstChild; c < n.firstChild+n.children; c++ {
		mean += t.nodes[c].probability * t.nodes[c].mean()
	}
	return mean
}

// sampleOutcome picks a chance child in proportion to its probability.
func (t *Tree) sampleOutcome(i uint32, r game.Random) uint32 {
	n := &t.nodes[i]
	weights := [2]float64{}
	for k := uint32(0); k < n.children; k++ {
		weights[k] = t.nodes[n.firstChild+k].probability
	}
	return n.firstChild + uint32(utils.SampleIndex(weights[:n.children], r.Float64()))
}

// bestChild returns the child of i with the highest UCT score.
func (t *Tree) bestChild(i uint32, cSquared float64) uint32 {
	n := &t.nodes[i]
	u := newUCT(cSquared, float64(n.visits))
	best, bestScore := nullIndex, math.Inf(-1)
	for c := n.firstChild; c < n.firstChild+n.children; c++ {
		child := &t.nodes[c]
		if s := u.evaluate(child.reward, float64(child.visits)); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best
}

// SelectCommand returns the most visited root command, preferring the later
// command in enumeration order on ties.
func (t *Tree) SelectCommand() game.Command {
	root := &t.nodes[rootIndex]
	best, most, bestOrder := game.EndTurn, -1, -1
	for c := root.firstChild; c < root.firstChild+root.children; c++ {
		child := &t.nodes[c]
		order := utils.FindIndex(t.commands, child.command)
		v := int(child.visits)
		if v > most || (v == most && order > bestOrder) {
			best, most, bestOrder = child.command, v, order
		}
	}
	return best
}

// Policy returns the root visit counts in enumeration order.
func (t *Tree) Policy() []Visit {
	root := &t.nodes[rootIndex]
	policy := make([]Visit, len(t.commands))
	for i, cmd := range t.commands {
		policy[i].Command = cmd
	}
	for c := root.firstChild; c < root.firstChild+root.children; c++ {
		child := &t.nodes[c]
		if i := utils.FindIndex(t.commands, child.command); i >= 0 {
			policy[i].Visits = int(child.visits)
		}
	}
	return policy
}

// RootValue is the mean reward of the most visited root child from the
// perspective of the player to move.
func (t *Tree) RootValue() float64 {
	root := &t.nodes[rootIndex]
	best, most := 0.0, uint32(0)
	for c := root.firstChild; c < root.firstChild+root.children; c++ {
		if child := &t.nodes[c]; child.visits >= most {
			best, most = child.mean(), child.visits
		}
	}
	return best
}

// Check verifies the arena's structural invariants.
func (t *Tree) Check() error {
	if len(t.nodes) < 2 || t.nodes[nullIndex] != (node{}) {
		return fmt.Errorf("null node was written")
	}
	for i := rootIndex; i < uint32(len(t.nodes)); i++ {
		n := &t.nodes[i]
		if n.kind == NodeNone {
			// Reserved slot not expanded yet.
			continue
		}
		if i != rootIndex && (n.parent == nullIndex || n.parent >= i) {
			return fmt.Errorf("node %d: bad parent %d", i, n.parent)
		}
		var sum uint32
		for c := n.firstChild; c < n.firstChild+n.children; c++ {
			child := &t.nodes[c]
			if child.parent != i {
				return fmt.Errorf("node %d: child %d points at parent %d", i, c, child.parent)
			}
			sum += child.visits
		}
		limit := n.visits
		if n.kind == NodeChance {
			// Both outcomes are scored once when the chance node is created.
			limit++
		}
		if sum > limit {
			return fmt.Errorf("node %d: children visited %d times, node only %d", i, sum, n.visits)
		}
		if n.kind == NodeChance {
			if n.children != 2 || n.command.Kind != game.CommandVolley {
				return fmt.Errorf("node %d: chance node with %d children", i, n.children)
			}
			p := 0.0
			for c := n.firstChild; c < n.firstChild+n.children; c++ {
				p += t.nodes[c].probability
			}
			if math.Abs(p-1) > 1e-9 {
				return fmt.Errorf("node %d: outcome probabilities sum to %f", i, p)
			}
		}
	}
	return nil
}
