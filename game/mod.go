// Package game implements the Tazar rules: the board, the turn and activation
// state machine, legal command enumeration and reversible command application.
package game

import "errors"

// Mode selects a rule set. Only attrition is playable.
type Mode uint8

const (
	ModeNone Mode = iota
	ModeAttrition
)

// Map selects a starting layout.
type Map uint8

const (
	MapNone Map = iota
	MapHexFieldSmall
)

type Status uint8

const (
	StatusNone Status = iota
	StatusInProgress
	StatusOver
)

var (
	ErrUnsupportedMode = errors.New("unsupported game mode")
	ErrUnsupportedMap  = errors.New("unsupported map")
)

// Evaluate scores a game between -1 and 1 from Red's perspective, where 1 is a
// won game for Red.
type Evaluate func(*Game) float64

func (m Mode) String() string {
	switch m {
	case ModeAttrition:
		return "attrition"
	default:
		return "none"
	}
}

func (m Map) String() string {
	switch m {
	case MapHexFieldSmall:
		return "hex-field-small"
	default:
		return "none"
	}
}

func (s Status) String() string {
	switch s {
	case StatusInProgress:
		return "in-progress"
	case StatusOver:
		return "over"
	default:
		return "none"
	}
}
