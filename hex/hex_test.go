package hex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirections(t *testing.T) {
	t.Run("every direction is a valid unit step", func(t *testing.T) {
		for _, d := range Directions {
			require.True(t, d.Valid(), "direction %s should satisfy q+r+s=0", d)
			require.Equal(t, 1, d.Length())
		}
	})

	t.Run("opposite directions cancel out", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			require.Equal(t, Origin, Directions[i].Add(Directions[i+3]))
		}
	})
}

func TestDistance(t *testing.T) {
	cases := []struct {
		name string
		a, b Pos
		want int
	}{
		{"same cell", New(2, -1), New(2, -1), 0},
		{"neighbor", Origin, Right, 1},
		{"two steps on a line", Origin, Right.Scale(2), 2},
		{"opposite crowns", Pos{-4, 0, 4}, Pos{4, 0, -4}, 8},
		{"off axis", New(1, 1), New(-1, 0), 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, Distance(c.a, c.b))
			require.Equal(t, c.want, Distance(c.b, c.a))
		})
	}
}

func TestRange(t *testing.T) {
	t.Run("radius two holds eighteen cells", func(t *testing.T) {
		offsets := Range(2)
		require.Len(t, offsets, 18)
		for _, o := range offsets {
			require.True(t, o.Valid())
			require.NotEqual(t, Origin, o)
			require.LessOrEqual(t, o.Length(), 2)
		}
	})

	t.Run("radius one is the neighborhood", func(t *testing.T) {
		require.ElementsMatch(t, Origin.Neighbors(), Range(1))
	})
}

func TestOffsetConversion(t *testing.T) {
	t.Run("round trips every cell of a radius four map", func(t *testing.T) {
		for r := -4; r <= 4; r++ {
			for q := -4; q <= 4; q++ {
				p := New(q, r)
				if p.Length() > 4 {
					continue
				}
				require.Equal(t, p, FromOffset(p.ToOffset()))
			}
		}
	})

	t.Run("red crown sits at the left edge", func(t *testing.T) {
		require.Equal(t, Offset{X: -8, Y: 0}, Pos{-4, 0, 4}.ToOffset())
	})
}
