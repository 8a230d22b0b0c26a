package recipe

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(recipes ...Recipe) *Index {
	return NewIndex(recipes, nil)
}

func formatted(t *testing.T, base Ingredient, chains []Chain) []string {
	t.Helper()
	out := make([]string, 0, len(chains))
	for _, c := range chains {
		s, ok := FormatChain(base, c)
		require.True(t, ok)
		out = append(out, s)
	}
	return out
}

func TestEnumerate_EmitsEveryPrefix(t *testing.T) {
	idx := newTestIndex(
		Recipe{Product: "a", Mixer: "x", Output: "b"},
		Recipe{Product: "b", Mixer: "y", Output: "c"},
	)

	chains := Enumerate(idx, "a", 0)

	assert.Equal(t, []string{"a + x = b", "a + x + y = c"}, formatted(t, "a", chains))
}

func TestEnumerate_MatchesMixerRole(t *testing.T) {
	idx := newTestIndex(Recipe{Product: "x", Mixer: "a", Output: "b"})

	chains := Enumerate(idx, "a", 0)

	require.Len(t, chains, 1)
	assert.Equal(t, RoleMixer, chains[0][0].Role)
	assert.Equal(t, Ingredient("x"), chains[0][0].Other())
	assert.Equal(t, []string{"a + x = b"}, formatted(t, "a", chains))
}

func TestEnumerate_StopsAtVisitedIngredient(t *testing.T) {
	idx := newTestIndex(
		Recipe{Product: "a", Mixer: "x", Output: "b"},
		Recipe{Product: "b", Mixer: "y", Output: "a"},
	)

	chains := Enumerate(idx, "a", 0)

	// 回到 a 的鏈本身會產生，但不會再從 a 繼續
	assert.Equal(t, []string{"a + x = b", "a + x + y = a"}, formatted(t, "a", chains))
}

func TestEnumerate_SiblingBranchesDoNotShareVisited(t *testing.T) {
	idx := newTestIndex(
		Recipe{Product: "a", Mixer: "x", Output: "b"},
		Recipe{Product: "a", Mixer: "y", Output: "c"},
		Recipe{Product: "b", Mixer: "z", Output: "c"},
		Recipe{Product: "c", Mixer: "w", Output: "d"},
	)

	chains := Enumerate(idx, "a", 0)

	assert.Equal(t, []string{
		"a + x = b",
		"a + x + z = c",
		"a + x + z + w = d",
		"a + y = c",
		"a + y + w = d",
	}, formatted(t, "a", chains))
}

func TestEnumerate_ProductEqualsMixerYieldsTwoResults(t *testing.T) {
	idx := newTestIndex(Recipe{Product: "a", Mixer: "a", Output: "b"})

	chains := Enumerate(idx, "a", 0)

	require.Len(t, chains, 2)
	assert.Equal(t, RoleProduct, chains[0][0].Role)
	assert.Equal(t, RoleMixer, chains[1][0].Role)
	assert.Equal(t, []string{"a + a = b"}, Format("a", chains))
}

func linearIndex(n int) *Index {
	recipes := make([]Recipe, 0, n)
	for i := 0; i < n; i++ {
		recipes = append(recipes, Recipe{
			Product: Ingredient(fmt.Sprintf("i%d", i)),
			Mixer:   "m",
			Output:  Ingredient(fmt.Sprintf("i%d", i+1)),
		})
	}
	return newTestIndex(recipes...)
}

func TestEnumerate_DepthBound(t *testing.T) {
	idx := linearIndex(20)

	tests := []struct {
		name     string
		maxDepth int
		want     int
	}{
		{name: "default", maxDepth: 0, want: DefaultMaxDepth},
		{name: "negative uses default", maxDepth: -3, want: DefaultMaxDepth},
		{name: "explicit", maxDepth: 4, want: 4},
		{name: "one", maxDepth: 1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chains := Enumerate(idx, "i0", tt.maxDepth)
			require.Len(t, chains, tt.want)
			for _, c := range chains {
				assert.LessOrEqual(t, len(c), tt.want)
			}
			assert.Len(t, chains[len(chains)-1], tt.want)
		})
	}
}

func TestEnumerate_ChainsAreConnected(t *testing.T) {
	idx := newTestIndex(
		Recipe{Product: "a", Mixer: "x", Output: "b"},
		Recipe{Product: "y", Mixer: "b", Output: "c"},
		Recipe{Product: "c", Mixer: "c", Output: "a"},
		Recipe{Product: "b", Mixer: "a", Output: "d"},
	)

	for _, chain := range Enumerate(idx, "a", 0) {
		current := Ingredient("a")
		seen := map[Ingredient]bool{}
		for _, step := range chain {
			assert.Equal(t, current, step.Current())
			assert.False(t, seen[current], "%s revisited", current)
			seen[current] = true
			current = step.Recipe.Output
		}
		s, ok := FormatChain("a", chain)
		require.True(t, ok)
		assert.True(t, strings.HasPrefix(s, "a + "))
		assert.True(t, strings.HasSuffix(s, " = "+string(chain.Output())))
	}
}

func TestEnumerate_UnknownBaseOrNilIndex(t *testing.T) {
	idx := newTestIndex(Recipe{Product: "a", Mixer: "x", Output: "b"})

	assert.Empty(t, Enumerate(idx, "nothing", 0))
	assert.Empty(t, Enumerate(nil, "a", 0))
}

func TestEnumerate_CountsCalls(t *testing.T) {
	idx := newTestIndex(
		Recipe{Product: "a", Mixer: "x", Output: "b"},
		Recipe{Product: "b", Mixer: "y", Output: "c"},
	)

	chains, calls := enumerate(idx, "a", 0)

	assert.Len(t, chains, 2)
	assert.Equal(t, 3, calls)
}
