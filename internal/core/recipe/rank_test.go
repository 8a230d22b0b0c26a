package recipe

import (
	"errors"
	"testing"

	"product-finder/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankIndex() *Index {
	return NewIndex(nil, map[Ingredient]int{"b": 10, "c": 50})
}

var rankChains = []string{
	"a + cuke = b",           // 長度 1、售價 10、成本 2
	"a + donut + banana = c", // 長度 2、售價 50、成本 5
	"a + banana = b",         // 長度 1、售價 10、成本 2
	"a + mystery = zz",       // 長度 1、售價 0、成本 0
}

func TestSort_Modes(t *testing.T) {
	tests := []struct {
		mode SortMode
		want []string
	}{
		{
			mode: SortDefault,
			want: rankChains,
		},
		{
			mode: SortShortestFirst,
			want: []string{"a + banana = b", "a + cuke = b", "a + mystery = zz", "a + donut + banana = c"},
		},
		{
			mode: SortLongestFirst,
			want: []string{"a + donut + banana = c", "a + banana = b", "a + cuke = b", "a + mystery = zz"},
		},
		{
			mode: SortPriceLowToHigh,
			want: []string{"a + mystery = zz", "a + banana = b", "a + cuke = b", "a + donut + banana = c"},
		},
		{
			mode: SortPriceHighToLow,
			want: []string{"a + donut + banana = c", "a + banana = b", "a + cuke = b", "a + mystery = zz"},
		},
		{
			mode: SortCostLowToHigh,
			want: []string{"a + mystery = zz", "a + banana = b", "a + cuke = b", "a + donut + banana = c"},
		},
		{
			mode: SortCostHighToLow,
			want: []string{"a + donut + banana = c", "a + banana = b", "a + cuke = b", "a + mystery = zz"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			got := Sort(rankChains, tt.mode, rankIndex())
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Sort(got, tt.mode, rankIndex()), "sorting twice must be stable")
		})
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	in := []string{"b + x = c", "a + x = c"}
	_ = Sort(in, SortShortestFirst, nil)
	assert.Equal(t, []string{"b + x = c", "a + x = c"}, in)
}

func TestSort_SeparatorsHandling(t *testing.T) {
	in := []string{"a + cuke = b", "", "a + banana = b"}

	assert.Equal(t, in, Sort(in, SortDefault, nil))
	assert.Equal(t, []string{"a + banana = b", "a + cuke = b"}, Sort(in, SortShortestFirst, nil))
}

func TestSortGroups_KeepsBlockOrder(t *testing.T) {
	in := []string{
		"z + cuke + banana = b",
		"z + cuke = b",
		"",
		"a + donut + banana = c",
		"a + cuke = b",
	}

	got := SortGroups(in, SortShortestFirst, nil)

	assert.Equal(t, []string{
		"z + cuke = b",
		"z + cuke + banana = b",
		"",
		"a + cuke = b",
		"a + donut + banana = c",
	}, got)
	assert.Equal(t, in, SortGroups(in, SortDefault, nil))
}

func TestChainCost_NilPricesUsesStaticTable(t *testing.T) {
	assert.Equal(t, 5, ChainCost("a + donut + banana = c", nil))
	assert.Equal(t, 0, ChainCost("not a chain", nil))
	assert.Equal(t, 0, ChainPrice("a + cuke = b", nil))
	assert.Equal(t, 2, ChainLength("a + donut + banana = c"))
}

func TestParseSortMode(t *testing.T) {
	tests := []struct {
		in   string
		want SortMode
	}{
		{"", SortDefault},
		{"Default", SortDefault},
		{"Shortest First", SortShortestFirst},
		{"shortest_first", SortShortestFirst},
		{"longest", SortLongestFirst},
		{"Price (Low to High)", SortPriceLowToHigh},
		{"price-asc", SortPriceLowToHigh},
		{"price-desc", SortPriceHighToLow},
		{"Cost (High to Low)", SortCostHighToLow},
		{"cost", SortCostLowToHigh},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSortMode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseSortMode("alphabetical")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidSortMode))
}

func TestSortMode_LabelsRoundTrip(t *testing.T) {
	for _, m := range SortModes() {
		text, err := m.MarshalText()
		require.NoError(t, err)

		var back SortMode
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, m, back)
	}
	assert.Equal(t, "SortMode(42)", SortMode(42).String())
}
