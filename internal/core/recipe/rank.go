package recipe

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"product-finder/internal/pkg/common"
)

// SortMode 排序方式
type SortMode int

const (
	SortDefault SortMode = iota
	SortShortestFirst
	SortLongestFirst
	SortPriceLowToHigh
	SortPriceHighToLow
	SortCostLowToHigh
	SortCostHighToLow
)

var sortModeLabels = [...]string{
	SortDefault:        "Default",
	SortShortestFirst:  "Shortest First",
	SortLongestFirst:   "Longest First",
	SortPriceLowToHigh: "Price (Low to High)",
	SortPriceHighToLow: "Price (High to Low)",
	SortCostLowToHigh:  "Cost (Low to High)",
	SortCostHighToLow:  "Cost (High to Low)",
}

// 正規化後的別名
var sortModeAliases = map[string]SortMode{
	"":               SortDefault,
	"default":        SortDefault,
	"shortest":       SortShortestFirst,
	"shortestfirst":  SortShortestFirst,
	"longest":        SortLongestFirst,
	"longestfirst":   SortLongestFirst,
	"price":          SortPriceLowToHigh,
	"priceasc":       SortPriceLowToHigh,
	"pricelowtohigh": SortPriceLowToHigh,
	"pricedesc":      SortPriceHighToLow,
	"pricehightolow": SortPriceHighToLow,
	"cost":           SortCostLowToHigh,
	"costasc":        SortCostLowToHigh,
	"costlowtohigh":  SortCostLowToHigh,
	"costdesc":       SortCostHighToLow,
	"costhightolow":  SortCostHighToLow,
}

// SortModes 所有排序方式（顯示順序）
func SortModes() []SortMode {
	return []SortMode{
		SortDefault,
		SortShortestFirst,
		SortLongestFirst,
		SortPriceLowToHigh,
		SortPriceHighToLow,
		SortCostLowToHigh,
		SortCostHighToLow,
	}
}

func (m SortMode) String() string {
	if m < 0 || int(m) >= len(sortModeLabels) {
		return fmt.Sprintf("SortMode(%d)", int(m))
	}
	return sortModeLabels[m]
}

// ParseSortMode 接受介面上的標籤（"Price (Low to High)"）或簡寫（price-asc、shortest）
func ParseSortMode(s string) (SortMode, error) {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '(', ')':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))

	if m, ok := sortModeAliases[key]; ok {
		return m, nil
	}
	return SortDefault, common.Wrap(common.ErrInvalidSortMode, fmt.Errorf("unknown sort mode %q", s))
}

// MarshalText 以標籤輸出
func (m SortMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText 解析標籤或簡寫
func (m *SortMode) UnmarshalText(text []byte) error {
	mode, err := ParseSortMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

func (m SortMode) descending() bool {
	return m == SortLongestFirst || m == SortPriceHighToLow || m == SortCostHighToLow
}

// ChainLength 鏈中元素數量（不含基底與產物）
func ChainLength(chain string) int {
	parts, ok := ParseChain(chain)
	if !ok {
		return 0
	}
	return len(parts.Elements)
}

// ChainPrice 產物售價，未知為 0
func ChainPrice(chain string, prices PriceTable) int {
	parts, ok := ParseChain(chain)
	if !ok || prices == nil {
		return 0
	}
	p, _ := prices.Price(parts.Output)
	return p
}

// ChainCost 基底之後每個元素的成本總和，未知材料以 0 計
func ChainCost(chain string, prices PriceTable) int {
	parts, ok := ParseChain(chain)
	if !ok {
		return 0
	}
	total := 0
	for _, e := range parts.Elements {
		var c int
		if prices != nil {
			c, _ = prices.Cost(e)
		} else {
			c, _ = IngredientCost(e)
		}
		total += c
	}
	return total
}

func (m SortMode) key(chain string, prices PriceTable) int {
	switch m {
	case SortShortestFirst, SortLongestFirst:
		return ChainLength(chain)
	case SortPriceLowToHigh, SortPriceHighToLow:
		return ChainPrice(chain, prices)
	case SortCostLowToHigh, SortCostHighToLow:
		return ChainCost(chain, prices)
	}
	return 0
}

// Sort 依排序方式排列。Default 原樣回傳（含分隔用空字串）；
// 其他方式會先移除空字串，主鍵相同時依完整字串升冪排列
func Sort(chains []string, mode SortMode, prices PriceTable) []string {
	if mode == SortDefault {
		return slices.Clone(chains)
	}

	type keyed struct {
		key   int
		chain string
	}
	items := make([]keyed, 0, len(chains))
	for _, c := range chains {
		if c == "" {
			continue
		}
		items = append(items, keyed{key: mode.key(c, prices), chain: c})
	}

	desc := mode.descending()
	slices.SortStableFunc(items, func(a, b keyed) int {
		if c := cmp.Compare(a.key, b.key); c != 0 {
			if desc {
				return -c
			}
			return c
		}
		return strings.Compare(a.chain, b.chain)
	})

	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.chain
	}
	return out
}

// SortGroups 以空字串分段，各段獨立排序後依原本段落順序重新接合
func SortGroups(chains []string, mode SortMode, prices PriceTable) []string {
	if mode == SortDefault {
		return slices.Clone(chains)
	}

	var out []string
	for _, group := range splitGroups(chains) {
		if len(out) > 0 {
			out = append(out, "")
		}
		out = append(out, Sort(group, mode, prices)...)
	}
	return out
}

// splitGroups 依空字串分段，略過空段落
func splitGroups(chains []string) [][]string {
	var groups [][]string
	var current []string
	for _, c := range chains {
		if c == "" {
			if len(current) > 0 {
				groups = append(groups, current)
				current = nil
			}
			continue
		}
		current = append(current, c)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}
