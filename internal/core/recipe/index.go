package recipe

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"sort"
	"strconv"
)

// ingredientCosts 原料成本參考表，不來自配方檔
var ingredientCosts = map[Ingredient]int{
	"cuke":        2,
	"banana":      2,
	"paracetamol": 3,
	"donut":       3,
	"viagra":      4,
	"mouthwash":   4,
	"flumedicine": 5,
	"gasoline":    5,
	"energydrink": 6,
	"motoroil":    6,
	"megabean":    7,
	"chili":       7,
	"battery":     8,
	"iodine":      8,
	"addy":        9,
	"horsesemen":  9,
}

// IngredientCost 查詢原料成本
func IngredientCost(ing Ingredient) (int, bool) {
	c, ok := ingredientCosts[ing]
	return c, ok
}

// CostTable 回傳成本表的副本
func CostTable() map[Ingredient]int {
	out := make(map[Ingredient]int, len(ingredientCosts))
	for k, v := range ingredientCosts {
		out[k] = v
	}
	return out
}

// PriceTable 排序與匯出所需的價格與成本查詢
type PriceTable interface {
	Price(ing Ingredient) (int, bool)
	Cost(ing Ingredient) (int, bool)
}

// Catalog 顯示結果時額外需要的屬性查詢
type Catalog interface {
	PriceTable
	HasProperties(ing Ingredient) bool
}

// Index 載入後唯讀的配方索引
type Index struct {
	recipes     []Recipe
	prices      map[Ingredient]int
	properties  map[Ingredient][]string
	fingerprint string
}

// NewIndex 建立配方索引，輸入會被複製
func NewIndex(recipes []Recipe, prices map[Ingredient]int) *Index {
	idx := &Index{
		recipes:    slices.Clone(recipes),
		prices:     make(map[Ingredient]int, len(prices)),
		properties: map[Ingredient][]string{},
	}
	for k, v := range prices {
		idx.prices[k] = v
	}
	idx.fingerprint = fingerprint(idx.recipes, idx.prices)
	return idx
}

// WithProperties 回傳附帶屬性表的新索引，原索引不變
func (i *Index) WithProperties(props map[Ingredient][]string) *Index {
	next := &Index{
		recipes:     i.recipes,
		prices:      i.prices,
		properties:  make(map[Ingredient][]string, len(props)),
		fingerprint: i.fingerprint,
	}
	for k, v := range props {
		next.properties[k] = slices.Clone(v)
	}
	return next
}

// Recipes 回傳配方副本（保持檔案順序）
func (i *Index) Recipes() []Recipe {
	return slices.Clone(i.recipes)
}

// Len 配方數量
func (i *Index) Len() int {
	return len(i.recipes)
}

// PriceCount 已知售價的數量
func (i *Index) PriceCount() int {
	return len(i.prices)
}

// Price 查詢售價，未知時 ok 為 false
func (i *Index) Price(ing Ingredient) (int, bool) {
	if i == nil {
		return 0, false
	}
	p, ok := i.prices[ing]
	return p, ok
}

// Cost 查詢原料成本
func (i *Index) Cost(ing Ingredient) (int, bool) {
	return IngredientCost(ing)
}

// Properties 查詢材料屬性
func (i *Index) Properties(ing Ingredient) ([]string, bool) {
	if i == nil {
		return nil, false
	}
	p, ok := i.properties[ing]
	if !ok {
		return nil, false
	}
	return slices.Clone(p), true
}

// HasProperties 是否有此材料的屬性資料
func (i *Index) HasProperties(ing Ingredient) bool {
	if i == nil {
		return false
	}
	_, ok := i.properties[ing]
	return ok
}

// Fingerprint 配方與價格內容的雜湊，供快取鍵使用
func (i *Index) Fingerprint() string {
	return i.fingerprint
}

// Outputs 所有出現在配方產出的材料（排序後）
func (i *Index) Outputs() []Ingredient {
	seen := map[Ingredient]bool{}
	var out []Ingredient
	for _, r := range i.recipes {
		if !seen[r.Output] {
			seen[r.Output] = true
			out = append(out, r.Output)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

func fingerprint(recipes []Recipe, prices map[Ingredient]int) string {
	h := sha256.New()
	for _, r := range recipes {
		h.Write([]byte(r.Product))
		h.Write([]byte{0})
		h.Write([]byte(r.Mixer))
		h.Write([]byte{0})
		h.Write([]byte(r.Output))
		h.Write([]byte{1})
	}
	names := make([]string, 0, len(prices))
	for k := range prices {
		names = append(names, string(k))
	}
	sort.Strings(names)
	for _, n := range names {
		h.Write([]byte(n))
		h.Write([]byte{0})
		h.Write([]byte(strconv.Itoa(prices[Ingredient(n)])))
		h.Write([]byte{1})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
