package recipe

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"product-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// LoadStats 載入統計
type LoadStats struct {
	Source         string `json:"source"`
	Recipes        int    `json:"recipes"`
	Prices         int    `json:"prices"`
	SkippedRecipes int    `json:"skipped_recipes"`
	SkippedPrices  int    `json:"skipped_prices"`
}

// payload 配方檔頂層結構，缺少的鍵視為空表
type payload struct {
	MixRecipes    []common.RawMessage `json:"MixRecipes"`
	ProductPrices []common.RawMessage `json:"ProductPrices"`
}

type priceEntry struct {
	String string `json:"String"`
	Int    *int   `json:"Int"`
}

// ParsePayload 解析配方檔內容；單筆格式錯誤會被略過，整體無法解析才回傳錯誤
func ParsePayload(data []byte) (*Index, LoadStats, error) {
	var stats LoadStats

	var p payload
	if err := common.ParseJSONBytes(data, &p); err != nil {
		return nil, stats, common.Wrap(common.ErrLoadFailure, fmt.Errorf("parse recipe payload: %w", err))
	}

	recipes := make([]Recipe, 0, len(p.MixRecipes))
	for i, raw := range p.MixRecipes {
		var r Recipe
		if err := common.UnmarshalJSON(raw, &r); err != nil || r.Product == "" || r.Mixer == "" || r.Output == "" {
			stats.SkippedRecipes++
			common.LogWarn("略過格式錯誤的配方",
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		recipes = append(recipes, r)
	}

	prices := make(map[Ingredient]int, len(p.ProductPrices))
	for i, raw := range p.ProductPrices {
		var e priceEntry
		if err := common.UnmarshalJSON(raw, &e); err != nil || e.String == "" || e.Int == nil {
			stats.SkippedPrices++
			common.LogWarn("略過格式錯誤的價格",
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		// 重複名稱以後出現者為準
		prices[Ingredient(e.String)] = *e.Int
	}

	stats.Recipes = len(recipes)
	stats.Prices = len(prices)
	return NewIndex(recipes, prices), stats, nil
}

// LoadFile 讀取並解析配方檔
func LoadFile(path string) (*Index, LoadStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, LoadStats{Source: path}, common.Wrap(common.ErrLoadFailure, fmt.Errorf("read recipe file: %w", err))
	}
	idx, stats, err := ParsePayload(data)
	stats.Source = path
	return idx, stats, err
}

// propertiesFile 屬性檔結構
type propertiesFile struct {
	Properties *[]string `json:"Properties"`
}

// LoadProperties 讀取目錄下每個 JSON 屬性檔，檔名（不含副檔名）即材料名稱；
// 無法解析或沒有 Properties 鍵的檔案會被略過
func LoadProperties(dir string) (map[Ingredient][]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, common.Wrap(common.ErrLoadFailure, fmt.Errorf("read properties dir: %w", err))
	}

	props := make(map[Ingredient][]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		var f propertiesFile
		if err := common.ParseJSONBytes(data, &f); err != nil || f.Properties == nil {
			continue
		}
		props[Ingredient(strings.TrimSuffix(name, ".json"))] = *f.Properties
	}
	return props, nil
}
