package recipe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"product-finder/internal/infrastructure/config"
	"product-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// ChainCache 格式化結果的快取
type ChainCache interface {
	Get(ctx context.Context, key string) ([]string, bool)
	Set(ctx context.Context, key string, chains []string) error
}

// Result 一次搜尋的結果
type Result struct {
	Base     Ingredient `json:"base"`
	Header   string     `json:"header"`
	Sort     SortMode   `json:"sort"`
	Chains   []string   `json:"chains"`
	Unsorted []string   `json:"-"`
}

// Empty 是否沒有找到任何配方鏈
func (r *Result) Empty() bool {
	if r == nil {
		return true
	}
	for _, c := range r.Chains {
		if c != "" {
			return false
		}
	}
	return true
}

// Session 持有目前載入的配方索引與屬性，所有搜尋、排序、匯出都經由它進行
type Session struct {
	config  *config.Config
	cache   ChainCache
	fetcher *Fetcher

	mu    sync.RWMutex
	index *Index
	props map[Ingredient][]string
}

// NewSession 創建新的 Session，cache 可為 nil
func NewSession(cfg *config.Config, cache ChainCache) *Session {
	return &Session{
		config:  cfg,
		cache:   cache,
		fetcher: NewFetcher(cfg),
		props:   map[Ingredient][]string{},
	}
}

// Index 目前的配方索引，尚未載入時為 nil
func (s *Session) Index() *Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Loaded 是否已載入配方
func (s *Session) Loaded() bool {
	return s.Index() != nil
}

// Bases 設定中的基底產品（含 ALL）
func (s *Session) Bases() []Ingredient {
	return Ingredients(s.config.Finder.BaseProducts)
}

// swap 以新索引取代舊的，沿用已載入的屬性
func (s *Session) swap(idx *Index) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = idx.WithProperties(s.props)
}

// Load 從檔案載入配方，失敗時保留原本的索引
func (s *Session) Load(ctx context.Context, path string) (LoadStats, error) {
	idx, stats, err := LoadFile(path)
	if err != nil {
		common.LogError("配方檔載入失敗",
			zap.String("path", path),
			zap.Error(err),
		)
		return stats, err
	}
	s.swap(idx)

	common.LogInfo("配方檔已載入",
		zap.String("path", path),
		zap.Int("recipes", stats.Recipes),
		zap.Int("prices", stats.Prices),
		zap.Int("skipped", stats.SkippedRecipes+stats.SkippedPrices),
		zap.String("fingerprint", idx.Fingerprint()),
	)
	return stats, nil
}

// LoadURL 從遠端載入配方，失敗時保留原本的索引
func (s *Session) LoadURL(ctx context.Context, url string) (LoadStats, error) {
	idx, stats, err := s.fetcher.Load(ctx, url)
	if err != nil {
		common.LogError("遠端配方載入失敗",
			zap.String("url", url),
			zap.Error(err),
		)
		return stats, err
	}
	s.swap(idx)

	common.LogInfo("遠端配方已載入",
		zap.String("url", url),
		zap.Int("recipes", stats.Recipes),
		zap.Int("prices", stats.Prices),
	)
	return stats, nil
}

// LoadProperties 載入屬性目錄。explicit 為 false 時（啟動時自動載入）
// 失敗只記錄警告不回傳錯誤
func (s *Session) LoadProperties(dir string, explicit bool) (int, error) {
	props, err := LoadProperties(dir)
	if err != nil {
		if !explicit {
			common.LogWarn("略過屬性目錄",
				zap.String("dir", dir),
				zap.Error(err),
			)
			return 0, nil
		}
		return 0, err
	}

	s.mu.Lock()
	s.props = props
	if s.index != nil {
		s.index = s.index.WithProperties(props)
	}
	s.mu.Unlock()

	common.LogInfo("屬性已載入",
		zap.String("dir", dir),
		zap.Int("count", len(props)),
	)
	return len(props), nil
}

// Properties 查詢材料屬性
func (s *Session) Properties(ing Ingredient) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.props[ing]
	if !ok {
		return nil, false
	}
	return slices.Clone(p), true
}

// ensureIndex 尚未載入時先嘗試預設檔案，仍失敗則回傳 MissingData
func (s *Session) ensureIndex(ctx context.Context) (*Index, error) {
	if idx := s.Index(); idx != nil {
		return idx, nil
	}

	fallback := s.config.Finder.FallbackFile
	if fallback == "" {
		return nil, common.ErrMissingData
	}
	common.LogInfo("尚未載入配方，嘗試預設檔案", zap.String("path", fallback))
	if _, err := s.Load(ctx, fallback); err != nil {
		return nil, common.Wrap(common.ErrMissingData, err)
	}
	return s.Index(), nil
}

func (s *Session) depth(maxDepth int) int {
	if maxDepth > 0 {
		return maxDepth
	}
	if s.config.Finder.MaxDepth > 0 {
		return s.config.Finder.MaxDepth
	}
	return DefaultMaxDepth
}

func cacheKey(idx *Index, base Ingredient, depth int) string {
	return fmt.Sprintf("chains:%s:%s:%d", idx.Fingerprint(), base, depth)
}

// BuildChains 搜尋並格式化單一基底的配方鏈
func (s *Session) BuildChains(ctx context.Context, base Ingredient, maxDepth int) ([]string, error) {
	idx, err := s.ensureIndex(ctx)
	if err != nil {
		return nil, err
	}
	return s.buildChains(ctx, idx, base, s.depth(maxDepth)), nil
}

func (s *Session) buildChains(ctx context.Context, idx *Index, base Ingredient, depth int) []string {
	key := cacheKey(idx, base, depth)
	if s.cache != nil {
		if chains, ok := s.cache.Get(ctx, key); ok {
			return chains
		}
	}

	start := time.Now()
	raw, _ := enumerate(idx, base, depth)
	chains := Format(base, raw)
	common.LogSearch(string(base), depth, len(raw), len(chains), time.Since(start))

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, chains); err != nil {
			common.LogWarn("配方鏈快取寫入失敗",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
	return chains
}

// BuildAllChains 依序搜尋每個基底產品（ALL 除外），非空的群組以空字串分隔
func (s *Session) BuildAllChains(ctx context.Context) ([]string, error) {
	idx, err := s.ensureIndex(ctx)
	if err != nil {
		return nil, err
	}

	depth := s.depth(0)
	var all []string
	for _, base := range s.Bases() {
		if base == AllProducts {
			continue
		}
		chains := s.buildChains(ctx, idx, base, depth)
		if len(chains) == 0 {
			continue
		}
		if len(all) > 0 {
			all = append(all, "")
		}
		all = append(all, chains...)
	}
	return all, nil
}

// Find 搜尋並排序；ALL 會搜尋全部基底產品。沒有結果不是錯誤，以 Result.Empty 判斷
func (s *Session) Find(ctx context.Context, base Ingredient, mode SortMode) (*Result, error) {
	return s.FindDepth(ctx, base, mode, 0)
}

// FindDepth 同 Find，可指定搜尋深度（ALL 一律使用設定值）
func (s *Session) FindDepth(ctx context.Context, base Ingredient, mode SortMode, maxDepth int) (*Result, error) {
	var (
		chains []string
		err    error
	)
	if base == AllProducts {
		chains, err = s.BuildAllChains(ctx)
	} else {
		chains, err = s.BuildChains(ctx, base, maxDepth)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{
		Base:     base,
		Header:   HeaderFor(base),
		Unsorted: chains,
	}
	return s.Resort(result, mode), nil
}

// Resort 以新的排序方式重排，原結果不變
func (s *Session) Resort(result *Result, mode SortMode) *Result {
	return &Result{
		Base:     result.Base,
		Header:   result.Header,
		Sort:     mode,
		Chains:   SortGroups(result.Unsorted, mode, s.Index()),
		Unsorted: result.Unsorted,
	}
}

// Lines 將結果轉為帶樣式的顯示行
func (s *Session) Lines(result *Result) []Line {
	return DisplayLines(result.Header, result.Chains, s.Index())
}

// ExportText 產生匯出文字
func (s *Session) ExportText(result *Result) (string, error) {
	if result.Empty() {
		return "", common.ErrNothingToExport
	}
	return ExportText(result.Header, result.Chains, s.Index()), nil
}

// ExportFile 匯出到檔案；先寫入同目錄的暫存檔再改名，失敗時不留下檔案
func (s *Session) ExportFile(result *Result, path string) error {
	text, err := s.ExportText(result)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*.tmp")
	if err != nil {
		return common.Wrap(common.ErrExportTarget, fmt.Errorf("create temp file: %w", err))
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return common.Wrap(common.ErrExportTarget, fmt.Errorf("write export: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return common.Wrap(common.ErrExportTarget, fmt.Errorf("close export: %w", err))
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return common.Wrap(common.ErrExportTarget, fmt.Errorf("rename export: %w", err))
	}

	common.LogInfo("結果已匯出",
		zap.String("path", path),
		zap.Int("chains", len(result.Chains)),
	)
	return nil
}

// ImportFile 讀取先前匯出的檔案並解析為顯示行
func (s *Session) ImportFile(path string) ([]Line, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.Wrap(common.ErrImportSource, fmt.Errorf("read import file: %w", err))
	}
	return ImportText(string(data)), nil
}
