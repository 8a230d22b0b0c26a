package chain

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"product-finder/internal/core/recipe"
	"product-finder/internal/infrastructure/config"
	"product-finder/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoadRecipesRequest 載入配方檔，path 與 url 擇一
type LoadRecipesRequest struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// LoadPropertiesRequest 載入屬性目錄
type LoadPropertiesRequest struct {
	Dir string `json:"dir" binding:"required"`
}

// SortRequest 重新排序既有結果
type SortRequest struct {
	Base   string   `json:"base"`
	Chains []string `json:"chains"`
	Sort   string   `json:"sort"`
}

// ExportRequest 搜尋後匯出為文字
type ExportRequest struct {
	Base  string `json:"base" binding:"required"`
	Sort  string `json:"sort"`
	Depth int    `json:"depth"`
}

// ChainsResponse 搜尋或排序的結果
type ChainsResponse struct {
	Base   string          `json:"base"`
	Header string          `json:"header"`
	Sort   recipe.SortMode `json:"sort"`
	Count  int             `json:"count"`
	Empty  bool            `json:"empty"`
	Chains []string        `json:"chains"`
	Lines  []recipe.Line   `json:"lines"`
}

// PropertiesResponse 材料屬性
type PropertiesResponse struct {
	Ingredient string   `json:"ingredient"`
	Properties []string `json:"properties"`
}

// ImportResponse 匯入結果
type ImportResponse struct {
	Chains int           `json:"chains"`
	Lines  []recipe.Line `json:"lines"`
}

// Handler 配方鏈處理程序
type Handler struct {
	session *recipe.Session
	debug   bool
}

// NewHandler 創建新的配方鏈處理程序
func NewHandler(session *recipe.Session, cfg *config.Config) *Handler {
	return &Handler{
		session: session,
		debug:   cfg.App.Debug,
	}
}

// fail 依錯誤類型回傳狀態碼與 {code, message}
func (h *Handler) fail(c *gin.Context, err error) {
	status, resp := common.ErrorStatus(err, h.debug)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

func (h *Handler) respond(c *gin.Context, result *recipe.Result) {
	chains := result.Chains
	if chains == nil {
		chains = []string{}
	}
	count := 0
	for _, ch := range chains {
		if ch != "" {
			count++
		}
	}
	c.JSON(http.StatusOK, ChainsResponse{
		Base:   string(result.Base),
		Header: result.Header,
		Sort:   result.Sort,
		Count:  count,
		Empty:  result.Empty(),
		Chains: chains,
		Lines:  h.session.Lines(result),
	})
}

func parseDepth(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	depth, err := strconv.Atoi(s)
	if err != nil || depth < 0 {
		return 0, common.Wrap(common.ErrInvalidRequest, fmt.Errorf("invalid depth %q", s))
	}
	return depth, nil
}

// HandleLoadRecipes 載入配方檔或遠端配方
func (h *Handler) HandleLoadRecipes(c *gin.Context) {
	var req LoadRecipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, common.Wrap(common.ErrInvalidRequest, err))
		return
	}

	var (
		stats recipe.LoadStats
		err   error
	)
	switch {
	case req.URL != "" && req.Path != "":
		h.fail(c, common.Wrap(common.ErrInvalidRequest, fmt.Errorf("path and url are mutually exclusive")))
		return
	case req.URL != "":
		stats, err = h.session.LoadURL(c.Request.Context(), req.URL)
	case req.Path != "":
		stats, err = h.session.Load(c.Request.Context(), req.Path)
	default:
		h.fail(c, common.Wrap(common.ErrInvalidRequest, fmt.Errorf("path or url is required")))
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":       stats,
		"fingerprint": h.session.Index().Fingerprint(),
	})
}

// HandleLoadProperties 載入屬性目錄
func (h *Handler) HandleLoadProperties(c *gin.Context) {
	var req LoadPropertiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, common.Wrap(common.ErrInvalidRequest, err))
		return
	}

	n, err := h.session.LoadProperties(req.Dir, true)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dir": req.Dir, "count": n})
}

// HandleGetProperties 查詢單一材料的屬性
func (h *Handler) HandleGetProperties(c *gin.Context) {
	ing := c.Param("ingredient")
	props, ok := h.session.Properties(recipe.Ingredient(ing))
	if !ok {
		h.fail(c, common.Wrap(common.ErrUnknownIngredient, fmt.Errorf("no properties for %q", ing)))
		return
	}
	c.JSON(http.StatusOK, PropertiesResponse{Ingredient: ing, Properties: props})
}

// HandleGetChains 搜尋配方鏈
func (h *Handler) HandleGetChains(c *gin.Context) {
	base := strings.TrimSpace(c.Query("base"))
	if base == "" {
		h.fail(c, common.Wrap(common.ErrInvalidRequest, fmt.Errorf("base is required")))
		return
	}
	mode, err := recipe.ParseSortMode(c.Query("sort"))
	if err != nil {
		h.fail(c, err)
		return
	}
	depth, err := parseDepth(c.Query("depth"))
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.session.FindDepth(c.Request.Context(), recipe.Ingredient(base), mode, depth)
	if err != nil {
		h.fail(c, err)
		return
	}

	common.LogDebug("配方鏈查詢",
		zap.String("request_id", requestid.Get(c)),
		zap.String("base", base),
		zap.Stringer("sort", mode),
		zap.Int("chains", len(result.Chains)),
	)
	h.respond(c, result)
}

// HandleSortChains 以新的排序方式重排呼叫端持有的結果
func (h *Handler) HandleSortChains(c *gin.Context) {
	var req SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, common.Wrap(common.ErrInvalidRequest, err))
		return
	}
	mode, err := recipe.ParseSortMode(req.Sort)
	if err != nil {
		h.fail(c, err)
		return
	}

	base := recipe.Ingredient(req.Base)
	if base == "" {
		base = inferBase(req.Chains)
	}
	result := h.session.Resort(&recipe.Result{
		Base:     base,
		Header:   recipe.HeaderFor(base),
		Unsorted: req.Chains,
	}, mode)
	h.respond(c, result)
}

// inferBase 有分隔時視為 ALL，否則取第一條鏈的基底
func inferBase(chains []string) recipe.Ingredient {
	var first recipe.Ingredient
	for _, ch := range chains {
		if ch == "" {
			return recipe.AllProducts
		}
		if first == "" {
			if parts, ok := recipe.ParseChain(ch); ok {
				first = parts.Base
			}
		}
	}
	if first == "" {
		return recipe.AllProducts
	}
	return first
}

// HandleExport 搜尋並以文字格式匯出
func (h *Handler) HandleExport(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, common.Wrap(common.ErrInvalidRequest, err))
		return
	}
	mode, err := recipe.ParseSortMode(req.Sort)
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.session.FindDepth(c.Request.Context(), recipe.Ingredient(req.Base), mode, req.Depth)
	if err != nil {
		h.fail(c, err)
		return
	}
	text, err := h.session.ExportText(result)
	if err != nil {
		h.fail(c, err)
		return
	}

	filename := fmt.Sprintf("chains_%s.txt", req.Base)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// HandleImport 解析先前匯出的文字
func (h *Handler) HandleImport(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.fail(c, common.Wrap(common.ErrImportSource, err))
		return
	}

	lines := recipe.ImportText(string(body))
	if lines == nil {
		lines = []recipe.Line{}
	}
	chains := 0
	for _, l := range lines {
		if l.Kind == recipe.LineChain {
			chains++
		}
	}
	c.JSON(http.StatusOK, ImportResponse{Chains: chains, Lines: lines})
}

// HandleBases 設定中的基底產品
func (h *Handler) HandleBases(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"bases": h.session.Bases()})
}

// HandleSortModes 所有排序方式
func (h *Handler) HandleSortModes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"modes": recipe.SortModes()})
}
