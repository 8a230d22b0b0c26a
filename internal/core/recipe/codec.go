package recipe

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// HeaderAll 全部基底產品的標題
	HeaderAll = "Chains for all products:"
	// NoChainsFound 沒有結果時顯示的文字
	NoChainsFound = "No chains found"

	annotationSep = " ---- "
	priceCostSep  = " | "
	pricePrefix   = "Sell Price:"
	costPrefix    = "Cost:"
)

// HeaderFor 依基底產品產生標題
func HeaderFor(base Ingredient) string {
	if base == AllProducts {
		return HeaderAll
	}
	return fmt.Sprintf("Chains starting from %s:", base)
}

// LineKind 文字行的種類
type LineKind int

const (
	LineBlank LineKind = iota
	LineHeader
	LineText
	LineChain
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineHeader:
		return "header"
	case LineChain:
		return "chain"
	}
	return "text"
}

// MarshalText JSON 輸出時使用名稱
func (k LineKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Style 片段的顯示樣式
type Style int

const (
	StylePlain Style = iota
	StylePlus
	StyleEquals
	StylePrice
	StyleCost
	StyleClickable
)

func (s Style) String() string {
	switch s {
	case StylePlus:
		return "plus"
	case StyleEquals:
		return "equals"
	case StylePrice:
		return "price"
	case StyleCost:
		return "cost"
	case StyleClickable:
		return "clickable"
	}
	return "plain"
}

// MarshalText JSON 輸出時使用名稱
func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Segment 帶樣式的文字片段
type Segment struct {
	Text  string `json:"text"`
	Style Style  `json:"style"`
}

// Line 解析或產生的一行結果。Chain 類型的行會填入結構欄位，
// 但不會還原出配方步驟
type Line struct {
	Kind      LineKind     `json:"kind"`
	Raw       string       `json:"raw"`
	Base      Ingredient   `json:"base,omitempty"`
	Elements  []Ingredient `json:"elements,omitempty"`
	Output    Ingredient   `json:"output,omitempty"`
	PriceText string       `json:"price_text,omitempty"`
	CostText  string       `json:"cost_text,omitempty"`
	Price     *int         `json:"price,omitempty"`
	Cost      *int         `json:"cost,omitempty"`
	Segments  []Segment    `json:"segments"`
}

// Text 將片段接回完整文字
func (l Line) Text() string {
	var sb strings.Builder
	for _, seg := range l.Segments {
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

// Chain 取回格式化字串（不含價格註記）
func (l Line) Chain() string {
	if l.Kind != LineChain {
		return ""
	}
	return ChainParts{Base: l.Base, Elements: l.Elements, Output: l.Output}.String()
}

func plainLine(kind LineKind, text string) Line {
	l := Line{Kind: kind, Raw: text}
	if text != "" {
		l.Segments = []Segment{{Text: text, Style: StylePlain}}
	}
	return l
}

// chainLine 組出鏈的片段：+ 與 = 著色、產物可點擊、價格與成本分別著色
func chainLine(parts ChainParts, priceText, costText string, clickable bool) Line {
	l := Line{
		Kind:      LineChain,
		Base:      parts.Base,
		Elements:  parts.Elements,
		Output:    parts.Output,
		PriceText: priceText,
		CostText:  costText,
		Price:     parseAnnotation(priceText, pricePrefix),
		Cost:      parseAnnotation(costText, costPrefix),
	}

	segs := []Segment{{Text: string(parts.Base), Style: StylePlain}}
	for _, e := range parts.Elements {
		segs = append(segs,
			Segment{Text: " ", Style: StylePlain},
			Segment{Text: "+", Style: StylePlus},
			Segment{Text: " " + string(e), Style: StylePlain},
		)
	}
	outputStyle := StylePlain
	if clickable {
		outputStyle = StyleClickable
	}
	segs = append(segs,
		Segment{Text: " ", Style: StylePlain},
		Segment{Text: "=", Style: StyleEquals},
		Segment{Text: " ", Style: StylePlain},
		Segment{Text: string(parts.Output), Style: outputStyle},
	)
	if priceText != "" {
		segs = append(segs,
			Segment{Text: annotationSep, Style: StylePlain},
			Segment{Text: priceText, Style: StylePrice},
		)
		if costText != "" {
			segs = append(segs,
				Segment{Text: priceCostSep, Style: StylePlain},
				Segment{Text: costText, Style: StyleCost},
			)
		}
	}
	l.Segments = segs
	l.Raw = l.Text()
	return l
}

func parseAnnotation(text, prefix string) *int {
	if text == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(text, prefix)))
	if err != nil {
		return nil
	}
	return &n
}

// annotate 有售價時產生 "Sell Price: P" 與 "Cost: C"
func annotate(parts ChainParts, chain string, prices PriceTable) (string, string) {
	if prices == nil {
		return "", ""
	}
	price, ok := prices.Price(parts.Output)
	if !ok {
		return "", ""
	}
	return fmt.Sprintf("%s %d", pricePrefix, price), fmt.Sprintf("%s %d", costPrefix, ChainCost(chain, prices))
}

// AnnotateChain 產生匯出用的一行：有售價時附加 " ---- Sell Price: P | Cost: C"
func AnnotateChain(chain string, prices PriceTable) string {
	parts, ok := ParseChain(chain)
	if !ok {
		return chain
	}
	priceText, costText := annotate(parts, chain, prices)
	return chainLine(parts, priceText, costText, false).Text()
}

// ExportText 輸出文字格式：標題、空行、每條鏈一行，空字串輸出為空行
func ExportText(header string, chains []string, prices PriceTable) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n\n")
	for _, chain := range chains {
		if chain != "" {
			sb.WriteString(AnnotateChain(chain, prices))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// DisplayLines 將搜尋結果轉成帶樣式的行；沒有結果時只有一行 "No chains found"
func DisplayLines(header string, chains []string, catalog Catalog) []Line {
	if len(chains) == 0 {
		return []Line{plainLine(LineText, NoChainsFound)}
	}

	lines := []Line{plainLine(LineHeader, header), plainLine(LineBlank, "")}
	for _, chain := range chains {
		if chain == "" {
			lines = append(lines, plainLine(LineBlank, ""))
			continue
		}
		parts, ok := ParseChain(chain)
		if !ok {
			lines = append(lines, plainLine(LineText, chain))
			continue
		}
		var priceText, costText string
		clickable := false
		if catalog != nil {
			priceText, costText = annotate(parts, chain, catalog)
			clickable = catalog.HasProperties(parts.Output)
		}
		lines = append(lines, chainLine(parts, priceText, costText, clickable))
	}
	return lines
}

// ParseLine 解析匯出格式的一行
func ParseLine(line string) Line {
	line = strings.TrimSuffix(line, "\r")
	if strings.TrimSpace(line) == "" {
		return plainLine(LineBlank, line)
	}

	left, right, ok := strings.Cut(line, equalsSep)
	if !ok {
		if strings.Contains(line, ":") && strings.Contains(line, "Chains") {
			return plainLine(LineHeader, line)
		}
		return plainLine(LineText, line)
	}

	// 註記由匯出端附加在行尾，產物名稱本身不做空白正規化
	outputText, annotation := right, ""
	if i := strings.LastIndex(right, annotationSep); i >= 0 {
		outputText, annotation = right[:i], right[i+len(annotationSep):]
	}
	priceText, costText, _ := strings.Cut(annotation, priceCostSep)

	names := strings.Split(left, plusSep)
	parts := ChainParts{
		Base:     Ingredient(names[0]),
		Elements: make([]Ingredient, 0, len(names)-1),
		Output:   Ingredient(outputText),
	}
	for _, n := range names[1:] {
		parts.Elements = append(parts.Elements, Ingredient(n))
	}

	l := chainLine(parts, priceText, costText, false)
	if l.Text() != line {
		// 多餘空白等無法由片段重建的行，保留原文
		l.Segments = []Segment{{Text: line, Style: StylePlain}}
	}
	l.Raw = line
	return l
}

// ImportText 逐行解析先前匯出的文字；不需要配方索引
func ImportText(text string) []Line {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	lines := make([]Line, 0, len(raw))
	for _, r := range raw {
		lines = append(lines, ParseLine(r))
	}
	return lines
}
