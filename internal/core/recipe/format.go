package recipe

import "strings"

const (
	plusSep   = " + "
	equalsSep = " = "
)

// FormatChain 將配方鏈轉為 "<base> + e1 + e2 = <output>"，空鏈回傳 false
func FormatChain(base Ingredient, chain Chain) (string, bool) {
	if len(chain) == 0 {
		return "", false
	}

	var sb strings.Builder
	sb.WriteString(string(base))
	current := base
	for _, step := range chain {
		r := step.Recipe
		switch {
		case r.Product == current:
			sb.WriteString(plusSep)
			sb.WriteString(string(r.Mixer))
		case r.Mixer == current:
			sb.WriteString(plusSep)
			sb.WriteString(string(r.Product))
		}
		current = r.Output
	}
	sb.WriteString(equalsSep)
	sb.WriteString(string(chain.Output()))
	return sb.String(), true
}

// Format 格式化並去重，保留第一次出現的順序
func Format(base Ingredient, chains []Chain) []string {
	seen := make(map[string]struct{}, len(chains))
	formatted := make([]string, 0, len(chains))
	for _, chain := range chains {
		s, ok := FormatChain(base, chain)
		if !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		formatted = append(formatted, s)
	}
	return formatted
}

// ChainParts 格式化字串拆解後的結構
type ChainParts struct {
	Base     Ingredient   `json:"base"`
	Elements []Ingredient `json:"elements"`
	Output   Ingredient   `json:"output"`
}

// ParseChain 拆解格式化字串，沒有 " = " 時回傳 false
func ParseChain(s string) (ChainParts, bool) {
	left, right, ok := strings.Cut(s, equalsSep)
	if !ok {
		return ChainParts{}, false
	}
	names := strings.Split(left, plusSep)
	parts := ChainParts{
		Base:     Ingredient(names[0]),
		Elements: make([]Ingredient, 0, len(names)-1),
		Output:   Ingredient(right),
	}
	for _, n := range names[1:] {
		parts.Elements = append(parts.Elements, Ingredient(n))
	}
	return parts, true
}

// String 重新組成格式化字串
func (p ChainParts) String() string {
	var sb strings.Builder
	sb.WriteString(string(p.Base))
	for _, e := range p.Elements {
		sb.WriteString(plusSep)
		sb.WriteString(string(e))
	}
	sb.WriteString(equalsSep)
	sb.WriteString(string(p.Output))
	return sb.String()
}
