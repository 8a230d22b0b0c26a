package recipe

// DefaultMaxDepth 搜尋深度上限，也是唯一防止無限搜尋的保護
const DefaultMaxDepth = 15

// trail 不可變的已走訪材料串列；分支各自延伸，兄弟分支之間互不影響
type trail struct {
	ing  Ingredient
	next *trail
}

func (t *trail) contains(ing Ingredient) bool {
	for n := t; n != nil; n = n.next {
		if n.ing == ing {
			return true
		}
	}
	return false
}

func (t *trail) with(ing Ingredient) *trail {
	return &trail{ing: ing, next: t}
}

// searcher 單次搜尋的狀態
type searcher struct {
	recipes  []Recipe
	maxDepth int
	calls    int
}

// Enumerate 從基底材料出發，列舉所有配方鏈（包含每一條鏈的所有前綴）。
// 結果依配方表順序深度優先產生，順序本身沒有意義。
func Enumerate(idx *Index, base Ingredient, maxDepth int) []Chain {
	chains, _ := enumerate(idx, base, maxDepth)
	return chains
}

// enumerate 同 Enumerate，另外回傳遞迴呼叫次數
func enumerate(idx *Index, base Ingredient, maxDepth int) ([]Chain, int) {
	if idx == nil {
		return nil, 0
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	s := &searcher{recipes: idx.recipes, maxDepth: maxDepth}
	chains := s.walk(base, nil, 0)
	return chains, s.calls
}

func (s *searcher) walk(current Ingredient, visited *trail, depth int) []Chain {
	s.calls++
	if depth >= s.maxDepth || visited.contains(current) {
		return nil
	}
	visited = visited.with(current)

	var chains []Chain
	for _, r := range s.recipes {
		// 兩個欄位分開檢查，Product 與 Mixer 相同時會產生兩筆結果
		if r.Product == current {
			chains = s.extend(chains, Step{Recipe: r, Role: RoleProduct}, visited, depth)
		}
		if r.Mixer == current {
			chains = s.extend(chains, Step{Recipe: r, Role: RoleMixer}, visited, depth)
		}
	}
	return chains
}

func (s *searcher) extend(chains []Chain, step Step, visited *trail, depth int) []Chain {
	chains = append(chains, Chain{step})
	for _, next := range s.walk(step.Recipe.Output, visited, depth+1) {
		chain := make(Chain, 0, len(next)+1)
		chain = append(chain, step)
		chains = append(chains, append(chain, next...))
	}
	return chains
}
