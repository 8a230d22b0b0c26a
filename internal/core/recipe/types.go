package recipe

import "strings"

// Ingredient 材料名稱（區分大小寫，不做空白正規化）
type Ingredient string

// AllProducts 代表「全部基底產品」的虛擬選項，本身不會被搜尋
const AllProducts Ingredient = "ALL"

// Recipe 混合配方：Product 加上 Mixer 得到 Output
type Recipe struct {
	Product Ingredient `json:"Product"`
	Mixer   Ingredient `json:"Mixer"`
	Output  Ingredient `json:"Output"`
}

// Role 搜尋時與目前材料相符的配方欄位
type Role int

const (
	RoleProduct Role = iota
	RoleMixer
)

func (r Role) String() string {
	if r == RoleMixer {
		return "mixer"
	}
	return "product"
}

// Step 配方鏈中的一步
type Step struct {
	Recipe Recipe
	Role   Role
}

// Current 此步驟開始時的目前材料
func (s Step) Current() Ingredient {
	if s.Role == RoleMixer {
		return s.Recipe.Mixer
	}
	return s.Recipe.Product
}

// Other 與目前材料混合的另一個輸入
func (s Step) Other() Ingredient {
	if s.Role == RoleMixer {
		return s.Recipe.Product
	}
	return s.Recipe.Mixer
}

// Chain 由配方步驟組成的路徑
type Chain []Step

// Output 鏈的最終產物，空鏈回傳空字串
func (c Chain) Output() Ingredient {
	if len(c) == 0 {
		return ""
	}
	return c[len(c)-1].Recipe.Output
}

// Ingredients 將字串轉為材料清單，略過空白項目
func Ingredients(names []string) []Ingredient {
	out := make([]Ingredient, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, Ingredient(n))
		}
	}
	return out
}
