package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"product-finder/internal/core/recipe"
	"product-finder/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliPayload = `{
  "MixRecipes": [
    {"Product": "ogkush", "Mixer": "cuke", "Output": "sourdiesel"},
    {"Product": "sourdiesel", "Mixer": "banana", "Output": "greencrack"}
  ],
  "ProductPrices": [
    {"String": "sourdiesel", "Int": 40},
    {"String": "greencrack", "Int": 55}
  ]
}`

type fixture struct {
	dir      string
	recipes  string
	propsDir string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	recipes := filepath.Join(dir, "Products.json")
	require.NoError(t, os.WriteFile(recipes, []byte(cliPayload), 0o644))

	propsDir := filepath.Join(dir, "CreatedProducts")
	require.NoError(t, os.Mkdir(propsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(propsDir, "greencrack.json"), []byte(`{"Properties": ["Energizing", "Focused"]}`), 0o644))

	// 預設檔案與目錄指向不存在的位置，避免讀到工作目錄
	t.Setenv("APP_FINDER_FALLBACK_FILE", filepath.Join(dir, "absent.json"))
	t.Setenv("PROPERTIES_DIR", filepath.Join(dir, "absent"))
	t.Setenv("APP_FINDER_BASE_PRODUCTS", "ALL,ogkush,meth")
	return fixture{dir: dir, recipes: recipes, propsDir: propsDir}
}

// runFinder 以指定參數執行根命令，回傳標準輸出
func runFinder(t *testing.T, args ...string) (string, error) {
	t.Helper()

	recipesFile, recipesURL, propertiesDir = "", "", ""
	noColor, verbose = false, false
	chainsBase, chainsSort, chainsDepth, chainsExport = "", "default", 0, ""
	basesModes = false
	t.Cleanup(func() { common.SetLogger(nil) })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--no-color"}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestChainsCommand(t *testing.T) {
	fx := newFixture(t)

	out, err := runFinder(t, "chains", "--recipes", fx.recipes, "--base", "ogkush", "--sort", "price-desc")
	require.NoError(t, err)

	assert.Equal(t, "Chains starting from ogkush:\n"+
		"\n"+
		"ogkush + cuke + banana = greencrack ---- Sell Price: 55 | Cost: 4\n"+
		"ogkush + cuke = sourdiesel ---- Sell Price: 40 | Cost: 2\n", out)
}

func TestChainsCommand_NoResults(t *testing.T) {
	fx := newFixture(t)

	out, err := runFinder(t, "chains", "-r", fx.recipes, "-b", "meth")
	require.NoError(t, err)
	assert.Equal(t, recipe.NoChainsFound+"\n", out)
}

func TestChainsCommand_Export(t *testing.T) {
	fx := newFixture(t)
	target := filepath.Join(fx.dir, "out.txt")

	_, err := runFinder(t, "chains", "-r", fx.recipes, "-b", "ALL", "-s", "shortest", "-o", target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Chains for all products:\n\n"))

	out, err := runFinder(t, "import", target)
	require.NoError(t, err)
	assert.Equal(t, string(data), out)
}

func TestChainsCommand_Errors(t *testing.T) {
	fx := newFixture(t)

	_, err := runFinder(t, "chains", "-b", "ogkush")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMissingData))

	_, err = runFinder(t, "chains", "-r", fx.recipes, "-b", "ogkush", "-s", "alphabetical")
	assert.True(t, errors.Is(err, common.ErrInvalidSortMode))

	_, err = runFinder(t, "chains", "-r", filepath.Join(fx.dir, "nope.json"), "-b", "ogkush")
	assert.True(t, errors.Is(err, common.ErrLoadFailure))
}

func TestImportCommand_MissingFile(t *testing.T) {
	fx := newFixture(t)

	_, err := runFinder(t, "import", filepath.Join(fx.dir, "nope.txt"))
	assert.True(t, errors.Is(err, common.ErrImportSource))
}

func TestPropsCommand(t *testing.T) {
	fx := newFixture(t)

	out, err := runFinder(t, "props", "greencrack", "--properties", fx.propsDir)
	require.NoError(t, err)
	assert.Equal(t, "greencrack\n• Energizing\n• Focused\n", out)

	_, err = runFinder(t, "props", "sourdiesel", "--properties", fx.propsDir)
	assert.Error(t, err)
}

func TestBasesCommand(t *testing.T) {
	newFixture(t)

	out, err := runFinder(t, "bases", "--modes")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ALL\nogkush\nmeth\n"))
	assert.Contains(t, out, "Price (Low to High)")
}

func TestRenderer_Plain(t *testing.T) {
	var buf bytes.Buffer
	r := newRenderer(&buf, true)

	lines := recipe.ImportText("Chains starting from a:\n\na + cuke = b ---- Sell Price: 10 | Cost: 2\n")
	assert.Equal(t, "Chains starting from a:\n\na + cuke = b ---- Sell Price: 10 | Cost: 2\n", r.lines(lines))
}
