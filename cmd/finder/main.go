// Command finder 在終端機中搜尋、排序、匯出與匯入配方鏈
package main

import (
	"fmt"
	"os"

	"product-finder/internal/core/recipe"
	"product-finder/internal/infrastructure/config"
	"product-finder/internal/pkg/common"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// 全域旗標
	recipesFile   string
	propertiesDir string
	recipesURL    string
	noColor       bool
	verbose       bool

	cfg     *config.Config
	session *recipe.Session
)

var rootCmd = &cobra.Command{
	Use:   "finder",
	Short: "Find mixing chains from a base product",
	Long: `finder enumerates every chain of mixing recipes that starts from a base
product, ranks the results and exports them as text.

Recipes are read from --recipes (or --url). Without either, the configured
recipe file is used, falling back to Products.json in the working directory.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		common.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&recipesFile, "recipes", "r", "", "recipe JSON file")
	rootCmd.PersistentFlags().StringVar(&recipesURL, "url", "", "recipe JSON URL")
	rootCmd.PersistentFlags().StringVarP(&propertiesDir, "properties", "p", "", "properties directory (default from config)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(chainsCmd, importCmd, propsCmd, basesCmd)
}

// setup 載入設定、初始化日誌並建立 Session
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = loaded

	level := "warn"
	if verbose {
		level = "debug"
	}
	if err := common.InitLogger(level, ""); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	session = recipe.NewSession(cfg, nil)

	// 明確指定的屬性目錄載入失敗要回報；預設目錄則靜默略過
	if propertiesDir != "" {
		if _, err := session.LoadProperties(propertiesDir, true); err != nil {
			return err
		}
	} else {
		_, _ = session.LoadProperties(cfg.Finder.PropertiesDir, false)
	}

	ctx := cmd.Context()
	switch {
	case recipesURL != "":
		_, err = session.LoadURL(ctx, recipesURL)
	case recipesFile != "":
		_, err = session.Load(ctx, recipesFile)
	case cfg.Finder.RecipeFile != "":
		_, err = session.Load(ctx, cfg.Finder.RecipeFile)
	}
	if err != nil {
		return err
	}

	common.LogDebug("finder ready",
		zap.Bool("loaded", session.Loaded()),
		zap.Strings("bases", cfg.Finder.BaseProducts),
	)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
