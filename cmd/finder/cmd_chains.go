package main

import (
	"errors"
	"fmt"

	"product-finder/internal/core/recipe"
	"product-finder/internal/pkg/common"

	"github.com/spf13/cobra"
)

var (
	chainsBase   string
	chainsSort   string
	chainsDepth  int
	chainsExport string
)

var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "List mixing chains for a base product",
	Long: `List every chain that starts from --base. Use ALL to search each
configured base product in turn.

Sort modes: default, shortest, longest, price-asc, price-desc, cost-asc,
cost-desc (the labels shown by "finder bases --modes" work too).`,
	Example: `  finder chains --base ogkush --sort price-desc
  finder chains --base ALL --export chains.txt`,
	RunE: runChains,
}

func init() {
	chainsCmd.Flags().StringVarP(&chainsBase, "base", "b", "", "base product, or ALL")
	chainsCmd.Flags().StringVarP(&chainsSort, "sort", "s", "default", "sort mode")
	chainsCmd.Flags().IntVarP(&chainsDepth, "depth", "d", 0, "maximum chain depth (default from config)")
	chainsCmd.Flags().StringVarP(&chainsExport, "export", "o", "", "write the result to this text file")
	_ = chainsCmd.MarkFlagRequired("base")
}

func runChains(cmd *cobra.Command, args []string) error {
	mode, err := recipe.ParseSortMode(chainsSort)
	if err != nil {
		return err
	}

	result, err := session.FindDepth(cmd.Context(), recipe.Ingredient(chainsBase), mode, chainsDepth)
	if err != nil {
		if errors.Is(err, common.ErrMissingData) {
			return fmt.Errorf("no recipes loaded: pass --recipes or place Products.json in the working directory: %w", err)
		}
		return err
	}

	out := cmd.OutOrStdout()
	r := newRenderer(out, noColor)
	fmt.Fprint(out, r.lines(session.Lines(result)))

	if chainsExport == "" {
		return nil
	}
	if err := session.ExportFile(result, chainsExport); err != nil {
		if errors.Is(err, common.ErrNothingToExport) {
			fmt.Fprintln(cmd.ErrOrStderr(), "No results to export!")
			return nil
		}
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Results exported to %s\n", chainsExport)
	return nil
}
