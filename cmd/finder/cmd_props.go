package main

import (
	"fmt"
	"strings"

	"product-finder/internal/core/recipe"

	"github.com/spf13/cobra"
)

var propsCmd = &cobra.Command{
	Use:   "props INGREDIENT",
	Short: "Show the properties of a created product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProps,
}

var basesModes bool

var basesCmd = &cobra.Command{
	Use:   "bases",
	Short: "List the configured base products",
	Args:  cobra.NoArgs,
	RunE:  runBases,
}

func init() {
	basesCmd.Flags().BoolVar(&basesModes, "modes", false, "also list the sort modes")
}

func runProps(cmd *cobra.Command, args []string) error {
	ing := recipe.Ingredient(args[0])
	props, ok := session.Properties(ing)
	if !ok {
		return fmt.Errorf("no properties found for %s", ing)
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, newRenderer(out, noColor).properties(ing, props))
	return nil
}

func runBases(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, b := range session.Bases() {
		fmt.Fprintln(out, b)
	}

	if basesModes {
		labels := make([]string, 0, len(recipe.SortModes()))
		for _, m := range recipe.SortModes() {
			labels = append(labels, m.String())
		}
		fmt.Fprintf(out, "\nSort modes: %s\n", strings.Join(labels, ", "))
	}
	return nil
}
