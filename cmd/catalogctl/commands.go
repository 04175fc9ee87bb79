package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List catalog categories",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Show the shop listing for a category tab",
	Args:  cobra.NoArgs,
	RunE:  runShop,
}

var productCmd = &cobra.Command{
	Use:   "product [slug]",
	Short: "Show the detail view of a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProduct,
}

var showcaseCmd = &cobra.Command{
	Use:   "showcase",
	Short: "Show the home page category strips",
	Args:  cobra.NoArgs,
	RunE:  runShowcase,
}

func init() {
	shopCmd.Flags().String("category", "all", "Category id to filter by, or \"all\"")
	shopCmd.Flags().Int("limit", 0, "Maximum products to list (0 uses LISTING_LIMIT)")
	productCmd.Flags().String("image", "", "Gallery image to show as the main image")

	rootCmd.AddCommand(categoriesCmd, shopCmd, productCmd, showcaseCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	categories, err := storefrontService.Categories(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat(cmd) == outputJSON {
		return printJSON(out, categories)
	}
	printCategoriesTable(out, categories)
	return nil
}

func runShop(cmd *cobra.Command, args []string) error {
	selector, _ := cmd.Flags().GetString("category")
	limit, _ := cmd.Flags().GetInt("limit")

	view, err := storefrontService.Shop(cmd.Context(), cliSession, selector, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat(cmd) == outputJSON {
		return printJSON(out, view)
	}
	printShopTable(out, view)
	return nil
}

func runProduct(cmd *cobra.Command, args []string) error {
	image, _ := cmd.Flags().GetString("image")

	detail, err := productService.Detail(cmd.Context(), args[0], image)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat(cmd) == outputJSON {
		return printJSON(out, detail)
	}
	printProductDetail(out, detail)
	return nil
}

func runShowcase(cmd *cobra.Command, args []string) error {
	showcase, err := storefrontService.Showcase(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat(cmd) == outputJSON {
		return printJSON(out, showcase)
	}
	for i, strip := range showcase {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "== %s ==\n", strip.Category.Name)
		printCardsTable(out, strip.Products)
	}
	return nil
}
