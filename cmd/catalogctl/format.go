package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"spice-storefront/internal/model"
)

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printCategoriesTable(out io.Writer, categories []model.Category) {
	if len(categories) == 0 {
		fmt.Fprintln(out, "No categories found.")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSLUG")
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, c.Slug)
	}
	tw.Flush()
}

func printShopTable(out io.Writer, view *model.ShopView) {
	tabs := make([]string, 0, len(view.Categories))
	for _, c := range view.Categories {
		label := fmt.Sprintf("%s (%d)", c.Name, c.Count)
		if c.Active {
			label = "[" + label + "]"
		}
		tabs = append(tabs, label)
	}
	if len(tabs) > 0 {
		fmt.Fprintf(out, "Tabs: %s\n\n", strings.Join(tabs, "  "))
	}

	if view.Status == model.StatusEmpty {
		fmt.Fprintln(out, "No products found.")
		return
	}
	printCardsTable(out, view.Products)
	fmt.Fprintf(out, "\n%d products\n", view.Total)
}

// printCardsTable prints one row per product card.
func printCardsTable(out io.Writer, cards []model.ProductCard) {
	if len(cards) == 0 {
		fmt.Fprintln(out, "No products found.")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tPRICE\tWAS\tBADGE\tLINK")
	for i, c := range cards {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, c.Name, c.PriceText, c.OriginalPriceText, c.Badge, c.Link)
	}
	tw.Flush()
}

func printProductDetail(out io.Writer, d *model.ProductDetail) {
	fmt.Fprintf(out, "%s\n", d.Name)
	if d.ShortDescription != "" {
		fmt.Fprintf(out, "  %s\n", d.ShortDescription)
	}

	// Price line with optional original price and badge
	priceLine := "  Price: " + d.PriceText
	if d.HasDiscount {
		priceLine += fmt.Sprintf("  (was %s, %s)", d.OriginalPriceText, d.Badge)
	}
	fmt.Fprintln(out, priceLine)

	fmt.Fprintln(out, "  Gallery:")
	for _, img := range d.Gallery.Images {
		marker := " "
		if img == d.Gallery.Main {
			marker = "*"
		}
		fmt.Fprintf(out, "   %s %s\n", marker, img)
	}

	for _, s := range d.Sections {
		fmt.Fprintf(out, "\n  %s\n", s.Title)
		for _, e := range s.Entries {
			fmt.Fprintf(out, "    - %s\n", e.Text())
		}
	}

	if d.OrderLink != "" {
		fmt.Fprintf(out, "\n  Order: %s\n", d.OrderLink)
	}
}
