package main

import (
	"bytes"
	"testing"

	"spice-storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintCategoriesTable(t *testing.T) {
	tests := []struct {
		name       string
		categories []model.Category
		contains   []string
	}{
		{
			name:       "Empty",
			categories: nil,
			contains:   []string{"No categories found."},
		},
		{
			name: "Rows",
			categories: []model.Category{
				{ID: "1", Name: "Whole Spices", Slug: "whole-spices"},
				{ID: "2", Name: "Blends", Slug: "blends"},
			},
			contains: []string{"ID", "Whole Spices", "whole-spices", "Blends"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printCategoriesTable(&buf, tt.categories)
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}

func TestPrintShopTable(t *testing.T) {
	view := &model.ShopView{
		Categories: []model.CategoryTab{
			{ID: "all", Name: "All Products", Count: 2},
			{ID: "1", Name: "Whole Spices", Count: 2, Active: true},
		},
		Products: []model.ProductCard{
			{Name: "Saffron", PriceText: "Rs. 75.00", OriginalPriceText: "Rs. 100.00", Badge: "Sale 25%", Link: "/product/saffron"},
			{Name: "Cumin", PriceText: "Rs. 40.00", Link: "/product/cumin"},
		},
		Total:  2,
		Status: model.StatusOK,
	}

	var buf bytes.Buffer
	printShopTable(&buf, view)

	out := buf.String()
	assert.Contains(t, out, "All Products (2)")
	assert.Contains(t, out, "[Whole Spices (2)]")
	assert.Contains(t, out, "Sale 25%")
	assert.Contains(t, out, "/product/cumin")
	assert.Contains(t, out, "2 products")
}

func TestPrintShopTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	printShopTable(&buf, &model.ShopView{Status: model.StatusEmpty})

	assert.Equal(t, "No products found.\n", buf.String())
}

func TestPrintProductDetail(t *testing.T) {
	detail := &model.ProductDetail{
		ProductCard: model.ProductCard{
			Name:              "Saffron",
			PriceText:         "Rs. 75.00",
			OriginalPriceText: "Rs. 100.00",
			HasDiscount:       true,
			Badge:             "Sale 25%",
		},
		ShortDescription: "Kashmiri saffron",
		Gallery:          model.GalleryView{Images: []string{"/a.jpg", "/b.jpg"}, Main: "/b.jpg"},
		Sections: []model.Section{{
			Title:   "Product Specifications",
			Entries: []model.SectionEntry{{Kind: model.EntryKeyValue, Key: "Weight", Value: "1g"}},
		}},
		OrderLink: "https://wa.me/91980?text=x",
	}

	var buf bytes.Buffer
	printProductDetail(&buf, detail)

	out := buf.String()
	assert.Contains(t, out, "Kashmiri saffron")
	assert.Contains(t, out, "(was Rs. 100.00, Sale 25%)")
	assert.Contains(t, out, "* /b.jpg")
	assert.Contains(t, out, "  /a.jpg")
	assert.Contains(t, out, "- Weight: 1g")
	assert.Contains(t, out, "Order: https://wa.me/91980?text=x")
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, model.Category{ID: "1", Name: "Blends", Slug: "blends"}))

	assert.JSONEq(t, `{"id":"1","name":"Blends","slug":"blends"}`, buf.String())
}
