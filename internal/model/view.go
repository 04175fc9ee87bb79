package model

// EntryKind describes how a section entry is displayed.
type EntryKind string

const (
	// EntryKeyValue renders as "Key: Value".
	EntryKeyValue EntryKind = "key_value"
	// EntryBullet renders the key alone.
	EntryBullet EntryKind = "bullet"
)

// SectionEntry is one labelled fact inside a Section.
type SectionEntry struct {
	Kind  EntryKind `json:"kind"`
	Key   string    `json:"key"`
	Value string    `json:"value,omitempty"`
}

// Text returns the display line for the entry.
func (e SectionEntry) Text() string {
	if e.Kind == EntryKeyValue {
		return e.Key + ": " + e.Value
	}
	return e.Key
}

// Section is a typed display block interpreted from a product's sections payload.
type Section struct {
	Type    string         `json:"type"`
	Title   string         `json:"title"`
	Entries []SectionEntry `json:"entries"`
}

// ProductCard is the display model shared by every product listing.
type ProductCard struct {
	ID                ID      `json:"id"`
	Slug              string  `json:"slug"`
	Name              string  `json:"name"`
	CategoryID        ID      `json:"categoryId"`
	Link              string  `json:"link"`
	Image             string  `json:"image"`
	Price             float64 `json:"price"`
	FinalPrice        float64 `json:"finalPrice"`
	HasDiscount       bool    `json:"hasDiscount"`
	DiscountPercent   int     `json:"discountPercent"`
	PriceText         string  `json:"priceText"`
	OriginalPriceText string  `json:"originalPriceText,omitempty"`
	Badge             string  `json:"badge,omitempty"`
}

// ViewStatus tells the page layer which state to render.
type ViewStatus string

const (
	StatusOK    ViewStatus = "ok"
	StatusEmpty ViewStatus = "empty"
)

// ListView is a flat product listing.
type ListView struct {
	Products []ProductCard `json:"products"`
	Meta     *PageMeta     `json:"meta,omitempty"`
	Status   ViewStatus    `json:"status"`
}

// CategoryTab is one entry of the category sidebar or tab bar.
type CategoryTab struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Count  int    `json:"count"`
	Active bool   `json:"active"`
}

// ShopView is the tabbed, category-filtered listing.
type ShopView struct {
	Selector   string         `json:"selector"`
	Scoped     bool           `json:"scoped"`
	Categories []CategoryTab  `json:"categories"`
	Products   []ProductCard  `json:"products"`
	Total      int            `json:"total"`
	Cached     map[string]int `json:"cached"`
	Status     ViewStatus     `json:"status"`
}

// CategoryShowcase is a category with a short product strip.
type CategoryShowcase struct {
	Category Category      `json:"category"`
	Products []ProductCard `json:"products"`
}

// BannerView carries the home page slides and page metadata.
type BannerView struct {
	Banners []Banner   `json:"banners"`
	Meta    *PageMeta  `json:"meta,omitempty"`
	Status  ViewStatus `json:"status"`
}

// GalleryView is the detail page image gallery.
type GalleryView struct {
	Images []string `json:"images"`
	Main   string   `json:"main"`
}

// ProductDetail is the single product page model.
type ProductDetail struct {
	ProductCard
	ShortDescription string      `json:"shortDescription,omitempty"`
	Gallery          GalleryView `json:"gallery"`
	Sections         []Section   `json:"sections"`
	OrderLink        string      `json:"orderLink,omitempty"`
}
