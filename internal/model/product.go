package model

import (
	"encoding/json"
)

// Product represents a spice product as returned by the catalog API.
type Product struct {
	ID               ID              `json:"id"`
	Slug             string          `json:"slug"`
	Name             string          `json:"name"`
	CategoryID       ID              `json:"category_id"`
	Price            Amount          `json:"price"`
	OfferPrice       Amount          `json:"offer_price"`
	IsOffer          Flag            `json:"is_offer"`
	Thumbnail        string          `json:"thumbnail,omitempty"`
	Images           []string        `json:"images,omitempty"`
	Sections         json.RawMessage `json:"sections,omitempty"`
	ShortDescription string          `json:"short_description,omitempty"`
}

// Category represents a product category.
type Category struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Banner represents a home page banner slide.
type Banner struct {
	ID       ID     `json:"id"`
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Image    string `json:"image,omitempty"`
	Link     string `json:"link,omitempty"`
}

// PageMeta carries page metadata supplied alongside some listings.
type PageMeta struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Keywords    string `json:"keywords,omitempty"`
	OGImage     string `json:"og_image,omitempty"`
	OGURL       string `json:"og_url,omitempty"`
}

// Envelope is the response wrapper used by every catalog API endpoint.
// Success must be checked before Data is read.
type Envelope[T any] struct {
	Success bool      `json:"success"`
	Data    T         `json:"data"`
	Meta    *PageMeta `json:"meta,omitempty"`
}
