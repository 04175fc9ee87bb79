// Package pricing derives the displayed price and discount of a product from
// its raw price fields.
package pricing

import (
	"fmt"

	"spice-storefront/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Display is the reconciled price state of a product.
type Display struct {
	OriginalPrice   float64
	FinalPrice      float64
	HasDiscount     bool
	DiscountPercent int
}

// Compute reconciles price, offer price and the offer flag.
//
// A discount applies only when isOffer is set and a positive offer price is
// strictly below the base price. The percentage is rounded half away from zero.
func Compute(price, offerPrice model.Amount, isOffer bool) Display {
	base := decimal.Zero
	if price.Valid && price.Value > 0 {
		base = decimal.NewFromFloat(price.Value)
	}

	d := Display{
		OriginalPrice: base.InexactFloat64(),
		FinalPrice:    base.InexactFloat64(),
	}

	if !isOffer || !offerPrice.Valid || offerPrice.Value <= 0 || base.IsZero() {
		return d
	}

	offer := decimal.NewFromFloat(offerPrice.Value)
	if !offer.LessThan(base) {
		return d
	}

	pct := base.Sub(offer).Div(base).Mul(hundred).Round(0).IntPart()
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	d.FinalPrice = offer.InexactFloat64()
	d.HasDiscount = true
	d.DiscountPercent = int(pct)
	return d
}

// Format renders an amount with two decimals behind the currency label.
func Format(amount float64, currency string) string {
	s := decimal.NewFromFloat(amount).StringFixed(2)
	if currency == "" {
		return s
	}
	return currency + " " + s
}

// Badge returns the sale badge text, or "" when there is no discount.
func Badge(d Display) string {
	if !d.HasDiscount || d.DiscountPercent <= 0 {
		return ""
	}
	return fmt.Sprintf("Sale %d%%", d.DiscountPercent)
}

// Card builds the listing card for a product.
func Card(p model.Product, placeholder, currency string) model.ProductCard {
	d := Compute(p.Price, p.OfferPrice, bool(p.IsOffer))

	image := p.Thumbnail
	if image == "" {
		image = placeholder
	}

	card := model.ProductCard{
		ID:              p.ID,
		Slug:            p.Slug,
		Name:            p.Name,
		CategoryID:      p.CategoryID,
		Link:            "/product/" + p.Slug,
		Image:           image,
		Price:           d.OriginalPrice,
		FinalPrice:      d.FinalPrice,
		HasDiscount:     d.HasDiscount,
		DiscountPercent: d.DiscountPercent,
		PriceText:       Format(d.FinalPrice, currency),
		Badge:           Badge(d),
	}
	if d.HasDiscount {
		card.OriginalPriceText = Format(d.OriginalPrice, currency)
	}
	return card
}

// Cards builds listing cards, preserving order.
func Cards(products []model.Product, placeholder, currency string) []model.ProductCard {
	cards := make([]model.ProductCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, Card(p, placeholder, currency))
	}
	return cards
}
