package exportsvc

import (
	"github.com/gmarket/export-svc/internal/service/models/export"
	"github.com/gmarket/export-svc/internal/service/models/money"
	"github.com/shopspring/decimal"
)

const (
	// Orders above this subtotal ship for free; everything else pays the
	// flat rate.
	freeShippingThresholdCents money.Cents = 100_00
	flatShippingCents          money.Cents = 10_00
)

var taxRate = decimal.NewFromFloat(0.15)

// PriceBreakdown holds the computed price components of an export, in cents.
type PriceBreakdown struct {
	ItemsPriceCents    money.Cents
	ShippingPriceCents money.Cents
	TaxPriceCents      money.Cents
	TotalPriceCents    money.Cents
}

// CalcPrices computes subtotal, shipping, tax and grand total for the given
// line items. Tax is rounded half-up to whole cents.
func CalcPrices(items []export.ExportItem) PriceBreakdown {
	var itemsPrice money.Cents
	for _, item := range items {
		itemsPrice += item.UnitPriceCents.MulInt(item.Quantity)
	}

	shippingPrice := flatShippingCents
	if itemsPrice > freeShippingThresholdCents {
		shippingPrice = 0
	}

	taxPrice := itemsPrice.ApplyRate(taxRate)

	return PriceBreakdown{
		ItemsPriceCents:    itemsPrice,
		ShippingPriceCents: shippingPrice,
		TaxPriceCents:      taxPrice,
		TotalPriceCents:    itemsPrice + shippingPrice + taxPrice,
	}
}
