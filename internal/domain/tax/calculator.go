package tax

import (
	"github.com/shopspring/decimal"
)

// TaxType describes how the tax portion of a calculation was derived
type TaxType string

const (
	TaxTypeInclusive TaxType = "VAT_INCLUSIVE"
	TaxTypeExclusive TaxType = "VAT_EXCLUSIVE"
	TaxTypeNone      TaxType = "NONE"
)

var oneHundred = decimal.NewFromInt(100)

// Calculation is the result of a VAT computation for one line or for a
// whole sale. Amounts are rounded to 2 decimals, half-up.
type Calculation struct {
	NetAmount   decimal.Decimal `json:"net_amount"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	GrossAmount decimal.Decimal `json:"gross_amount"`
	Rate        decimal.Decimal `json:"rate"`
	Type        TaxType         `json:"type"`
}

// round2 rounds half away from zero to 2 decimal places. For the
// non-negative amounts flowing through the calculator this is half-up.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ResolveRate determines the applicable VAT rate for a product
// classification under the given tenant settings. An override rate on
// the product wins over the tenant default for taxable classifications.
func ResolveRate(classification Classification, overrideRate *decimal.Decimal, settings *Settings) decimal.Decimal {
	if settings == nil || !settings.ChargeVAT {
		return decimal.Zero
	}
	switch classification {
	case ClassificationStandard:
		if overrideRate != nil && !overrideRate.IsNegative() {
			return *overrideRate
		}
		return settings.DefaultRate
	case ClassificationReduced:
		if overrideRate != nil && !overrideRate.IsNegative() {
			return *overrideRate
		}
		return DefaultReducedRate
	default:
		return decimal.Zero
	}
}

// Calculate computes net, tax and gross for quantity * unitPrice under
// the tenant's pricing mode. Rounding happens at every step, per line,
// to match VAT reporting granularity.
func Calculate(classification Classification, overrideRate *decimal.Decimal, settings *Settings, quantity, unitPrice decimal.Decimal) Calculation {
	lineAmount := round2(unitPrice.Mul(quantity))
	rate := ResolveRate(classification, overrideRate, settings)

	if rate.IsZero() {
		return Calculation{
			NetAmount:   lineAmount,
			TaxAmount:   decimal.Zero,
			GrossAmount: lineAmount,
			Rate:        decimal.Zero,
			Type:        TaxTypeNone,
		}
	}

	if settings.PricingMode == PricingModeInclusive {
		gross := lineAmount
		taxAmt := round2(gross.Mul(rate).Div(rate.Add(oneHundred)))
		return Calculation{
			NetAmount:   gross.Sub(taxAmt),
			TaxAmount:   taxAmt,
			GrossAmount: gross,
			Rate:        rate,
			Type:        TaxTypeInclusive,
		}
	}

	net := lineAmount
	taxAmt := round2(net.Mul(rate).Div(oneHundred))
	return Calculation{
		NetAmount:   net,
		TaxAmount:   taxAmt,
		GrossAmount: net.Add(taxAmt),
		Rate:        rate,
		Type:        TaxTypeExclusive,
	}
}

// ApplyDiscount reduces a line calculation's net by the discount amount
// and scales the tax proportionally, so a discount granted before tax
// does not require re-deriving tax through a second net/gross inversion.
func ApplyDiscount(calc Calculation, discount decimal.Decimal) Calculation {
	if discount.LessThanOrEqual(decimal.Zero) || calc.NetAmount.IsZero() {
		return calc
	}
	if discount.GreaterThan(calc.NetAmount) {
		discount = calc.NetAmount
	}
	discountedNet := round2(calc.NetAmount.Sub(discount))
	adjustedTax := round2(calc.TaxAmount.Mul(discountedNet).Div(calc.NetAmount))
	if adjustedTax.IsNegative() {
		adjustedTax = decimal.Zero
	}
	lineTotal := discountedNet.Add(adjustedTax)
	if lineTotal.IsNegative() {
		lineTotal = decimal.Zero
	}
	return Calculation{
		NetAmount:   discountedNet,
		TaxAmount:   adjustedTax,
		GrossAmount: lineTotal,
		Rate:        calc.Rate,
		Type:        calc.Type,
	}
}

// AggregateTotals sums line calculations into sale-level totals. The
// rate is the weighted average effective rate (totalTax / totalNet).
func AggregateTotals(lines []Calculation) Calculation {
	total := Calculation{
		NetAmount:   decimal.Zero,
		TaxAmount:   decimal.Zero,
		GrossAmount: decimal.Zero,
		Rate:        decimal.Zero,
		Type:        TaxTypeNone,
	}
	for _, line := range lines {
		total.NetAmount = total.NetAmount.Add(line.NetAmount)
		total.TaxAmount = total.TaxAmount.Add(line.TaxAmount)
		total.GrossAmount = total.GrossAmount.Add(line.GrossAmount)
		if line.Type != TaxTypeNone {
			total.Type = line.Type
		}
	}
	if total.NetAmount.IsPositive() {
		total.Rate = round2(total.TaxAmount.Div(total.NetAmount).Mul(oneHundred))
	}
	return total
}
