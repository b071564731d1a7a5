package commission

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/mercanto/storefront-backend/pkg/errors"
)

var hundred = decimal.NewFromInt(100)

// Breakdown is the commission split for one supplier order. The sum of
// Commission and SupplierRevenue always equals TotalPrice exactly.
type Breakdown struct {
	TotalPrice      decimal.Decimal `json:"total_price"`
	Commission      decimal.Decimal `json:"commission"`
	SupplierRevenue decimal.Decimal `json:"supplier_revenue"`
}

// Calculate computes the platform commission and supplier revenue from a
// unit price, quantity, and supplier-specific rate (a 0-100 percentage).
// Total and commission are rounded half-up to currency precision; supplier
// revenue is derived by subtraction so the split never drifts.
func Calculate(unitPrice decimal.Decimal, quantity int, rate decimal.Decimal) (Breakdown, error) {
	if quantity <= 0 {
		return Breakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return Breakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return Breakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "commission rate must be between 0 and 100")
	}

	total := unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
	cut := total.Mul(rate).Div(hundred).Round(2)

	return Breakdown{
		TotalPrice:      total,
		Commission:      cut,
		SupplierRevenue: total.Sub(cut),
	}, nil
}
