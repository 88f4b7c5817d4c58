package domain

import (
	"github.com/shopspring/decimal"
	catalogdomain "github.com/smithline/atelier/internal/catalog/domain"
)

var oneHundred = decimal.NewFromInt(100)

// Calculate turns a sale amount, quantity, and commission policy into the
// commission owed, rounded to 2 decimal places half away from zero. A
// quantity below 1 is treated as 1.
func Calculate(saleAmount decimal.Decimal, quantity int, commissionType catalogdomain.CommissionType, commissionValue decimal.Decimal) (decimal.Decimal, error) {
	if quantity < 1 {
		quantity = 1
	}

	switch commissionType {
	case catalogdomain.CommissionTypePercentage:
		return saleAmount.Mul(commissionValue).Div(oneHundred).Round(2), nil
	case catalogdomain.CommissionTypeFixed:
		return commissionValue.Mul(decimal.NewFromInt(int64(quantity))).Round(2), nil
	default:
		return decimal.Zero, ErrUnknownCommissionType
	}
}
